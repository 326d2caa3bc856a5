package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout is returned when a plugin outlives the executor timeout.
var ErrTimeout = errors.New("plugin execution timeout")

// Executor runs plugins with a per-run timeout.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates a new Executor with the given timeout.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{timeout: timeout}
}

// Execute sends req as JSON on the plugin's stdin and parses its stdout as
// a Response. The plugin runs in its own directory.
func (e *Executor) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path

	if req.Config == nil {
		req.Config = plugin.Manifest.Config
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}

	if err != nil {
		if s := stderr.String(); s != "" {
			return nil, fmt.Errorf("plugin execution failed: %w, stderr: %s", err, s)
		}
		return nil, fmt.Errorf("plugin execution failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse plugin response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}
