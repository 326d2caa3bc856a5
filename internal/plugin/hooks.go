package plugin

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Hooks fans an event out to every plugin subscribed to it.
type Hooks struct {
	manager  *Manager
	executor *Executor
	log      *zap.Logger
}

// NewHooks creates a dispatcher over manager's plugins.
func NewHooks(manager *Manager, executor *Executor, log *zap.Logger) *Hooks {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hooks{manager: manager, executor: executor, log: log.Named("hooks")}
}

// Result is the outcome of one plugin run.
type Result struct {
	Plugin   string
	Response *Response
	Err      error
}

// Fire runs the subscribed plugins one after another and returns their
// results. Failures are logged and never retried.
func (h *Hooks) Fire(ctx context.Context, req Request) []Result {
	plugins := h.manager.ForEvent(req.Event)
	results := make([]Result, 0, len(plugins))

	for _, p := range plugins {
		started := time.Now()
		r := req
		resp, err := h.executor.Execute(ctx, p, &r)

		fields := []zap.Field{
			zap.String("plugin", p.Manifest.Name),
			zap.String("event", req.Event),
			zap.Duration("took", time.Since(started)),
		}
		switch {
		case err != nil:
			h.log.Warn("hook failed", append(fields, zap.Error(err))...)
		case !resp.Success:
			h.log.Warn("hook reported failure", append(fields, zap.String("error", resp.Error))...)
		default:
			h.log.Debug("hook ran", fields...)
		}

		results = append(results, Result{Plugin: p.Manifest.Name, Response: resp, Err: err})
	}

	return results
}
