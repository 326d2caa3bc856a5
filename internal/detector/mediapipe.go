package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// idleShutdown is how long the sidecar may sit unused before it is stopped.
const idleShutdown = 30 * time.Second

// ErrScriptNotFound is returned when the MediaPipe sidecar script cannot be located.
var ErrScriptNotFound = errors.New("mediapipe_service.py not found")

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
//
// Wire protocol: each request is a 4-byte big-endian length followed by a
// JPEG image on the sidecar's stdin; each response is one JSON line
// {"hands":[{"points":[{"x":..,"y":..}],"handedness":"Right","score":0.9}]}.
type MediaPipeDetector struct {
	config     Config
	scriptPath string
	log        *zap.Logger
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     *bufio.Reader
	mu         sync.Mutex
	started    bool
	lastUsed   time.Time
	idleTimer  *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config, log *zap.Logger) (*MediaPipeDetector, error) {
	scriptPath := findMediaPipeScript()
	if scriptPath == "" {
		return nil, ErrScriptNotFound
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &MediaPipeDetector{
		config:     config,
		scriptPath: scriptPath,
		log:        log.Named("detector"),
	}, nil
}

// Detect sends a JPEG frame to the sidecar and returns the detected hands.
func (d *MediaPipeDetector) Detect(jpeg []byte) ([]HandPose, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(jpeg)))

	if _, err := d.stdin.Write(length); err != nil {
		d.kill()
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(jpeg); err != nil {
		d.kill()
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		d.kill()
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Hands []jsonHand `json:"hands"`
		Error string     `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("mediapipe: %s", response.Error)
	}

	result := make([]HandPose, len(response.Hands))
	for i, h := range response.Hands {
		result[i] = h.toHandPose()
	}

	d.lastUsed = time.Now()
	d.resetIdleTimer()

	return result, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, d.scriptPath,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', 2, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', 2, 64),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.lastUsed = time.Now()

	d.log.Info("mediapipe sidecar started",
		zap.String("python", pythonPath),
		zap.Int("pid", d.cmd.Process.Pid))

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	d.log.Info("mediapipe sidecar stopped")
	return err
}

// kill tears down a sidecar whose pipe broke so the next Detect restarts it.
func (d *MediaPipeDetector) kill() {
	if d.cmd != nil && d.cmd.Process != nil {
		d.cmd.Process.Kill()
	}
	if err := d.shutdown(); err != nil {
		d.log.Debug("sidecar exit", zap.Error(err))
	}
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(idleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findMediaPipeScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/mediapipe_service.py",
		"../scripts/mediapipe_service.py",
		filepath.Join(execDir, "scripts/mediapipe_service.py"),
		filepath.Join(os.Getenv("HOME"), ".photobooth/scripts/mediapipe_service.py"),
	}

	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".photobooth/venv/bin/python"),
	}

	return firstExisting(candidates)
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonHand represents the JSON structure from the Python service.
type jsonHand struct {
	Points     []Keypoint `json:"points"`
	Handedness string     `json:"handedness"`
	Score      float64    `json:"score"`
}

func (h jsonHand) toHandPose() HandPose {
	pose := HandPose{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	for i := 0; i < NumLandmarks && i < len(h.Points); i++ {
		pose.Points[i] = h.Points[i]
	}

	return pose
}
