// Package app runs the photobooth: it owns the camera, drives the per-frame
// pipeline and fans results out to connected viewers.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/photobooth/internal/booth"
	"github.com/ayusman/photobooth/internal/capture"
	"github.com/ayusman/photobooth/internal/detector"
	"github.com/ayusman/photobooth/internal/metrics"
	"github.com/ayusman/photobooth/internal/plugin"
	"github.com/ayusman/photobooth/internal/store"
)

// ErrSourceUnavailable is returned when the camera cannot be opened.
var ErrSourceUnavailable = errors.New("camera unavailable")

// unavailableMessage is what viewers receive when the camera cannot be opened.
const unavailableMessage = "Cannot open camera"

// Detection frame size and pacing defaults.
const (
	DefaultDetectWidth   = 320
	DefaultDetectHeight  = 240
	DefaultFrameInterval = 33 * time.Millisecond
)

// Config holds configuration options for the application.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Photos   *capture.PhotoWriter
	Store    *store.Store     // optional catalogue
	Hooks    *plugin.Hooks    // optional
	Metrics  *metrics.Metrics // optional
	Logger   *zap.Logger      // optional
	Clock    booth.Clock      // optional, system clock by default

	Booth          booth.Config
	DetectWidth    int
	DetectHeight   int
	DisplayQuality int
	FrameInterval  time.Duration
}

// ModeStatus is the result of a capture-mode toggle.
type ModeStatus struct {
	Mode        string `json:"mode"`
	IsCapturing bool   `json:"is_capturing"`
	Countdown   int    `json:"countdown"`
}

// Status summarizes the active session.
type Status struct {
	Mode        string  `json:"mode"`
	ZoomLevel   float64 `json:"zoom_level"`
	IsCapturing bool    `json:"is_capturing"`
	Countdown   int     `json:"countdown"`
	PhotosCount int     `json:"photos_count"`
	MaxPhotos   int     `json:"max_photos"`
}

// run is one camera acquisition: it lasts from the first viewer joining
// until the last one leaves or the camera fails.
type run struct {
	session *booth.Session
	cancel  context.CancelFunc
	done    chan struct{}

	// photo data URLs by photo id; touched only by the pipeline goroutine
	urls map[string]string
}

// App is the photobooth application. One shared session serves every viewer.
type App struct {
	cfg     Config
	log     *zap.Logger
	metrics *metrics.Metrics
	viewers *Broadcaster

	ctx    context.Context
	cancel context.CancelFunc
	hookWG sync.WaitGroup

	mu      sync.Mutex
	session *booth.Session
	pending bool // session has not streamed yet; the next run adopts it
	current *run
	last    *run
	closed  bool
}

// New creates an App. The camera is not opened until the first viewer subscribes.
func New(cfg Config) *App {
	if cfg.Camera == nil {
		cfg.Camera = capture.NewCamera(capture.DefaultConfig())
	}
	if cfg.Photos == nil {
		cfg.Photos = capture.NewPhotoWriter("captures", capture.CaptureQuality)
	}
	if cfg.Detector == nil {
		cfg.Detector = detector.NewMockDetector()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Clock == nil {
		cfg.Clock = booth.SystemClock{}
	}
	if cfg.Booth.PhotoQuota <= 0 {
		cfg.Booth = booth.DefaultConfig()
	}
	if cfg.DetectWidth <= 0 || cfg.DetectHeight <= 0 {
		cfg.DetectWidth, cfg.DetectHeight = DefaultDetectWidth, DefaultDetectHeight
	}
	if cfg.DisplayQuality <= 0 {
		cfg.DisplayQuality = capture.DisplayQuality
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		cfg:     cfg,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
		viewers: NewBroadcaster(),
		ctx:     ctx,
		cancel:  cancel,
		session: booth.New(cfg.Booth, cfg.Clock),
		pending: true,
	}
}

// Metrics returns the metrics the pipeline reports to.
func (a *App) Metrics() *metrics.Metrics { return a.metrics }

// Subscribe registers a viewer. The first viewer starts a camera run.
// After Close the returned channel is already closed.
func (a *App) Subscribe() (int, <-chan Update) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		ch := make(chan Update)
		close(ch)
		return -1, ch
	}

	id, ch := a.viewers.Subscribe()
	a.metrics.TotalViewers.Add(1)
	a.metrics.ActiveViewers.Store(int64(a.viewers.Count()))

	if a.current == nil {
		a.startRunLocked()
	}
	return id, ch
}

// Unsubscribe removes a viewer. When the last viewer leaves the run is
// cancelled and the camera released.
func (a *App) Unsubscribe(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.viewers.Unsubscribe(id)
	a.metrics.ActiveViewers.Store(int64(a.viewers.Count()))

	if a.viewers.Count() == 0 && a.current != nil {
		a.log.Info("last viewer left, stopping stream", zap.String("session", a.current.session.ID()))
		a.current.cancel()
		a.current = nil
	}
}

// Viewers returns the number of connected viewers.
func (a *App) Viewers() int {
	return a.viewers.Count()
}

// Streaming reports whether a camera run is active.
func (a *App) Streaming() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current != nil
}

func (a *App) startRunLocked() {
	ctx, cancel := context.WithCancel(a.ctx)
	r := &run{
		session: a.idleSessionLocked(),
		cancel:  cancel,
		done:    make(chan struct{}),
		urls:    make(map[string]string),
	}

	var prev <-chan struct{}
	if a.last != nil {
		prev = a.last.done
	}

	a.pending = false
	a.current = r
	a.last = r
	a.metrics.Runs.Add(1)

	go a.runPipeline(ctx, r, prev)
}

// finishRun detaches r after the pipeline stopped on its own. Viewers of
// a run that ended with an error are disconnected.
func (a *App) finishRun(r *run) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != r {
		return
	}
	a.current = nil
	r.cancel()
	a.viewers.CloseAll()
	a.metrics.ActiveViewers.Store(0)
}

// idleSessionLocked returns the session the next run streams. Between
// runs it replaces a streamed session with a fresh one.
func (a *App) idleSessionLocked() *booth.Session {
	if a.current == nil && !a.pending {
		a.session = booth.New(a.cfg.Booth, a.cfg.Clock)
		a.pending = true
	}
	return a.session
}

// CurrentSession returns the streaming session, or the most recent one
// while no stream runs.
func (a *App) CurrentSession() *booth.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// controlSession returns the session a mutating control operation acts
// on: the streaming one, or the one the next run will stream.
func (a *App) controlSession() *booth.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.idleSessionLocked()
}

// ToggleMode starts a capture episode if idle, or stops the current one.
// With no stream running the change applies to the next stream.
func (a *App) ToggleMode() ModeStatus {
	snap := a.controlSession().Toggle()
	a.metrics.SetCapturing(snap.State.IsCapturing(), len(snap.Photos))
	a.log.Info("capture mode toggled",
		zap.String("session", snap.SessionID),
		zap.String("mode", snap.State.Mode()))

	return ModeStatus{
		Mode:        snap.State.Mode(),
		IsCapturing: snap.State.IsCapturing(),
		Countdown:   snap.State.Countdown(),
	}
}

// Status returns the state of the active session.
func (a *App) Status() Status {
	return statusOf(a.CurrentSession().Status())
}

// Reset clears the collection and returns to idle. Zoom is kept.
func (a *App) Reset() Status {
	snap := a.controlSession().Reset()
	a.metrics.SetCapturing(false, 0)
	a.log.Info("session reset", zap.String("session", snap.SessionID))

	a.fire(plugin.Request{Event: plugin.EventReset, Session: snap.SessionID})
	return statusOf(snap)
}

func statusOf(snap booth.Snapshot) Status {
	return Status{
		Mode:        snap.State.Mode(),
		ZoomLevel:   snap.Zoom,
		IsCapturing: snap.State.IsCapturing(),
		Countdown:   snap.State.Countdown(),
		PhotosCount: len(snap.Photos),
		MaxPhotos:   snap.Quota,
	}
}

// fire runs the hooks for req in the background.
func (a *App) fire(req plugin.Request) {
	if a.cfg.Hooks == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.hookWG.Add(1)
	go func() {
		defer a.hookWG.Done()
		a.cfg.Hooks.Fire(a.ctx, req)
	}()
}

// Close stops the active run, waits for it and for pending hooks, and
// closes the detector.
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	last := a.last
	a.current = nil
	a.viewers.CloseAll()
	a.mu.Unlock()

	if last != nil {
		last.cancel()
		<-last.done
	}
	a.hookWG.Wait()
	a.cancel()

	return a.cfg.Detector.Close()
}
