// Package booth holds the per-stream photobooth session: the zoom
// controller and the debounced, wall-clock-gated auto-capture state machine.
package booth

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/photobooth/internal/detector"
	"github.com/ayusman/photobooth/internal/gesture"
)

var (
	// ErrQuotaReached is returned when a shot is due but the photo quota is full.
	ErrQuotaReached = errors.New("photo quota reached")
	// ErrNoFrame is returned when a shot is due but no frame was supplied.
	ErrNoFrame = errors.New("no frame to capture")
)

// Config holds the tuning of a session.
type Config struct {
	ZoomMin  float64
	ZoomMax  float64
	ZoomStep float64

	// Vocabulary classifies frames and names the trigger gesture.
	Vocabulary gesture.Vocabulary
	// StableFrames is how many identical frames confirm the trigger gesture.
	StableFrames int
	// TriggerCooldown is the minimum time between two gesture triggers.
	TriggerCooldown time.Duration

	// CountdownStart is the countdown value at the start of each shot cycle.
	CountdownStart int
	// CountdownInterval gates countdown ticks on elapsed time, not frames.
	CountdownInterval time.Duration

	// PhotoQuota is the number of photos that ends an episode.
	PhotoQuota int
}

// DefaultConfig returns the canonical tuning.
func DefaultConfig() Config {
	return Config{
		ZoomMin:           1.0,
		ZoomMax:           3.0,
		ZoomStep:          0.2,
		Vocabulary:        gesture.PeaceVocabulary{},
		StableFrames:      3,
		TriggerCooldown:   time.Second,
		CountdownStart:    5,
		CountdownInterval: time.Second,
		PhotoQuota:        6,
	}
}

// Photo is one captured picture held in the session.
type Photo struct {
	ID        string
	Image     []byte // JPEG
	Timestamp int64  // Unix milliseconds
	Location  string // where the Shutter persisted it
}

// Shutter captures the current raw (unzoomed) frame. It returns the encoded
// image and where it was persisted.
type Shutter interface {
	Shoot(at time.Time) (image []byte, location string, err error)
}

// ShutterFunc adapts a function to the Shutter interface.
type ShutterFunc func(at time.Time) ([]byte, string, error)

// Shoot calls f(at).
func (f ShutterFunc) Shoot(at time.Time) ([]byte, string, error) { return f(at) }

// Snapshot is the session state after a step or control operation, plus the
// events the step produced.
type Snapshot struct {
	SessionID      string
	Gesture        gesture.Gesture
	Zoom           float64 // rounded to one decimal
	State          State
	Photos         []Photo
	Quota          int
	StabilityCount int
	RequiredStable int

	// Triggered is set when this step started a capture episode.
	Triggered bool
	// Captured is the photo taken during this step, if any.
	Captured *Photo
	// Finished is set when this step filled the quota and ended the episode.
	Finished bool
	// CaptureErr is the failure that forced the session back to Idle.
	CaptureErr error
}

// Session owns the mutable photobooth state of one stream. All methods are
// safe for concurrent use; mutations are serialized by an internal mutex.
type Session struct {
	mu     sync.Mutex
	id     string
	cfg    Config
	clock  Clock
	zoom   *Zoom
	stable *gesture.Stabilizer
	state  State

	lastGesture gesture.Gesture
	triggered   bool
	lastTrigger time.Time
	lastTick    time.Time
	photos      []Photo
}

// New creates an idle session. A nil clock means the system clock.
func New(cfg Config, clock Clock) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	if cfg.Vocabulary == nil {
		cfg.Vocabulary = gesture.PeaceVocabulary{}
	}

	return &Session{
		id:          uuid.New().String(),
		cfg:         cfg,
		clock:       clock,
		zoom:        NewZoom(cfg.ZoomMin, cfg.ZoomMax, cfg.ZoomStep),
		stable:      gesture.NewStabilizer(cfg.StableFrames),
		lastGesture: gesture.Unknown,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Step processes one frame. pose is the frame's primary hand, nil when no
// hand was detected; shutter captures the frame if a shot falls due.
func (s *Session) Step(pose *detector.HandPose, shutter Shutter) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	g := gesture.Recognize(s.cfg.Vocabulary, pose)
	s.lastGesture = g

	var snap Snapshot

	s.zoom.Apply(g)
	s.stable.Observe(g)

	trigger := s.cfg.Vocabulary.Trigger()
	if g == trigger && s.stable.Confirmed(trigger) && s.cooledDown(now) && s.canTrigger() {
		s.state = Capturing(s.cfg.CountdownStart)
		s.lastTick = now
		s.lastTrigger = now
		s.triggered = true
		s.stable.Reset()
		snap.Triggered = true
	}

	s.tick(now, shutter, &snap)
	s.fill(&snap)
	return snap
}

// canTrigger reports whether a gesture may start an episode. A full
// collection only accepts an explicit toggle until it is reset.
func (s *Session) canTrigger() bool {
	return !s.state.IsCapturing() && len(s.photos) < s.cfg.PhotoQuota
}

func (s *Session) cooledDown(now time.Time) bool {
	return !s.triggered || now.Sub(s.lastTrigger) >= s.cfg.TriggerCooldown
}

// tick advances the countdown when a full interval has elapsed and takes a
// shot when it reaches zero.
func (s *Session) tick(now time.Time, shutter Shutter, snap *Snapshot) {
	if !s.state.IsCapturing() || s.state.Countdown() <= 0 {
		return
	}
	if now.Sub(s.lastTick) < s.cfg.CountdownInterval {
		return
	}

	s.lastTick = now
	s.state = Capturing(s.state.Countdown() - 1)
	if s.state.Countdown() > 0 {
		return
	}

	photo, err := s.shoot(now, shutter)
	if err != nil {
		s.state = Idle
		snap.CaptureErr = err
		return
	}

	s.photos = append(s.photos, photo)
	snap.Captured = &photo

	if len(s.photos) < s.cfg.PhotoQuota {
		s.state = Capturing(s.cfg.CountdownStart)
		return
	}

	s.state = Idle
	snap.Finished = true
}

func (s *Session) shoot(now time.Time, shutter Shutter) (Photo, error) {
	if len(s.photos) >= s.cfg.PhotoQuota {
		return Photo{}, ErrQuotaReached
	}
	if shutter == nil {
		return Photo{}, ErrNoFrame
	}

	image, location, err := shutter.Shoot(now)
	if err != nil {
		return Photo{}, err
	}

	ms := now.UnixMilli()
	return Photo{
		ID:        strconv.FormatInt(ms, 10),
		Image:     image,
		Timestamp: ms,
		Location:  location,
	}, nil
}

// Toggle flips between Idle and Capturing on operator request, bypassing
// the stability and cooldown checks.
func (s *Session) Toggle() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsCapturing() {
		s.state = Idle
	} else {
		s.state = Capturing(s.cfg.CountdownStart)
		s.lastTick = s.clock.Now()
	}

	var snap Snapshot
	s.fill(&snap)
	return snap
}

// Reset clears the photos, forces Idle and forgets cooldown and stability
// history. The zoom level is kept.
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.photos = nil
	s.state = Idle
	s.triggered = false
	s.lastTrigger = time.Time{}
	s.lastTick = time.Time{}
	s.stable.Reset()

	var snap Snapshot
	s.fill(&snap)
	return snap
}

// Status returns the current state without advancing it.
func (s *Session) Status() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot
	s.fill(&snap)
	return snap
}

func (s *Session) fill(snap *Snapshot) {
	snap.SessionID = s.id
	snap.Gesture = s.lastGesture
	snap.Zoom = s.zoom.Rounded()
	snap.State = s.state
	snap.Photos = append([]Photo(nil), s.photos...)
	snap.Quota = s.cfg.PhotoQuota
	snap.StabilityCount = s.stable.Count()
	snap.RequiredStable = s.stable.Required()
}
