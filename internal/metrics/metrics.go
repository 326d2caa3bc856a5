// Package metrics exposes the photobooth pipeline counters in Prometheus format.
package metrics

import (
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	// Frame pipeline counters
	FramesRead      atomic.Uint64
	FramesProcessed atomic.Uint64
	HandsDetected   atomic.Uint64

	// Error counters
	ReadErrors      atomic.Uint64
	DetectErrors    atomic.Uint64
	EncodeErrors    atomic.Uint64
	CaptureFailures atomic.Uint64

	// Capture state machine
	Triggers         atomic.Uint64
	Captures         atomic.Uint64
	EpisodesFinished atomic.Uint64
	Capturing        atomic.Uint64 // 0 = idle, 1 = capturing
	Photos           atomic.Uint64

	// Stream tracking
	ActiveViewers atomic.Int64
	TotalViewers  atomic.Uint64
	Runs          atomic.Uint64

	zoomBits atomic.Uint64 // float64 bits

	gestures *prometheus.CounterVec
	latency  prometheus.Histogram

	registry *prometheus.Registry
}

// New creates a new Metrics instance with its own Prometheus registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photobooth_gestures_total",
			Help: "Frames classified, by gesture",
		}, []string{"gesture"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "photobooth_frame_processing_seconds",
			Help:    "Time from frame read to result broadcast",
			Buckets: []float64{.005, .01, .02, .033, .05, .1, .25, .5},
		}),
	}
	m.zoomBits.Store(math.Float64bits(1))

	m.registerPrometheusMetrics()
	return m
}

func (m *Metrics) gauge(name, help string, read func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: name, Help: help},
		read,
	))
}

func (m *Metrics) counter(name, help string, read func() float64) {
	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{Name: name, Help: help},
		read,
	))
}

func (m *Metrics) registerPrometheusMetrics() {
	u := func(v *atomic.Uint64) func() float64 {
		return func() float64 { return float64(v.Load()) }
	}

	m.counter("photobooth_frames_read_total", "Total frames read from the camera", u(&m.FramesRead))
	m.counter("photobooth_frames_processed_total", "Total frames broadcast to viewers", u(&m.FramesProcessed))
	m.counter("photobooth_hands_detected_total", "Frames in which a hand was found", u(&m.HandsDetected))

	m.counter("photobooth_read_errors_total", "Camera read failures", u(&m.ReadErrors))
	m.counter("photobooth_detect_errors_total", "Hand detector failures", u(&m.DetectErrors))
	m.counter("photobooth_encode_errors_total", "JPEG encode failures", u(&m.EncodeErrors))
	m.counter("photobooth_capture_failures_total", "Shots that failed and forced the session idle", u(&m.CaptureFailures))

	m.counter("photobooth_triggers_total", "Capture episodes started by gesture", u(&m.Triggers))
	m.counter("photobooth_captures_total", "Photos captured", u(&m.Captures))
	m.counter("photobooth_episodes_finished_total", "Episodes that reached the photo quota", u(&m.EpisodesFinished))
	m.gauge("photobooth_capturing", "Capture state (0=idle, 1=capturing)", u(&m.Capturing))
	m.gauge("photobooth_session_photos", "Photos held by the current session", u(&m.Photos))

	m.gauge("photobooth_active_viewers", "Connected stream viewers", func() float64 { return float64(m.ActiveViewers.Load()) })
	m.counter("photobooth_viewers_total", "Stream viewers connected since start", u(&m.TotalViewers))
	m.counter("photobooth_runs_total", "Camera runs started", u(&m.Runs))
	m.gauge("photobooth_zoom_level", "Current zoom level", m.Zoom)

	m.registry.MustRegister(m.gestures, m.latency)
}

// ObserveGesture counts one classified frame.
func (m *Metrics) ObserveGesture(gesture string) {
	m.gestures.WithLabelValues(gesture).Inc()
}

// ObserveFrame records the processing time of one frame.
func (m *Metrics) ObserveFrame(d time.Duration) {
	m.latency.Observe(d.Seconds())
}

// SetZoom records the current zoom level.
func (m *Metrics) SetZoom(level float64) {
	m.zoomBits.Store(math.Float64bits(level))
}

// Zoom returns the last recorded zoom level.
func (m *Metrics) Zoom() float64 {
	return math.Float64frombits(m.zoomBits.Load())
}

// SetCapturing records the capture state and the session photo count.
func (m *Metrics) SetCapturing(capturing bool, photos int) {
	var v uint64
	if capturing {
		v = 1
	}
	m.Capturing.Store(v)
	m.Photos.Store(uint64(photos))
}

// Registry returns the private registry, for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
