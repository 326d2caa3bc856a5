// Package capture owns the webcam and the OpenCV frame operations of the
// photobooth: mirroring, detection downsizing, zoom cropping, JPEG encoding
// and writing captured photos to disk.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	DefaultFPS    = 30
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrReadFailed is returned when the device yields no frame.
	ErrReadFailed = errors.New("failed to read frame from camera")
)

// Config selects the capture device and the format requested from it.
type Config struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int
}

// DefaultConfig returns the settings for device 0 at 1280x720, 30 fps.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
	}
}

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller must close it.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	cfg     Config
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a Camera for cfg. Zero sizes fall back to the defaults.
func NewCamera(cfg Config) Camera {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = DefaultWidth, DefaultHeight
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	return &cameraImpl{cfg: cfg}
}

// Open opens the device and requests the configured resolution and rate.
// The device may settle on a different format.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.cfg.DeviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.cfg.DeviceID, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("open camera %d: device not available", c.cfg.DeviceID)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.cfg.FPS))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrReadFailed
	}

	return &mat, nil
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
