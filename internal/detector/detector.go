package detector

// Detector defines the interface for hand landmark estimators.
type Detector interface {
	// Detect analyzes a JPEG-encoded frame and returns detected hands.
	// Returns an empty slice if no hands are detected.
	Detect(jpeg []byte) ([]HandPose, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config tuned for a single webcam user.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.6,
		MinTrackingConf: 0.4,
	}
}
