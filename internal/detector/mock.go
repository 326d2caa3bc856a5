package detector

import "sync"

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandPose
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandPose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(jpeg []byte) ([]HandPose, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset finger shapes, upright right hand, image coordinates (Y grows down).

func setExtendedThumb(p *HandPose) {
	p.Points[ThumbCMC] = Keypoint{X: 0.55, Y: 0.75}
	p.Points[ThumbMCP] = Keypoint{X: 0.62, Y: 0.70}
	p.Points[ThumbIP] = Keypoint{X: 0.68, Y: 0.65}
	p.Points[ThumbTip] = Keypoint{X: 0.73, Y: 0.60}
}

func setCurledThumb(p *HandPose) {
	// Tip tucked across the palm, below the IP joint.
	p.Points[ThumbCMC] = Keypoint{X: 0.55, Y: 0.75}
	p.Points[ThumbMCP] = Keypoint{X: 0.58, Y: 0.68}
	p.Points[ThumbIP] = Keypoint{X: 0.56, Y: 0.62}
	p.Points[ThumbTip] = Keypoint{X: 0.52, Y: 0.64}
}

func setExtendedFingers(p *HandPose, index, middle, ring, pinky bool) {
	if index {
		p.Points[IndexMCP] = Keypoint{X: 0.55, Y: 0.68}
		p.Points[IndexPIP] = Keypoint{X: 0.57, Y: 0.55}
		p.Points[IndexDIP] = Keypoint{X: 0.58, Y: 0.45}
		p.Points[IndexTip] = Keypoint{X: 0.58, Y: 0.35}
	} else {
		p.Points[IndexMCP] = Keypoint{X: 0.55, Y: 0.70}
		p.Points[IndexPIP] = Keypoint{X: 0.55, Y: 0.68}
		p.Points[IndexDIP] = Keypoint{X: 0.52, Y: 0.70}
		p.Points[IndexTip] = Keypoint{X: 0.50, Y: 0.72}
	}

	if middle {
		p.Points[MiddleMCP] = Keypoint{X: 0.50, Y: 0.66}
		p.Points[MiddlePIP] = Keypoint{X: 0.50, Y: 0.52}
		p.Points[MiddleDIP] = Keypoint{X: 0.50, Y: 0.40}
		p.Points[MiddleTip] = Keypoint{X: 0.50, Y: 0.28}
	} else {
		p.Points[MiddleMCP] = Keypoint{X: 0.50, Y: 0.68}
		p.Points[MiddlePIP] = Keypoint{X: 0.50, Y: 0.66}
		p.Points[MiddleDIP] = Keypoint{X: 0.47, Y: 0.68}
		p.Points[MiddleTip] = Keypoint{X: 0.45, Y: 0.70}
	}

	if ring {
		p.Points[RingMCP] = Keypoint{X: 0.45, Y: 0.68}
		p.Points[RingPIP] = Keypoint{X: 0.43, Y: 0.55}
		p.Points[RingDIP] = Keypoint{X: 0.42, Y: 0.45}
		p.Points[RingTip] = Keypoint{X: 0.42, Y: 0.35}
	} else {
		p.Points[RingMCP] = Keypoint{X: 0.45, Y: 0.70}
		p.Points[RingPIP] = Keypoint{X: 0.45, Y: 0.68}
		p.Points[RingDIP] = Keypoint{X: 0.42, Y: 0.70}
		p.Points[RingTip] = Keypoint{X: 0.40, Y: 0.72}
	}

	if pinky {
		p.Points[PinkyMCP] = Keypoint{X: 0.40, Y: 0.70}
		p.Points[PinkyPIP] = Keypoint{X: 0.37, Y: 0.60}
		p.Points[PinkyDIP] = Keypoint{X: 0.35, Y: 0.50}
		p.Points[PinkyTip] = Keypoint{X: 0.34, Y: 0.42}
	} else {
		p.Points[PinkyMCP] = Keypoint{X: 0.40, Y: 0.72}
		p.Points[PinkyPIP] = Keypoint{X: 0.40, Y: 0.70}
		p.Points[PinkyDIP] = Keypoint{X: 0.37, Y: 0.72}
		p.Points[PinkyTip] = Keypoint{X: 0.35, Y: 0.74}
	}
}

func newPose() HandPose {
	p := HandPose{
		Handedness: "Right",
		Score:      0.95,
	}
	p.Points[Wrist] = Keypoint{X: 0.5, Y: 0.8}
	return p
}

// FistPose returns a closed fist: every digit curled.
func FistPose() HandPose {
	p := newPose()
	setCurledThumb(&p)
	setExtendedFingers(&p, false, false, false, false)
	return p
}

// OpenPalmPose returns an open hand: every digit extended.
func OpenPalmPose() HandPose {
	p := newPose()
	setExtendedThumb(&p)
	setExtendedFingers(&p, true, true, true, true)
	return p
}

// PeacePose returns a peace sign: index and middle extended, the rest curled.
func PeacePose() HandPose {
	p := newPose()
	setCurledThumb(&p)
	setExtendedFingers(&p, true, true, false, false)
	return p
}

// PeaceThumbPose returns a peace sign with the thumb also extended.
func PeaceThumbPose() HandPose {
	p := newPose()
	setExtendedThumb(&p)
	setExtendedFingers(&p, true, true, false, false)
	return p
}

// OKPose returns an OK sign: thumb and index tips touching, the other three extended.
func OKPose() HandPose {
	p := newPose()
	p.Points[ThumbCMC] = Keypoint{X: 0.58, Y: 0.76}
	p.Points[ThumbMCP] = Keypoint{X: 0.62, Y: 0.70}
	p.Points[ThumbIP] = Keypoint{X: 0.63, Y: 0.62}
	p.Points[ThumbTip] = Keypoint{X: 0.60, Y: 0.55}
	setExtendedFingers(&p, false, true, true, true)
	p.Points[IndexMCP] = Keypoint{X: 0.55, Y: 0.68}
	p.Points[IndexPIP] = Keypoint{X: 0.58, Y: 0.60}
	p.Points[IndexDIP] = Keypoint{X: 0.61, Y: 0.56}
	p.Points[IndexTip] = Keypoint{X: 0.62, Y: 0.54}
	return p
}
