package gesture

// Stabilizer counts how many consecutive frames have carried the same
// gesture, so a single misclassified frame cannot fire a trigger.
type Stabilizer struct {
	required int
	last     Gesture
	count    int
}

// NewStabilizer creates a Stabilizer that confirms after required identical frames.
// Values below 1 are treated as 1.
func NewStabilizer(required int) *Stabilizer {
	if required < 1 {
		required = 1
	}
	return &Stabilizer{required: required}
}

// Observe records the gesture of the current frame and returns the run length.
func (s *Stabilizer) Observe(g Gesture) int {
	if s.count > 0 && g == s.last {
		s.count++
	} else {
		s.count = 1
	}
	s.last = g
	return s.count
}

// Confirmed reports whether the current run of g is long enough.
func (s *Stabilizer) Confirmed(g Gesture) bool {
	return s.count > 0 && s.last == g && s.count >= s.required
}

// Count returns the length of the current run.
func (s *Stabilizer) Count() int { return s.count }

// Required returns the run length needed for confirmation.
func (s *Stabilizer) Required() int { return s.required }

// Reset forgets the current run; the next observed frame starts at 1.
func (s *Stabilizer) Reset() {
	s.last = ""
	s.count = 0
}
