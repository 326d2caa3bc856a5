package booth

// State is the capture state machine: Idle, or Capturing with a countdown.
// The zero value is Idle. Mode, capturing flag and countdown are all derived
// from this one value, so they cannot disagree.
type State struct {
	capturing bool
	countdown int
}

// Idle is the state with no capture episode running.
var Idle = State{}

// Capturing returns the capturing state with the given countdown.
func Capturing(countdown int) State {
	return State{capturing: true, countdown: countdown}
}

// IsCapturing reports whether a capture episode is running.
func (s State) IsCapturing() bool { return s.capturing }

// Countdown returns the seconds left before the next shot; 0 when Idle.
func (s State) Countdown() int { return s.countdown }

// Mode returns "ON" while capturing and "OFF" otherwise.
func (s State) Mode() string {
	if s.capturing {
		return "ON"
	}
	return "OFF"
}

func (s State) String() string {
	if s.capturing {
		return "capturing"
	}
	return "idle"
}
