// Package gesture turns hand landmarks into discrete gestures and debounces
// them across frames.
package gesture

import (
	"math"

	"github.com/ayusman/photobooth/internal/detector"
)

// Digit indexes into a FingerState.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumDigits
)

// FingerState records, per digit, whether the finger is extended.
type FingerState [NumDigits]bool

// Count returns the number of extended digits.
func (f FingerState) Count() int {
	n := 0
	for _, up := range f {
		if up {
			n++
		}
	}
	return n
}

// tipPIP pairs each non-thumb digit's tip with its proximal interphalangeal joint.
var tipPIP = [NumDigits][2]int{
	Index:  {detector.IndexTip, detector.IndexPIP},
	Middle: {detector.MiddleTip, detector.MiddlePIP},
	Ring:   {detector.RingTip, detector.RingPIP},
	Pinky:  {detector.PinkyTip, detector.PinkyPIP},
}

// Fingers extracts the finger state of an upright hand.
//
// A non-thumb digit is extended when its tip sits above its PIP joint. The
// thumb is extended when its tip is splayed farther from the MCP joint than
// the IP joint is, horizontally, and the tip sits above the IP joint.
// Sideways or upside-down hands are misread; that limitation is accepted.
func Fingers(pose *detector.HandPose) FingerState {
	var fs FingerState
	if pose == nil {
		return fs
	}

	p := pose.Points
	tip, ip, mcp := p[detector.ThumbTip], p[detector.ThumbIP], p[detector.ThumbMCP]
	fs[Thumb] = math.Abs(tip.X-mcp.X) > math.Abs(ip.X-mcp.X) && tip.Y < ip.Y

	for d := Index; d < NumDigits; d++ {
		fs[d] = p[tipPIP[d][0]].Y < p[tipPIP[d][1]].Y
	}

	return fs
}

// ThumbIndexDistance returns the planar distance between the thumb tip and
// the index fingertip, in normalized image units.
func ThumbIndexDistance(pose *detector.HandPose) float64 {
	if pose == nil {
		return math.Inf(1)
	}
	return detector.Distance(pose.Points[detector.ThumbTip], pose.Points[detector.IndexTip])
}
