// Package detector defines the Landmark Source contract: the types a hand
// landmark estimator produces and the interface the pipeline consumes.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Keypoint is a planar landmark position normalized to the image frame.
// Both coordinates lie in [0,1]; Y grows downward.
type Keypoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandPose holds the 21 keypoints of one detected hand.
type HandPose struct {
	Points     [NumLandmarks]Keypoint `json:"points"`
	Handedness string                 `json:"handedness"` // "Left" or "Right"
	Score      float64                `json:"score"`
}

// Distance returns the Euclidean distance between two keypoints.
func Distance(a, b Keypoint) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Primary returns the highest-scoring hand, or nil when hands is empty.
// The booth is single-hand: any further hands are ignored.
func Primary(hands []HandPose) *HandPose {
	if len(hands) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(hands); i++ {
		if hands[i].Score > hands[best].Score {
			best = i
		}
	}

	pose := hands[best]
	return &pose
}
