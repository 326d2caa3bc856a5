package gesture

import (
	"fmt"

	"github.com/ayusman/photobooth/internal/detector"
)

// Gesture is a per-frame hand gesture label.
type Gesture string

const (
	Unknown Gesture = "unknown"
	Fist    Gesture = "fist"
	Open    Gesture = "open"
	Peace   Gesture = "peace"
	OK      Gesture = "ok"
)

// OKTouchDistance is the thumb-index distance below which the tips count as touching.
const OKTouchDistance = 0.05

// Vocabulary classifies finger states into gestures and names the gesture
// that arms the capture sequence.
type Vocabulary interface {
	// Classify maps a finger state and the thumb-index tip distance to a gesture.
	Classify(fs FingerState, thumbIndex float64) Gesture

	// Trigger is the gesture that starts a capture episode.
	Trigger() Gesture
}

// PeaceVocabulary recognizes fist, open hand and peace sign; peace triggers capture.
type PeaceVocabulary struct{}

// Classify applies the rules in order: peace, fist, open, unknown.
func (PeaceVocabulary) Classify(fs FingerState, _ float64) Gesture {
	n := fs.Count()
	twoFingers := fs[Index] && fs[Middle] && !fs[Ring] && !fs[Pinky]

	switch {
	case n == 2 && twoFingers && !fs[Thumb]:
		return Peace
	case n == 3 && twoFingers && fs[Thumb]:
		return Peace
	case n <= 1:
		return Fist
	case n >= 4:
		return Open
	}
	return Unknown
}

// Trigger returns Peace.
func (PeaceVocabulary) Trigger() Gesture { return Peace }

// OKVocabulary recognizes fist, open hand and the OK sign; OK triggers capture.
type OKVocabulary struct{}

// Classify applies the rules in order: ok, fist, open, unknown.
func (OKVocabulary) Classify(fs FingerState, thumbIndex float64) Gesture {
	n := fs.Count()

	switch {
	case thumbIndex < OKTouchDistance && fs[Middle] && fs[Ring] && fs[Pinky]:
		return OK
	case n <= 1:
		return Fist
	case n >= 4:
		return Open
	}
	return Unknown
}

// Trigger returns OK.
func (OKVocabulary) Trigger() Gesture { return OK }

// VocabularyFor returns the vocabulary whose trigger gesture has the given name.
func VocabularyFor(trigger string) (Vocabulary, error) {
	switch Gesture(trigger) {
	case Peace, "":
		return PeaceVocabulary{}, nil
	case OK:
		return OKVocabulary{}, nil
	}
	return nil, fmt.Errorf("unknown trigger gesture %q", trigger)
}

// Recognize classifies one frame. A missing hand is Unknown.
func Recognize(v Vocabulary, pose *detector.HandPose) Gesture {
	if pose == nil {
		return Unknown
	}
	return v.Classify(Fingers(pose), ThumbIndexDistance(pose))
}
