package gesture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/photobooth/internal/detector"
)

func stateFromBits(bits int) FingerState {
	var fs FingerState
	for d := 0; d < NumDigits; d++ {
		fs[d] = bits&(1<<d) != 0
	}
	return fs
}

func TestPeaceVocabulary_AllFingerStates(t *testing.T) {
	v := PeaceVocabulary{}
	peaceShapes := map[FingerState]bool{
		{false, true, true, false, false}: true,
		{true, true, true, false, false}:  true,
	}

	counts := map[Gesture]int{}
	for bits := 0; bits < 1<<NumDigits; bits++ {
		fs := stateFromBits(bits)
		got := v.Classify(fs, 1.0)

		var want Gesture
		switch n := fs.Count(); {
		case peaceShapes[fs]:
			want = Peace
		case n <= 1:
			want = Fist
		case n >= 4:
			want = Open
		default:
			want = Unknown
		}

		assert.Equal(t, want, got, "finger state %v", fs)
		counts[got]++
	}

	assert.Equal(t, 2, counts[Peace])
	assert.Equal(t, 6, counts[Fist], "zero or one finger up")
	assert.Equal(t, 6, counts[Open], "four or five fingers up")
	assert.Equal(t, 18, counts[Unknown], "two or three fingers up minus the peace shapes")
}

func TestPeaceVocabulary_Boundaries(t *testing.T) {
	v := PeaceVocabulary{}

	tests := []struct {
		name string
		fs   FingerState
		want Gesture
	}{
		{"index and ring", FingerState{false, true, false, true, false}, Unknown},
		{"thumb and index", FingerState{true, true, false, false, false}, Unknown},
		{"index middle ring", FingerState{false, true, true, true, false}, Unknown},
		{"thumb index pinky", FingerState{true, true, false, false, true}, Unknown},
		{"only thumb", FingerState{true, false, false, false, false}, Fist},
		{"four without thumb", FingerState{false, true, true, true, true}, Open},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Classify(tt.fs, 0))
		})
	}
}

func TestOKVocabulary(t *testing.T) {
	v := OKVocabulary{}
	threeUp := FingerState{true, true, true, true, true}

	assert.Equal(t, OK, v.Classify(threeUp, 0.01))
	assert.Equal(t, Open, v.Classify(threeUp, OKTouchDistance), "distance must be strictly below the threshold")
	assert.Equal(t, Fist, v.Classify(FingerState{}, 0.01), "touching tips without the other three fingers")
	assert.Equal(t, OK, v.Trigger())
	assert.Equal(t, Peace, PeaceVocabulary{}.Trigger())
}

func TestVocabularyFor(t *testing.T) {
	v, err := VocabularyFor("peace")
	require.NoError(t, err)
	assert.IsType(t, PeaceVocabulary{}, v)

	v, err = VocabularyFor("")
	require.NoError(t, err)
	assert.IsType(t, PeaceVocabulary{}, v)

	v, err = VocabularyFor("ok")
	require.NoError(t, err)
	assert.IsType(t, OKVocabulary{}, v)

	_, err = VocabularyFor("thumbs-up")
	assert.Error(t, err)
}

func TestRecognize_PresetPoses(t *testing.T) {
	fist := detector.FistPose()
	open := detector.OpenPalmPose()
	peace := detector.PeacePose()
	peaceThumb := detector.PeaceThumbPose()
	ok := detector.OKPose()

	tests := []struct {
		name  string
		vocab Vocabulary
		pose  *detector.HandPose
		want  Gesture
	}{
		{"no hand", PeaceVocabulary{}, nil, Unknown},
		{"fist", PeaceVocabulary{}, &fist, Fist},
		{"open", PeaceVocabulary{}, &open, Open},
		{"peace", PeaceVocabulary{}, &peace, Peace},
		{"peace with thumb", PeaceVocabulary{}, &peaceThumb, Peace},
		{"ok sign reads as open hand", PeaceVocabulary{}, &ok, Open},
		{"ok sign in ok vocabulary", OKVocabulary{}, &ok, OK},
		{"peace in ok vocabulary", OKVocabulary{}, &peace, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recognize(tt.vocab, tt.pose))
		})
	}
}

func TestFingers(t *testing.T) {
	open := detector.OpenPalmPose()
	assert.Equal(t, FingerState{true, true, true, true, true}, Fingers(&open))

	fist := detector.FistPose()
	assert.Equal(t, FingerState{}, Fingers(&fist))

	assert.Equal(t, FingerState{}, Fingers(nil))

	t.Run("thumb needs both criteria", func(t *testing.T) {
		pose := detector.OpenPalmPose()
		// Splayed out but hanging below the IP joint.
		pose.Points[detector.ThumbTip] = detector.Keypoint{X: 0.75, Y: 0.70}
		assert.False(t, Fingers(&pose)[Thumb])

		// Above the IP joint but not splayed past it.
		pose.Points[detector.ThumbTip] = detector.Keypoint{X: 0.64, Y: 0.55}
		assert.False(t, Fingers(&pose)[Thumb])
	})

	t.Run("thumb splay works for either hand", func(t *testing.T) {
		pose := detector.OpenPalmPose()
		// Mirror the thumb to the left of its MCP joint.
		pose.Points[detector.ThumbIP] = detector.Keypoint{X: 0.56, Y: 0.65}
		pose.Points[detector.ThumbTip] = detector.Keypoint{X: 0.51, Y: 0.60}
		assert.True(t, Fingers(&pose)[Thumb])
	})
}

func TestThumbIndexDistance(t *testing.T) {
	ok := detector.OKPose()
	assert.Less(t, ThumbIndexDistance(&ok), OKTouchDistance)

	open := detector.OpenPalmPose()
	assert.Greater(t, ThumbIndexDistance(&open), OKTouchDistance)

	assert.True(t, math.IsInf(ThumbIndexDistance(nil), 1))
}
