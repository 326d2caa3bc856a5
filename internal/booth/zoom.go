package booth

import (
	"math"

	"github.com/ayusman/photobooth/internal/gesture"
)

// Zoom is a clamped zoom level driven directly by fist and open-hand frames.
// It is not debounced: every qualifying frame moves it by one step.
type Zoom struct {
	min, max, step float64
	level          float64
}

// NewZoom creates a Zoom at its minimum level.
func NewZoom(min, max, step float64) *Zoom {
	return &Zoom{min: min, max: max, step: step, level: min}
}

// Apply updates the level for one frame's gesture and returns the new level.
func (z *Zoom) Apply(g gesture.Gesture) float64 {
	switch g {
	case gesture.Fist:
		z.level = math.Max(z.min, z.level-z.step)
	case gesture.Open:
		z.level = math.Min(z.max, z.level+z.step)
	}
	return z.level
}

// Level returns the current zoom level.
func (z *Zoom) Level() float64 { return z.level }

// Rounded returns the level rounded to one decimal place.
func (z *Zoom) Rounded() float64 {
	return math.Round(z.level*10) / 10
}
