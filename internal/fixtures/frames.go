// Package fixtures builds synthetic camera frames for pipeline tests.
package fixtures

import (
	"gocv.io/x/gocv"
)

// Frame returns a width x height BGR frame filled with one gray shade.
// The caller must close it.
func Frame(width, height int, shade uint8) *gocv.Mat {
	s := float64(shade)
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(s, s, s, 0), height, width, gocv.MatTypeCV8UC3)
	return &mat
}

// Sequence returns n frames of the given size, each a slightly different
// shade so consecutive frames are distinguishable.
func Sequence(n, width, height int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		frames[i] = Frame(width, height, uint8(40+(i*16)%200))
	}
	return frames
}

// CloseAll releases every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		if f != nil {
			f.Close()
		}
	}
}
