package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// JPEG qualities for the live preview and for persisted captures.
const (
	DisplayQuality = 85
	CaptureQuality = 90
)

// Mirror returns a horizontally flipped copy of src, so the preview behaves
// like a mirror. The caller must close the result.
func Mirror(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Flip(src, &dst, 1)
	return dst
}

// Downsize scales src to width x height for hand detection.
func Downsize(src gocv.Mat, width, height int) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
	return dst
}

// ZoomCrop crops the centered 1/zoom region of src and scales it back to the
// full frame size. A zoom of 1 or less returns an unmodified copy.
func ZoomCrop(src gocv.Mat, zoom float64) gocv.Mat {
	if zoom <= 1 {
		return src.Clone()
	}

	w, h := src.Cols(), src.Rows()
	cw := int(float64(w) / zoom)
	ch := int(float64(h) / zoom)
	if cw < 1 || ch < 1 {
		return src.Clone()
	}

	x := (w - cw) / 2
	y := (h - ch) / 2
	roi := src.Region(image.Rect(x, y, x+cw, y+ch))
	defer roi.Close()

	dst := gocv.NewMat()
	gocv.Resize(roi, &dst, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
	return dst
}

// EncodeJPEG encodes src at the given quality.
func EncodeJPEG(src gocv.Mat, quality int) ([]byte, error) {
	if src.Empty() {
		return nil, fmt.Errorf("encode jpeg: empty frame")
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, src, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory that Close releases.
	return append([]byte(nil), buf.GetBytes()...), nil
}
