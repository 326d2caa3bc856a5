package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// PhotoWriter persists captured frames as JPEG files in one directory.
type PhotoWriter struct {
	dir     string
	quality int
}

// NewPhotoWriter creates a writer for dir. A quality outside 1..100 means
// CaptureQuality.
func NewPhotoWriter(dir string, quality int) *PhotoWriter {
	if quality < 1 || quality > 100 {
		quality = CaptureQuality
	}
	return &PhotoWriter{dir: dir, quality: quality}
}

// Dir returns the output directory.
func (w *PhotoWriter) Dir() string { return w.dir }

// FileName returns the name a capture taken at t is stored under.
func FileName(t time.Time) string {
	return fmt.Sprintf("capture_%d.jpg", t.UnixMilli())
}

// Write encodes frame and stores it as capture_<unix ms>.jpg. It returns the
// encoded bytes and the file path.
func (w *PhotoWriter) Write(frame gocv.Mat, at time.Time) ([]byte, string, error) {
	data, err := EncodeJPEG(frame, w.quality)
	if err != nil {
		return nil, "", err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create capture dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(at))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, "", fmt.Errorf("write capture: %w", err)
	}

	return data, path, nil
}
