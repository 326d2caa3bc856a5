package main

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteStrip(t *testing.T) {
	src := t.TempDir()
	var photos []Photo
	for i, id := range []string{"1714564800000", "1714564805000"} {
		path := filepath.Join(src, "capture_"+id+".jpg")
		if err := os.WriteFile(path, []byte{0xff, 0xd8, byte(i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		photos = append(photos, Photo{ID: id, Path: path})
	}

	out := filepath.Join(t.TempDir(), "strips")
	archive, err := writeStrip(out, "s-1", photos)
	if err != nil {
		t.Fatalf("writeStrip() error = %v", err)
	}
	if filepath.Base(archive) != "strip_s-1.zip" {
		t.Errorf("archive = %s", archive)
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(zr.File))
	}
	if zr.File[0].Name != "01_capture_1714564800000.jpg" || zr.File[1].Name != "02_capture_1714564805000.jpg" {
		t.Errorf("entries = %s, %s", zr.File[0].Name, zr.File[1].Name)
	}
}

func TestWriteStrip_Errors(t *testing.T) {
	if _, err := writeStrip(t.TempDir(), "s", nil); err == nil {
		t.Error("expected error for empty photo list")
	}

	missing := []Photo{{ID: "1", Path: filepath.Join(t.TempDir(), "gone.jpg")}}
	if _, err := writeStrip(t.TempDir(), "s", missing); err == nil {
		t.Error("expected error for missing photo file")
	}
}
