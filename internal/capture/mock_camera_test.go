package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_Playback(t *testing.T) {
	frame1 := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrNoMoreFrames) {
		t.Errorf("expected ErrNoMoreFrames after all frames consumed, got %v", err)
	}
}

func TestMockCamera_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockCamera_NotOpen(t *testing.T) {
	cam := NewMockCamera(nil, true)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("expected ErrCameraNotOpen, got %v", err)
	}
}

func TestMockCamera_FailOpen(t *testing.T) {
	cam := NewMockCamera(nil, true)
	want := errors.New("no device")
	cam.FailOpen(want)

	if err := cam.Open(); !errors.Is(err, want) {
		t.Errorf("Open() error = %v, want %v", err, want)
	}
	if cam.IsOpen() {
		t.Error("camera should stay closed")
	}
}

func TestMockCamera_CountsAcquireRelease(t *testing.T) {
	cam := NewMockCamera(nil, true)

	cam.Open()
	cam.Close()
	cam.Close()
	cam.Open()

	if cam.Opens() != 2 {
		t.Errorf("Opens() = %d, want 2", cam.Opens())
	}
	if cam.Closes() != 1 {
		t.Errorf("Closes() = %d, want 1", cam.Closes())
	}
}
