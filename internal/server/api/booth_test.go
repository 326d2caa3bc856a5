package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/photobooth/internal/app"
)

type fakeBooth struct {
	capturing bool
	photos    int
	resets    int
}

func (f *fakeBooth) ToggleMode() app.ModeStatus {
	f.capturing = !f.capturing
	if f.capturing {
		return app.ModeStatus{Mode: "ON", IsCapturing: true, Countdown: 5}
	}
	return app.ModeStatus{Mode: "OFF"}
}

func (f *fakeBooth) Status() app.Status {
	mode := "OFF"
	if f.capturing {
		mode = "ON"
	}
	return app.Status{Mode: mode, ZoomLevel: 1.4, IsCapturing: f.capturing, PhotosCount: f.photos, MaxPhotos: 6}
}

func (f *fakeBooth) Reset() app.Status {
	f.resets++
	f.capturing = false
	f.photos = 0
	return f.Status()
}

func TestBoothHandler_ToggleMode(t *testing.T) {
	b := &fakeBooth{}
	h := NewBoothHandler(b)

	req := httptest.NewRequest(http.MethodPost, "/api/toggle_mode", nil)
	rec := httptest.NewRecorder()
	h.ToggleMode(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got["mode"] != "ON" || got["is_capturing"] != true || got["countdown"] != float64(5) {
		t.Errorf("unexpected toggle response: %v", got)
	}
}

func TestBoothHandler_Status(t *testing.T) {
	h := NewBoothHandler(&fakeBooth{photos: 2})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, key := range []string{"mode", "zoom_level", "is_capturing", "countdown", "photos_count", "max_photos"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing %q in status response", key)
		}
	}
	if got["photos_count"] != float64(2) || got["max_photos"] != float64(6) {
		t.Errorf("unexpected status response: %v", got)
	}
}

func TestBoothHandler_Reset(t *testing.T) {
	b := &fakeBooth{capturing: true, photos: 3}
	h := NewBoothHandler(b)

	req := httptest.NewRequest(http.MethodPost, "/api/reset", nil)
	rec := httptest.NewRecorder()
	h.Reset(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if body := rec.Body.String(); body != "{\"message\":\"Reset successful\"}\n" {
		t.Errorf("unexpected body %q", body)
	}
	if b.resets != 1 || b.photos != 0 {
		t.Errorf("reset not applied: %+v", b)
	}
}

func TestBoothHandler_MethodNotAllowed(t *testing.T) {
	h := NewBoothHandler(&fakeBooth{})

	tests := []struct {
		name    string
		method  string
		handler http.HandlerFunc
	}{
		{"toggle with GET", http.MethodGet, h.ToggleMode},
		{"status with POST", http.MethodPost, h.Status},
		{"reset with GET", http.MethodGet, h.Reset},
		{"reset with DELETE", http.MethodDelete, h.Reset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(tt.method, "/", nil))
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
			}
		})
	}
}
