package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/ayusman/photobooth/internal/app"
	"github.com/ayusman/photobooth/internal/booth"
	"github.com/ayusman/photobooth/internal/capture"
	"github.com/ayusman/photobooth/internal/detector"
	"github.com/ayusman/photobooth/internal/fixtures"
	"github.com/ayusman/photobooth/internal/metrics"
	"github.com/ayusman/photobooth/internal/plugin"
	"github.com/ayusman/photobooth/internal/server"
	"github.com/ayusman/photobooth/internal/store"
)

// steppingClock advances by step on every reading.
type steppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// writeRecorder installs a plugin that copies every request it receives to out.
func writeRecorder(t *testing.T, dir, out string) {
	t.Helper()

	pdir := filepath.Join(dir, "recorder")
	if err := os.MkdirAll(pdir, 0o755); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\ncat >> \"" + out + "\"\necho >> \"" + out + "\"\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(pdir, "run.sh"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name":"recorder","version":"1.0.0","executable":"run.sh","events":["capture","episode_complete","reset"]}`
	if err := os.WriteFile(filepath.Join(pdir, plugin.ManifestFile), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}
	if runtime.GOOS == "windows" {
		t.Skip("shell plugins not supported on windows")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	hookLog := filepath.Join(tmpDir, "hooks.log")
	pluginDir := filepath.Join(tmpDir, "plugins")
	writeRecorder(t, pluginDir, hookLog)

	manager := plugin.NewManager(pluginDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	frames := fixtures.Sequence(4, 640, 480)
	defer fixtures.CloseAll(frames)
	camera := capture.NewMockCamera(frames, true)

	mockDetector := detector.NewMockDetector()
	mockDetector.SetHands([]detector.HandPose{detector.PeacePose()})

	boothCfg := booth.DefaultConfig()
	boothCfg.CountdownStart = 2
	boothCfg.PhotoQuota = 2

	m := metrics.New()
	application := app.New(app.Config{
		Camera:        camera,
		Detector:      mockDetector,
		Photos:        capture.NewPhotoWriter(filepath.Join(tmpDir, "captures"), capture.CaptureQuality),
		Store:         s,
		Hooks:         plugin.NewHooks(manager, plugin.NewExecutor(5*time.Second), zaptest.NewLogger(t)),
		Metrics:       m,
		Logger:        zaptest.NewLogger(t),
		Clock:         &steppingClock{now: time.Now(), step: 250 * time.Millisecond},
		Booth:         boothCfg,
		FrameInterval: time.Millisecond,
	})
	defer application.Close()

	srv := server.New(server.Config{Store: s, Booth: application, Metrics: m.Handler()})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial /ws error = %v", err)
	}
	defer conn.Close()

	var record app.FrameRecord
	read := func(t *testing.T) {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read error = %v", err)
		}
		if err := json.Unmarshal(msg, &record); err != nil {
			t.Fatalf("bad frame record %s: %v", msg, err)
		}
	}

	t.Run("PeaceGestureFillsCollection", func(t *testing.T) {
		deadline := time.Now().Add(10 * time.Second)
		for record.PhotosCount < 2 {
			if time.Now().After(deadline) {
				t.Fatalf("collection not filled, last record %+v", record)
			}
			read(t)
		}
		if !strings.HasPrefix(record.Frame, "data:image/jpeg;base64,") {
			t.Errorf("frame is not a data URL: %.40s", record.Frame)
		}
		if record.Gesture != "peace" {
			t.Errorf("gesture = %s, want peace", record.Gesture)
		}
		if len(record.CapturedPhotos) != 2 {
			t.Errorf("captured_photos = %d, want 2", len(record.CapturedPhotos))
		}
	})

	sessionID := application.CurrentSession().ID()

	t.Run("CataloguedCaptures", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/captures?session=" + sessionID)
		if err != nil {
			t.Fatalf("GET /api/captures error = %v", err)
		}
		var list struct {
			Captures []struct {
				ID       string `json:"id"`
				ImageURL string `json:"image_url"`
			} `json:"captures"`
		}
		json.NewDecoder(resp.Body).Decode(&list)
		resp.Body.Close()

		if len(list.Captures) != 2 {
			t.Fatalf("expected 2 captures, got %d", len(list.Captures))
		}

		resp, err = client.Get(ts.URL + list.Captures[0].ImageURL)
		if err != nil {
			t.Fatalf("GET image error = %v", err)
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK || len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
			t.Errorf("expected a JPEG, got status %d and %d bytes", resp.StatusCode, len(data))
		}
	})

	t.Run("ResetClearsCollection", func(t *testing.T) {
		mockDetector.SetHands(nil)
		for i := 0; i < 5; i++ {
			read(t)
		}

		resp, err := client.Post(ts.URL+"/api/reset", "application/json", nil)
		if err != nil {
			t.Fatalf("POST /api/reset error = %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if strings.TrimSpace(string(body)) != `{"message":"Reset successful"}` {
			t.Errorf("reset body = %s", body)
		}

		resp, err = client.Get(ts.URL + "/api/status")
		if err != nil {
			t.Fatalf("GET /api/status error = %v", err)
		}
		var status app.Status
		json.NewDecoder(resp.Body).Decode(&status)
		resp.Body.Close()

		if status.PhotosCount != 0 || status.IsCapturing || status.MaxPhotos != 2 {
			t.Errorf("status after reset = %+v", status)
		}
	})

	t.Run("HooksReceivedEvents", func(t *testing.T) {
		deadline := time.Now().Add(10 * time.Second)
		for {
			data, _ := os.ReadFile(hookLog)
			log := string(data)
			if strings.Count(log, `"event":"capture"`) >= 2 &&
				strings.Contains(log, `"event":"episode_complete"`) &&
				strings.Contains(log, `"event":"reset"`) {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("hook events missing, log:\n%s", log)
			}
			time.Sleep(20 * time.Millisecond)
		}
	})

	t.Run("DisconnectReleasesCamera", func(t *testing.T) {
		conn.Close()

		deadline := time.Now().Add(5 * time.Second)
		for camera.Closes() < 1 {
			if time.Now().After(deadline) {
				t.Fatal("camera not released after the last viewer left")
			}
			time.Sleep(10 * time.Millisecond)
		}

		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after stream ended")
		}
		resp.Body.Close()
	})
}
