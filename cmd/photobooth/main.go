package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/photobooth/internal/app"
	"github.com/ayusman/photobooth/internal/booth"
	"github.com/ayusman/photobooth/internal/capture"
	"github.com/ayusman/photobooth/internal/config"
	"github.com/ayusman/photobooth/internal/detector"
	"github.com/ayusman/photobooth/internal/gesture"
	"github.com/ayusman/photobooth/internal/logger"
	"github.com/ayusman/photobooth/internal/metrics"
	"github.com/ayusman/photobooth/internal/plugin"
	"github.com/ayusman/photobooth/internal/server"
	"github.com/ayusman/photobooth/internal/store"
	"github.com/ayusman/photobooth/internal/tray"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Photobooth - gesture controlled camera",
		zap.String("addr", cfg.App.Addr),
		zap.String("data_dir", cfg.App.DataDir),
		zap.Bool("env_file", cfg.EnvFileLoaded))

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		log.Fatal("Failed to create data directory", zap.Error(err))
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	// Try MediaPipe first, fall back to mock detector
	var det detector.Detector
	detCfg := detector.Config{
		MaxHands:        1,
		MinConfidence:   cfg.Detect.MinConfidence,
		MinTrackingConf: cfg.Detect.MinTrackingConf,
	}
	if mp, err := detector.NewMediaPipeDetector(detCfg, log); err == nil {
		det = mp
		log.Info("Using MediaPipe hand detection")
	} else {
		log.Warn("MediaPipe not available, using mock detector", zap.Error(err))
		det = detector.NewMockDetector()
	}

	manager := plugin.NewManager(cfg.Hooks.PluginDir)
	if err := manager.Discover(); err != nil {
		log.Warn("Failed to discover plugins", zap.Error(err))
	}
	for _, p := range manager.List() {
		log.Info("Loaded plugin", zap.String("name", p.Manifest.Name), zap.Strings("events", p.Manifest.Events))
	}
	hooks := plugin.NewHooks(manager, plugin.NewExecutor(cfg.Hooks.Timeout), log.Named("hooks"))

	vocab, err := gesture.VocabularyFor(cfg.Booth.TriggerGesture)
	if err != nil {
		log.Fatal("Invalid trigger gesture", zap.Error(err))
	}

	m := metrics.New()

	a := app.New(app.Config{
		Camera: capture.NewCamera(capture.Config{
			DeviceID: cfg.Camera.DeviceID,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Camera.FPS,
		}),
		Detector: det,
		Photos:   capture.NewPhotoWriter(cfg.App.CaptureDir, cfg.Camera.CaptureQuality),
		Store:    st,
		Hooks:    hooks,
		Metrics:  m,
		Logger:   log.Named("app"),
		Booth: booth.Config{
			ZoomMin:           cfg.Booth.ZoomMin,
			ZoomMax:           cfg.Booth.ZoomMax,
			ZoomStep:          cfg.Booth.ZoomStep,
			Vocabulary:        vocab,
			StableFrames:      cfg.Booth.StableFrames,
			TriggerCooldown:   cfg.Booth.TriggerCooldown,
			CountdownStart:    cfg.Booth.CountdownStart,
			CountdownInterval: cfg.Booth.CountdownInterval,
			PhotoQuota:        cfg.Booth.PhotoQuota,
		},
		DetectWidth:    cfg.Detect.Width,
		DetectHeight:   cfg.Detect.Height,
		DisplayQuality: cfg.Camera.DisplayQuality,
		FrameInterval:  cfg.App.FrameInterval,
	})

	webDir := cfg.App.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		log.Info("Serving static files", zap.String("dir", webDir))
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		CORSOrigin: cfg.App.CORSOrigin,
		Store:      st,
		Booth:      a,
		Metrics:    m.Handler(),
		Logger:     log.Named("server"),
	})
	httpServer := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("addr", cfg.App.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.App.Tray {
		runTray(ctx, stop, a, "http://localhost"+cfg.App.Addr, log)
	} else {
		<-ctx.Done()
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown failed", zap.Error(err))
	}
	if err := a.Close(); err != nil {
		log.Warn("App shutdown failed", zap.Error(err))
	}
}

// runTray blocks in the tray loop until Quit is clicked or ctx ends.
func runTray(ctx context.Context, stop context.CancelFunc, a *app.App, url string, log *zap.Logger) {
	t := tray.New()
	t.OnToggle(func() bool {
		return a.ToggleMode().IsCapturing
	})
	t.OnReset(func() {
		a.Reset()
	})
	t.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			log.Warn("Failed to open browser", zap.Error(err))
		}
	})
	t.OnQuit(stop)

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				t.Quit()
				return
			case <-ticker.C:
				st := a.Status()
				t.SetStatus(st.IsCapturing, st.PhotosCount, st.MaxPhotos)
			}
		}
	}()

	t.Run()
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.photobooth/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".photobooth", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
