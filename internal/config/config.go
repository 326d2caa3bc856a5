// Package config loads the photobooth settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Camera  CameraConfig
	Detect  DetectConfig
	Booth   BoothConfig
	Hooks   HookConfig
	Logging LogConfig

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

type AppConfig struct {
	Addr          string
	DataDir       string
	CaptureDir    string
	StaticDir     string
	CORSOrigin    string // Access-Control-Allow-Origin of the control API
	FrameInterval time.Duration
	Tray          bool
}

type CameraConfig struct {
	DeviceID       int
	Width          int
	Height         int
	FPS            int
	DisplayQuality int
	CaptureQuality int
}

type DetectConfig struct {
	Width           int
	Height          int
	MinConfidence   float64
	MinTrackingConf float64
}

type BoothConfig struct {
	ZoomMin           float64
	ZoomMax           float64
	ZoomStep          float64
	TriggerGesture    string // "peace" or "ok"
	StableFrames      int
	TriggerCooldown   time.Duration
	CountdownStart    int
	CountdownInterval time.Duration
	PhotoQuota        int
}

type HookConfig struct {
	PluginDir string
	Timeout   time.Duration
}

type LogConfig struct {
	Level string
	File  string // empty disables the rotating file
}

// Load reads .env (if present) and the environment. Unset or malformed
// values fall back to their defaults.
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil

	dataDir := getEnv("PHOTOBOOTH_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".photobooth")
	}

	cfg := &Config{
		App: AppConfig{
			Addr:          getEnv("PHOTOBOOTH_ADDR", ":8000"),
			DataDir:       dataDir,
			CaptureDir:    getEnv("CAPTURE_DIR", filepath.Join(dataDir, "captured_images")),
			StaticDir:     getEnv("STATIC_DIR", ""),
			CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
			FrameInterval: getEnvAsMillis("FRAME_INTERVAL_MS", 33),
			Tray:          getEnvAsBool("TRAY", false),
		},
		Camera: CameraConfig{
			DeviceID:       getEnvAsInt("CAMERA_ID", 0),
			Width:          getEnvAsInt("CAMERA_WIDTH", 1280),
			Height:         getEnvAsInt("CAMERA_HEIGHT", 720),
			FPS:            getEnvAsInt("CAMERA_FPS", 30),
			DisplayQuality: getEnvAsInt("DISPLAY_QUALITY", 85),
			CaptureQuality: getEnvAsInt("CAPTURE_QUALITY", 90),
		},
		Detect: DetectConfig{
			Width:           getEnvAsInt("DETECT_WIDTH", 320),
			Height:          getEnvAsInt("DETECT_HEIGHT", 240),
			MinConfidence:   getEnvAsFloat("DETECT_CONFIDENCE", 0.6),
			MinTrackingConf: getEnvAsFloat("TRACK_CONFIDENCE", 0.4),
		},
		Booth: BoothConfig{
			ZoomMin:           getEnvAsFloat("ZOOM_MIN", 1.0),
			ZoomMax:           getEnvAsFloat("ZOOM_MAX", 3.0),
			ZoomStep:          getEnvAsFloat("ZOOM_STEP", 0.2),
			TriggerGesture:    strings.ToLower(getEnv("TRIGGER_GESTURE", "peace")),
			StableFrames:      getEnvAsInt("STABLE_FRAMES", 3),
			TriggerCooldown:   getEnvAsMillis("TRIGGER_COOLDOWN_MS", 1000),
			CountdownStart:    getEnvAsInt("COUNTDOWN_START", 5),
			CountdownInterval: getEnvAsMillis("COUNTDOWN_INTERVAL_MS", 1000),
			PhotoQuota:        getEnvAsInt("PHOTO_QUOTA", 6),
		},
		Hooks: HookConfig{
			PluginDir: getEnv("PLUGIN_DIR", filepath.Join(dataDir, "plugins")),
			Timeout:   getEnvAsMillis("HOOK_TIMEOUT_MS", 5000),
		},
		Logging: LogConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	cfg.EnvFileLoaded = loaded
	return cfg, nil
}

// DBPath returns the SQLite catalogue location.
func (c *Config) DBPath() string {
	return filepath.Join(c.App.DataDir, "photobooth.db")
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		errs = append(errs, fmt.Errorf("camera size must be positive, got %dx%d", c.Camera.Width, c.Camera.Height))
	}
	if c.Detect.Width <= 0 || c.Detect.Height <= 0 {
		errs = append(errs, fmt.Errorf("detection size must be positive, got %dx%d", c.Detect.Width, c.Detect.Height))
	}
	if c.App.FrameInterval <= 0 {
		errs = append(errs, errors.New("frame interval must be positive"))
	}
	if c.Booth.ZoomMin <= 0 || c.Booth.ZoomMin > c.Booth.ZoomMax {
		errs = append(errs, fmt.Errorf("zoom range invalid: [%.2f, %.2f]", c.Booth.ZoomMin, c.Booth.ZoomMax))
	}
	if c.Booth.ZoomStep <= 0 {
		errs = append(errs, errors.New("zoom step must be positive"))
	}
	if c.Booth.StableFrames < 1 {
		errs = append(errs, errors.New("stable frames must be at least 1"))
	}
	if c.Booth.CountdownStart < 1 {
		errs = append(errs, errors.New("countdown start must be at least 1"))
	}
	if c.Booth.PhotoQuota < 1 {
		errs = append(errs, errors.New("photo quota must be at least 1"))
	}
	switch c.Booth.TriggerGesture {
	case "peace", "ok":
	default:
		errs = append(errs, fmt.Errorf("unknown trigger gesture %q", c.Booth.TriggerGesture))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Millisecond
}
