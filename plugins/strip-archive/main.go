// Package main provides a hook plugin that packs the photos of a finished
// capture episode into one zip archive.
package main

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event   string          `json:"event"`
	Session string          `json:"session"`
	Photos  []Photo         `json:"photos"`
	Config  json.RawMessage `json:"config"`
}

type Photo struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type config struct {
	OutputDir string `json:"output_dir"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Event != "episode_complete" {
		writeErrorResponse(fmt.Sprintf("unsupported event: %s", req.Event))
		return
	}

	cfg := config{OutputDir: "strips"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	archive, err := writeStrip(cfg.OutputDir, req.Session, req.Photos)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	data, _ := json.Marshal(map[string]any{"archive": archive, "photos": len(req.Photos)})
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

// writeStrip zips photos into <dir>/strip_<session>.zip and returns its path.
func writeStrip(dir, session string, photos []Photo) (string, error) {
	if len(photos) == 0 {
		return "", fmt.Errorf("no photos in request")
	}
	if session == "" {
		session = fmt.Sprint(photos[0].Timestamp)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("strip_%s.zip", session))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for i, p := range photos {
		if err := addFile(zw, fmt.Sprintf("%02d_%s", i+1, filepath.Base(p.Path)), p.Path); err != nil {
			zw.Close()
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finish archive: %w", err)
	}

	return filepath.Abs(path)
}

func addFile(zw *zip.Writer, name, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	// JPEGs are already compressed.
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}
