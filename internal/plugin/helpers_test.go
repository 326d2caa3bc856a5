package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}
}

// writePlugin creates dir/<name> holding a manifest and a shell script.
func writePlugin(t *testing.T, dir, name, script string, events ...string) *Plugin {
	t.Helper()

	pluginDir := filepath.Join(dir, name)
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	manifest := Manifest{
		Name:       name,
		Version:    "1.0.0",
		Executable: "run.sh",
		Events:     events,
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, ManifestFile), data, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	exe := filepath.Join(pluginDir, "run.sh")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	return &Plugin{Manifest: manifest, Path: pluginDir, Executable: exe}
}
