package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func pluginNames(ps []*Plugin) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Manifest.Name)
	}
	return out
}

func TestManager_Discover(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "strip-archive", "exit 0\n", EventEpisodeComplete)
	writePlugin(t, dir, "notifier", "exit 0\n", EventCapture, EventEpisodeComplete)
	writePlugin(t, dir, "cleaner", "exit 0\n", EventReset)

	mgr := NewManager(dir)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if got := pluginNames(mgr.List()); len(got) != 3 || got[0] != "cleaner" || got[2] != "strip-archive" {
		t.Errorf("List() = %v", got)
	}
	if got := pluginNames(mgr.ForEvent(EventEpisodeComplete)); len(got) != 2 || got[0] != "notifier" || got[1] != "strip-archive" {
		t.Errorf("ForEvent(episode_complete) = %v", got)
	}
	if got := pluginNames(mgr.ForEvent(EventCapture)); len(got) != 1 || got[0] != "notifier" {
		t.Errorf("ForEvent(capture) = %v", got)
	}
	if got := mgr.ForEvent("unknown"); len(got) != 0 {
		t.Errorf("ForEvent(unknown) = %v", got)
	}

	p, err := mgr.Get("strip-archive")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Executable != filepath.Join(dir, "strip-archive", "run.sh") {
		t.Errorf("Executable = %s", p.Executable)
	}
}

func TestManager_Discover_ReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "a", "exit 0\n", EventCapture)

	mgr := NewManager(dir)
	mgr.Discover()
	os.RemoveAll(filepath.Join(dir, "a"))
	mgr.Discover()

	if _, err := mgr.Get("a"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("removed plugin still known: %v", err)
	}
}

func TestManager_Discover_SkipsBadManifests(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "good", "exit 0\n", EventCapture)

	bad := filepath.Join(dir, "bad")
	os.MkdirAll(bad, 0o755)
	os.WriteFile(filepath.Join(bad, ManifestFile), []byte("{not json"), 0o644)

	incomplete := filepath.Join(dir, "incomplete")
	os.MkdirAll(incomplete, 0o755)
	os.WriteFile(filepath.Join(incomplete, ManifestFile), []byte(`{"name":"incomplete"}`), 0o644)

	os.MkdirAll(filepath.Join(dir, "no-manifest"), 0o755)
	os.WriteFile(filepath.Join(dir, "stray-file"), []byte("x"), 0o644)

	mgr := NewManager(dir)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := pluginNames(mgr.List()); len(got) != 1 || got[0] != "good" {
		t.Errorf("List() = %v", got)
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing"))

	if err := mgr.Discover(); err != nil {
		t.Errorf("Discover() on missing dir error = %v", err)
	}
	if len(mgr.List()) != 0 {
		t.Error("expected no plugins")
	}
}

func TestManifest_Handles(t *testing.T) {
	m := Manifest{Events: []string{EventCapture, EventReset}}

	if !m.Handles(EventCapture) || !m.Handles(EventReset) {
		t.Error("expected subscribed events to be handled")
	}
	if m.Handles(EventEpisodeComplete) {
		t.Error("unsubscribed event handled")
	}
}
