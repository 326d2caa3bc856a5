package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrPluginNotFound is returned when a requested plugin cannot be found.
var ErrPluginNotFound = errors.New("plugin not found")

// ManifestFile is the manifest name looked up in each plugin directory.
const ManifestFile = "plugin.json"

// Manager discovers hook plugins from one directory.
type Manager struct {
	pluginDir string
	plugins   map[string]*Plugin
	mu        sync.RWMutex
}

// NewManager creates a new plugin Manager with the given plugin directory.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover replaces the known plugins with every subdirectory of the plugin
// directory that holds a valid manifest. A missing directory yields no plugins.
// Unreadable or incomplete manifests are skipped.
func (m *Manager) Discover() error {
	found := make(map[string]*Plugin)

	entries, err := os.ReadDir(m.pluginDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read plugin dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := loadPlugin(filepath.Join(m.pluginDir, entry.Name()))
		if err != nil {
			continue
		}
		found[p.Manifest.Name] = p
	}

	m.mu.Lock()
	m.plugins = found
	m.mu.Unlock()

	return nil
}

func loadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	if manifest.Name == "" || manifest.Executable == "" {
		return nil, fmt.Errorf("%s: name and executable are required", dir)
	}

	return &Plugin{
		Manifest:   manifest,
		Path:       dir,
		Executable: filepath.Join(dir, manifest.Executable),
	}, nil
}

// Get returns a plugin by name.
// Returns ErrPluginNotFound if the plugin does not exist.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}

	return plugin, nil
}

// List returns all discovered plugins ordered by name.
func (m *Manager) List() []*Plugin {
	return m.filter(func(*Plugin) bool { return true })
}

// ForEvent returns the plugins subscribed to event, ordered by name.
func (m *Manager) ForEvent(event string) []*Plugin {
	return m.filter(func(p *Plugin) bool { return p.Manifest.Handles(event) })
}

func (m *Manager) filter(keep func(*Plugin) bool) []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		if keep(plugin) {
			plugins = append(plugins, plugin)
		}
	}

	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})
	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
