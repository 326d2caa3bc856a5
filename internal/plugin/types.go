// Package plugin runs external hook executables when photobooth events occur.
package plugin

import "encoding/json"

// Events a plugin can subscribe to.
const (
	EventCapture         = "capture"
	EventEpisodeComplete = "episode_complete"
	EventReset           = "reset"
)

// Manifest describes a plugin's metadata and the events it handles.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Handles reports whether the plugin subscribed to event.
func (m Manifest) Handles(event string) bool {
	for _, e := range m.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Photo identifies one captured picture in a request.
type Photo struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
}

// Request is written as JSON to the plugin's stdin.
type Request struct {
	Event   string          `json:"event"`
	Session string          `json:"session"`
	Photos  []Photo         `json:"photos,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
}

// Response is read as JSON from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
