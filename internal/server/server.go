// Package server provides the HTTP server for the photobooth.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/photobooth/internal/app"
	"github.com/ayusman/photobooth/internal/server/api"
	"github.com/ayusman/photobooth/internal/store"
)

// Booth is the running photobooth as seen by the HTTP layer.
type Booth interface {
	api.Controller
	Subscribe() (int, <-chan app.Update)
	Unsubscribe(id int)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Booth     Booth
	Metrics   http.Handler
	Logger    *zap.Logger

	// CORSOrigin is sent as Access-Control-Allow-Origin on the control
	// routes. Defaults to "*".
	CORSOrigin string
}

// Server represents the HTTP server for the photobooth.
type Server struct {
	config Config
	log    *zap.Logger
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		config: config,
		log:    log,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Booth != nil {
		booth := api.NewBoothHandler(s.config.Booth)

		// Control routes are also served at the root for browser clients
		// on another origin.
		for _, prefix := range []string{"/api", ""} {
			s.mux.HandleFunc(prefix+"/toggle_mode", s.cors(booth.ToggleMode))
			s.mux.HandleFunc(prefix+"/status", s.cors(booth.Status))
			s.mux.HandleFunc(prefix+"/reset", s.cors(booth.Reset))
		}

		s.mux.Handle("/ws", NewResultsHandler(s.config.Booth, s.log))
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Booth))
	}

	if s.config.Store != nil {
		captures := api.NewCaptureHandler(s.config.Store)
		s.mux.Handle("/api/captures", captures)
		s.mux.Handle("/api/captures/", captures)
	}

	if s.config.Metrics != nil {
		s.mux.Handle("/metrics", s.config.Metrics)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// cors answers preflight requests and marks responses as readable from
// the configured origin.
func (s *Server) cors(next http.HandlerFunc) http.HandlerFunc {
	origin := s.config.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
