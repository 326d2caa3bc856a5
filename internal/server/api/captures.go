package api

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/ayusman/photobooth/internal/store"
)

// CaptureHandler serves the capture catalogue.
type CaptureHandler struct {
	store *store.Store
}

// NewCaptureHandler creates a new CaptureHandler with the given store.
func NewCaptureHandler(s *store.Store) *CaptureHandler {
	return &CaptureHandler{store: s}
}

// ServeHTTP routes catalogue requests.
// Expected paths: /api/captures, /api/captures/{id}, /api/captures/{id}/image
func (h *CaptureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/captures")
	path = strings.Trim(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}

	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		h.get(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "image":
		h.image(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type captureResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	TakenAt   int64  `json:"taken_at"` // Unix milliseconds
	ImageURL  string `json:"image_url"`
}

type listCapturesResponse struct {
	Captures []captureResponse `json:"captures"`
}

func toCaptureResponse(c *store.Capture) captureResponse {
	return captureResponse{
		ID:        c.ID,
		SessionID: c.SessionID,
		Path:      c.Path,
		SizeBytes: c.SizeBytes,
		TakenAt:   c.TakenAt.UnixMilli(),
		ImageURL:  "/api/captures/" + c.ID + "/image",
	}
}

// list handles GET /api/captures[?session=<id>], newest first.
func (h *CaptureHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		captures []*store.Capture
		err      error
	)
	if session := r.URL.Query().Get("session"); session != "" {
		captures, err = h.store.Captures().ListBySession(session)
		// catalogue order is chronological within a session
		for i, j := 0, len(captures)-1; i < j; i, j = i+1, j-1 {
			captures[i], captures[j] = captures[j], captures[i]
		}
	} else {
		captures, err = h.store.Captures().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list captures")
		return
	}

	response := listCapturesResponse{
		Captures: make([]captureResponse, 0, len(captures)),
	}
	for _, c := range captures {
		response.Captures = append(response.Captures, toCaptureResponse(c))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/captures/{id}.
func (h *CaptureHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	c, ok := h.lookup(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCaptureResponse(c))
}

// image handles GET /api/captures/{id}/image and serves the stored JPEG.
func (h *CaptureHandler) image(w http.ResponseWriter, r *http.Request, id string) {
	c, ok := h.lookup(w, id)
	if !ok {
		return
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "Capture file missing")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to read capture")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *CaptureHandler) lookup(w http.ResponseWriter, id string) (*store.Capture, bool) {
	c, err := h.store.Captures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Capture not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get capture")
		return nil, false
	}
	return c, true
}
