package api

import (
	"net/http"

	"github.com/ayusman/photobooth/internal/app"
)

// Controller is the set of booth operations exposed over HTTP.
type Controller interface {
	ToggleMode() app.ModeStatus
	Status() app.Status
	Reset() app.Status
}

// BoothHandler serves the capture-mode controls.
type BoothHandler struct {
	booth Controller
}

// NewBoothHandler creates a new BoothHandler for the given controller.
func NewBoothHandler(c Controller) *BoothHandler {
	return &BoothHandler{booth: c}
}

// ToggleMode handles POST /api/toggle_mode.
func (h *BoothHandler) ToggleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.booth.ToggleMode())
}

// Status handles GET /api/status.
func (h *BoothHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.booth.Status())
}

// Reset handles POST /api/reset.
func (h *BoothHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.booth.Reset()
	writeJSON(w, http.StatusOK, messageResponse{Message: "Reset successful"})
}
