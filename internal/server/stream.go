package server

import (
	"fmt"
	"net/http"
)

// StreamHandler serves the zoomed preview as MJPEG. Each connection is a
// viewer of the shared stream.
type StreamHandler struct {
	booth Booth
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(b Booth) *StreamHandler {
	return &StreamHandler{booth: b}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, updates := h.booth.Subscribe()
	defer h.booth.Unsubscribe(id)

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if u.Display == nil {
				// error records have no picture
				continue
			}

			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(u.Display))
			if _, err := w.Write(u.Display); err != nil {
				return
			}
			fmt.Fprintf(w, "\r\n")

			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}
