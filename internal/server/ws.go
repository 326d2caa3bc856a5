package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ResultsHandler streams one JSON frame record per processed frame over a
// WebSocket. Each connection is a viewer of the shared stream.
type ResultsHandler struct {
	booth Booth
	log   *zap.Logger
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(b Booth, log *zap.Logger) *ResultsHandler {
	return &ResultsHandler{booth: b, log: log}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	id, updates := h.booth.Subscribe()
	defer h.booth.Unsubscribe(id)

	h.log.Debug("viewer connected", zap.Int("viewer", id), zap.String("remote", r.RemoteAddr))

	// Viewers send nothing; reading only notices the disconnect.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			h.log.Debug("viewer disconnected", zap.Int("viewer", id))
			return
		case u, ok := <-updates:
			if !ok {
				// stream ended
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, u.JSON); err != nil {
				h.log.Debug("viewer write failed", zap.Int("viewer", id), zap.Error(err))
				return
			}
		}
	}
}
