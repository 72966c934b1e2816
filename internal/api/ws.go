package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/doxxscan/walletscan/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard is served from a different origin than the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeWait = 10 * time.Second

// scanEvent is one message of the scan progress stream.
type scanEvent struct {
	Type    string                 `json:"type"` // "section", "snapshot" or "error"
	Section domain.Section         `json:"section,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Data    *domain.WalletSnapshot `json:"data,omitempty"`
}

// wsSession serializes writes to one websocket connection; progress events
// arrive from concurrent provider goroutines.
type wsSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSession) send(event scanEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(event); err != nil {
		slog.Debug("websocket write failed", "error", err)
	}
}

// StreamScan handles GET /api/v1/scan/{address}/stream. It upgrades to a
// websocket, emits one event per settled section and closes with the full
// snapshot.
func (h *Handler) StreamScan(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := &wsSession{conn: conn}
	progress := func(section domain.Section, err error) {
		event := scanEvent{Type: "section", Section: section}
		if err != nil {
			event.Error = err.Error()
		}
		session.send(event)
	}

	snapshot, err := h.scanner.Scan(r.Context(), addr, progress)
	if err != nil {
		session.send(scanEvent{Type: "error", Error: err.Error()})
		return
	}
	session.send(scanEvent{Type: "snapshot", Data: snapshot})

	session.mu.Lock()
	defer session.mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "scan complete"))
}
