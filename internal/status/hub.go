package status

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/community-portal/internal/domain"
)

// Hub fans status snapshots out to connected websocket clients. Each new
// client receives the last broadcast snapshot immediately on connect.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
	last    []byte

	refresh func()
	logger  *zap.Logger
}

// NewHub constructs the hub. refresh is invoked when a client asks for an
// immediate poll; it may be nil.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan []byte),
		logger:  logger,
	}
}

// SetRefreshFunc wires the on-demand poll trigger.
func (h *Hub) SetRefreshFunc(fn func()) {
	h.mu.Lock()
	h.refresh = fn
	h.mu.Unlock()
}

// Broadcast pushes a snapshot to every connected client and records it for
// future joiners.
func (h *Hub) Broadcast(status *domain.ServerStatus) {
	payload, err := json.Marshal(status)
	if err != nil {
		h.logger.Error("failed to encode status snapshot", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.last = payload
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			// Slow consumer; drop this frame rather than block the poller.
			h.logger.Debug("dropping status frame for slow client",
				zap.String("remote", conn.RemoteAddr().String()))
		}
	}
	h.mu.Unlock()
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve drives one websocket connection until the client disconnects. It is
// meant to run inside the fiber websocket handler's goroutine.
func (h *Hub) Serve(conn *websocket.Conn) {
	send := make(chan []byte, 4)

	h.mu.Lock()
	h.clients[conn] = send
	if h.last != nil {
		send <- h.last
	}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		close(send)
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for payload := range send {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.handleMessage(message)
	}
}

type clientMessage struct {
	Action string `json:"action"`
}

func (h *Hub) handleMessage(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if msg.Action == "refresh" {
		h.mu.RLock()
		refresh := h.refresh
		h.mu.RUnlock()
		if refresh != nil {
			refresh()
		}
	}
}
