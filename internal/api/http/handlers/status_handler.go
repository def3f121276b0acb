package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/status"
)

// StatusHandler exposes the game-server status snapshot over HTTP and
// websocket.
type StatusHandler struct {
	poller *status.Poller
	hub    *status.Hub
}

// NewStatusHandler constructs handler.
func NewStatusHandler(poller *status.Poller, hub *status.Hub) *StatusHandler {
	return &StatusHandler{poller: poller, hub: hub}
}

// Get GET /status.
func (h *StatusHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.poller.Current())
}

// Upgrade guards the websocket route for non-websocket requests.
func (h *StatusHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Live GET /status/live websocket handler.
func (h *StatusHandler) Live() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.hub.Serve(conn)
	})
}
