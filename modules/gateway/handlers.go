package gateway

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	m.app.Get("/room/:roomId/messages", m.getMessages)
	m.app.Get("/room/:roomId/songs", m.getSongs)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"rooms":       m.registry.RoomCount(),
			"connections": m.registry.ConnCount(),
		},
	})
}

// getMessages handles GET /room/:roomId/messages. Unknown rooms return an
// empty list; room existence is a live-membership notion that history
// reads do not consult.
func (m *Module) getMessages(c *fiber.Ctx) error {
	roomID := c.Params("roomId")

	messages, err := m.store.ChatHistory(c.UserContext(), roomID)
	if err != nil {
		m.logger.Error("Chat history read failed", "roomID", roomID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "history_unavailable",
			Message: "Failed to read chat history",
		})
	}

	return c.JSON(MessagesResponse{Messages: messages})
}

// getSongs handles GET /room/:roomId/songs.
func (m *Module) getSongs(c *fiber.Ctx) error {
	roomID := c.Params("roomId")

	songs, err := m.store.Songs(c.UserContext(), roomID)
	if err != nil {
		m.logger.Error("Song queue read failed", "roomID", roomID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "history_unavailable",
			Message: "Failed to read song queue",
		})
	}

	return c.JSON(SongsResponse{Songs: songs})
}

// handleWebSocket owns one connection's read loop. Every inbound frame
// goes through the relay router; the deferred close hand-off guarantees
// the registry forgets the connection exactly once, whatever ended the
// loop.
func (m *Module) handleWebSocket(c *websocket.Conn) {
	cl := &client{
		id:   uuid.New().String(),
		conn: c,
	}

	m.logger.Debug("WebSocket client connected", "clientID", cl.id)
	defer func() {
		m.router.HandleClose(cl)
		m.logger.Debug("WebSocket client disconnected", "clientID", cl.id)
	}()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Debug("WebSocket read error", "clientID", cl.id, "error", err)
			}
			return
		}
		m.router.Dispatch(context.Background(), cl, raw)
	}
}
