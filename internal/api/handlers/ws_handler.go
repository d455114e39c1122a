package handlers

import (
	"log/slog"

	ws "github.com/edushare/edushare-backend/internal/websocket"
	"github.com/labstack/echo/v4"
)

// WSHandler upgrades HTTP connections for real-time message notifications
type WSHandler struct {
	hub    *ws.Hub
	logger *slog.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Connect handles GET /ws
func (h *WSHandler) Connect(c echo.Context) error {
	upgrader := ws.NewSecureUpgrader(h.logger)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		return nil
	}

	client := ws.NewClient(h.hub, conn, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}
