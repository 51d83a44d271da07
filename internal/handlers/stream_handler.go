package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/wallie-app/backend/internal/stream"
)

// StreamHandler upgrades clients onto the global post stream
type StreamHandler struct {
	hub *stream.Hub
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(hub *stream.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// RegisterStreamRoutes registers the websocket stream route
func (h *StreamHandler) RegisterStreamRoutes(g *echo.Group) {
	g.GET("/posts/stream", h.Stream)
}

// Stream subscribes the connecting client to post and love updates until it
// disconnects
func (h *StreamHandler) Stream(c echo.Context) error {
	return stream.ServeWS(h.hub, c.Response(), c.Request())
}
