package handlers

import (
	"tasklists/internal/ws"

	"github.com/gin-gonic/gin"
)

// WS serves live list and dashboard views; see package ws.
func (h *Handler) WS() gin.HandlerFunc {
	return ws.HandleWS(h.Hub, h.Auth, h.Tasks, h.AllowedOrigin, h.DefaultLoc)
}
