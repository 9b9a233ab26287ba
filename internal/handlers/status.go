package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/pointing-poker/internal/store"
	ws "github.com/dkoval/pointing-poker/internal/websocket"
)

type StatusHandler struct {
	store store.RoomStore
	hub   *ws.Hub
}

func NewStatusHandler(store store.RoomStore, hub *ws.Hub) *StatusHandler {
	return &StatusHandler{store: store, hub: hub}
}

func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *StatusHandler) Stats(c *gin.Context) {
	stats := gin.H{
		"active_rooms":   h.hub.RoomCount(),
		"active_clients": h.hub.ClientCount(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}
	if total, err := h.store.CountRooms(c.Request.Context()); err == nil {
		stats["total_rooms"] = total
	}
	c.JSON(http.StatusOK, stats)
}
