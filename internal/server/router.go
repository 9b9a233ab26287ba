package server

import (
	"github.com/gin-gonic/gin"

	"github.com/dkoval/pointing-poker/internal/handlers"
)

func APIEndpoints(r *gin.Engine, roomH *handlers.RoomHandler, wsH *handlers.WebSocketHandler, statusH *handlers.StatusHandler) {
	r.GET("/health", statusH.Health)
	r.GET("/stats", statusH.Stats)

	api := r.Group("/api")
	{
		api.POST("/rooms", roomH.CreateRoom)
		api.GET("/rooms/:code", roomH.GetRoom)
		api.POST("/rooms/:code/join", roomH.JoinRoom)
		api.POST("/rooms/:code/leave", roomH.LeaveRoom)
		api.POST("/rooms/:code/kick", roomH.KickParticipant)
		api.GET("/rooms/:code/tickets", roomH.GetTickets)
	}

	r.GET("/ws/rooms/:code", wsH.HandleWebSocket)
}
