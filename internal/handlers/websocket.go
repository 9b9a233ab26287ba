package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dkoval/pointing-poker/internal/handlers/dto"
	"github.com/dkoval/pointing-poker/internal/models"
	"github.com/dkoval/pointing-poker/internal/roomcode"
	"github.com/dkoval/pointing-poker/internal/store"
	ws "github.com/dkoval/pointing-poker/internal/websocket"
)

// WebSocketHandler upgrades subscribers onto the room document feed.
type WebSocketHandler struct {
	store          store.RoomStore
	hub            *ws.Hub
	messageHandler *RoomMessageHandler
	upgrader       websocket.Upgrader
}

func NewWebSocketHandler(store store.RoomStore, hub *ws.Hub, messageHandler *RoomMessageHandler) *WebSocketHandler {
	return &WebSocketHandler{
		store:          store,
		hub:            hub,
		messageHandler: messageHandler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket subscribes a participant to a room. The full
// document is pushed immediately and after every accepted mutation.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	code := roomcode.Normalize(c.Param("code"))
	participantID := c.Query("participant")

	room, err := h.store.GetRoom(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrRoomNotFound.Error()})
		return
	}
	if _, ok := room.Participants[participantID]; !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": models.ErrUnknownParticipant.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, code, participantID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.messageHandler)

	// Initial document so late joiners catch up without a mutation.
	client.SendMessage(ws.TypeRoomState, dto.FormatRoomState(room, participantID, time.Now()))
}

// pushRoomState fans the document out to every subscriber of the
// room, each frame redacted for its viewer.
func pushRoomState(hub *ws.Hub, room *models.Room) {
	now := time.Now()
	hub.PushRoomState(room.Code, func(participantID string) ([]byte, error) {
		state := dto.FormatRoomState(room, participantID, now)
		data, err := json.Marshal(state)
		if err != nil {
			return nil, err
		}
		return json.Marshal(ws.Message{
			Type:      ws.TypeRoomState,
			Data:      data,
			Timestamp: now,
		})
	})
}
