package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkoval/pointing-poker/internal/analytics"
	"github.com/dkoval/pointing-poker/internal/handlers/dto"
	"github.com/dkoval/pointing-poker/internal/models"
	"github.com/dkoval/pointing-poker/internal/roomcode"
	"github.com/dkoval/pointing-poker/internal/store"
	ws "github.com/dkoval/pointing-poker/internal/websocket"
)

// codeAttempts bounds how often room creation retries a colliding code.
const codeAttempts = 5

type RoomHandler struct {
	store   store.RoomStore
	hub     *ws.Hub
	tracker *analytics.Tracker
}

func NewRoomHandler(store store.RoomStore, hub *ws.Hub, tracker *analytics.Tracker) *RoomHandler {
	return &RoomHandler{store: store, hub: hub, tracker: tracker}
}

// CreateRoom allocates a unique code and opens a room with the caller
// as host.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scale := models.ScaleFibonacci
	if req.ScaleType != "" {
		scale = models.ScaleType(req.ScaleType)
		if !scale.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidScale.Error()})
			return
		}
	}

	settings := models.DefaultSettings(scale)
	req.Settings.Apply(&settings)

	name := strings.TrimSpace(req.RoomName)
	if name == "" {
		name = "Planning Poker"
	}

	host := models.NewParticipant(uuid.NewString(), strings.TrimSpace(req.DisplayName), models.RoleVoter)
	host.IsHost = true

	var room *models.Room
	for i := 0; i < codeAttempts; i++ {
		candidate := models.NewRoom(roomcode.Generate(), name, req.Password, settings)
		candidate.AddParticipant(host)

		err := h.store.CreateRoom(c.Request.Context(), candidate)
		if err == nil {
			room = candidate
			break
		}
		if !errors.Is(err, store.ErrCodeTaken) {
			log.Error().Err(err).Msg("room creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
			return
		}
	}
	if room == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": models.ErrRoomCodeExhausted.Error()})
		return
	}

	h.tracker.RoomCreated()
	h.tracker.ParticipantJoined()

	c.JSON(http.StatusCreated, dto.RoomResponse{
		ParticipantID: host.ID,
		Room:          dto.FormatRoomState(room, host.ID, time.Now()),
	})
}

// JoinRoom adds a participant to an existing room. The code is
// case-normalized, the password compared as plain text.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	code := roomcode.Normalize(c.Param("code"))

	var req dto.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.RoleVoter
	if req.Spectator {
		role = models.RoleSpectator
	}
	joiner := models.NewParticipant(uuid.NewString(), strings.TrimSpace(req.DisplayName), role)

	room, err := h.store.UpdateRoom(c.Request.Context(), code, func(r *models.Room) error {
		if r.Settings.Locked {
			return models.ErrRoomLocked
		}
		if r.HasPassword() && !r.CheckPassword(req.Password) {
			return models.ErrInvalidPassword
		}
		r.AddParticipant(joiner)
		return nil
	})
	if err != nil {
		h.roomError(c, err)
		return
	}

	h.tracker.ParticipantJoined()
	h.pushRoomState(room)

	c.JSON(http.StatusOK, dto.RoomResponse{
		ParticipantID: joiner.ID,
		Room:          dto.FormatRoomState(room, joiner.ID, time.Now()),
	})
}

// GetRoom returns the viewer-redacted document. The optional
// participant query names the viewer.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	code := roomcode.Normalize(c.Param("code"))

	room, err := h.store.GetRoom(c.Request.Context(), code)
	if err != nil {
		h.roomError(c, err)
		return
	}

	viewer := c.Query("participant")
	c.JSON(http.StatusOK, dto.FormatRoomState(room, viewer, time.Now()))
}

// GetTickets serves one page of the filtered and sorted ticket queue.
func (h *RoomHandler) GetTickets(c *gin.Context) {
	code := roomcode.Normalize(c.Param("code"))

	room, err := h.store.GetRoom(c.Request.Context(), code)
	if err != nil {
		h.roomError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	view := room.QueueView(models.QueueQuery{
		Filter: c.Query("filter"),
		Sort:   models.SortOrder(c.Query("sort")),
		Page:   page,
	})
	c.JSON(http.StatusOK, view)
}

// LeaveRoom removes the caller's own participant entry.
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	code := roomcode.Normalize(c.Param("code"))

	var req dto.LeaveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.store.UpdateRoom(c.Request.Context(), code, func(r *models.Room) error {
		if _, ok := r.Participants[req.ParticipantID]; !ok {
			return models.ErrUnknownParticipant
		}
		r.RemoveParticipant(req.ParticipantID)
		return nil
	})
	if err != nil {
		h.roomError(c, err)
		return
	}

	if len(room.Participants) == 0 {
		h.tracker.RoomClosed()
	}
	h.pushRoomState(room)

	c.JSON(http.StatusOK, gin.H{"message": "left room"})
}

// KickParticipant removes somebody else's entry. Admin only. The
// kicked client is not disconnected; it observes its own absence in
// the next pushed document and exits.
func (h *RoomHandler) KickParticipant(c *gin.Context) {
	code := roomcode.Normalize(c.Param("code"))

	var req dto.KickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.store.UpdateRoom(c.Request.Context(), code, func(r *models.Room) error {
		if !r.IsAdmin(req.ParticipantID) {
			return models.ErrNotAdmin
		}
		if _, ok := r.Participants[req.TargetID]; !ok {
			return models.ErrUnknownParticipant
		}
		r.RemoveParticipant(req.TargetID)
		return nil
	})
	if err != nil {
		h.roomError(c, err)
		return
	}

	h.pushRoomState(room)
	c.JSON(http.StatusOK, gin.H{"message": "participant removed"})
}

// pushRoomState fans the updated document out to every subscriber,
// redacted per viewer.
func (h *RoomHandler) pushRoomState(room *models.Room) {
	pushRoomState(h.hub, room)
}

func (h *RoomHandler) roomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrRoomLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotAdmin):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnknownParticipant):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("room operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}
