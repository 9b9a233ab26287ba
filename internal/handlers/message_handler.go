package handlers

import (
	"context"
	"encoding/json"

	"github.com/jonboulle/clockwork"

	"github.com/dkoval/pointing-poker/internal/analytics"
	"github.com/dkoval/pointing-poker/internal/models"
	"github.com/dkoval/pointing-poker/internal/store"
	ws "github.com/dkoval/pointing-poker/internal/websocket"
)

// RoomMessageHandler applies in-room mutations arriving over the
// socket. Every accepted mutation goes through the store's atomic
// update and ends with a document push to the whole room.
type RoomMessageHandler struct {
	store   store.RoomStore
	hub     *ws.Hub
	tracker *analytics.Tracker
	clock   clockwork.Clock
}

func NewRoomMessageHandler(store store.RoomStore, hub *ws.Hub, tracker *analytics.Tracker, clock clockwork.Clock) *RoomMessageHandler {
	return &RoomMessageHandler{store: store, hub: hub, tracker: tracker, clock: clock}
}

type votePayload struct {
	Value string `json:"value"`
}

type ticketPayload struct {
	TicketID    string `json:"ticket_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type reorderPayload struct {
	SourceIndex int              `json:"source_index"`
	DestIndex   int              `json:"dest_index"`
	Filter      string           `json:"filter"`
	Sort        models.SortOrder `json:"sort"`
}

type timerPayload struct {
	Minutes int `json:"minutes"`
}

type scalePayload struct {
	Scale string `json:"scale"`
}

func (h *RoomMessageHandler) HandleMessage(client *ws.Client, msg *ws.Message) error {
	switch msg.Type {
	case ws.TypeVoteCast:
		return h.handleVoteCast(client, msg.Data)
	case ws.TypeRevealVotes:
		return h.handleRevealVotes(client)
	case ws.TypeResetRound:
		return h.handleResetRound(client)
	case ws.TypeTicketAdd:
		return h.handleTicketAdd(client, msg.Data)
	case ws.TypeTicketRemove:
		return h.handleTicketRemove(client, msg.Data)
	case ws.TypeTicketSelect:
		return h.handleTicketSelect(client, msg.Data)
	case ws.TypeTicketReorder:
		return h.handleTicketReorder(client, msg.Data)
	case ws.TypeTimerStart:
		return h.handleTimerStart(client, msg.Data)
	case ws.TypeTimerAdd:
		return h.handleTimerAdd(client, msg.Data)
	case ws.TypeTimerStop:
		return h.handleTimerStop(client)
	case ws.TypeSettingsUpdate:
		return h.handleSettingsUpdate(client, msg.Data)
	case ws.TypeScaleChange:
		return h.handleScaleChange(client, msg.Data)
	default:
		return ws.ErrInvalidMessage
	}
}

// apply runs one mutation through the store and pushes the resulting
// document to the room.
func (h *RoomMessageHandler) apply(client *ws.Client, mutate func(*models.Room) error) error {
	room, err := h.store.UpdateRoom(context.Background(), client.RoomCode, mutate)
	if err != nil {
		return err
	}
	pushRoomState(h.hub, room)
	return nil
}

// adminOnly wraps a mutation with the admin check.
func (h *RoomMessageHandler) adminOnly(participantID string, mutate func(*models.Room) error) func(*models.Room) error {
	return func(r *models.Room) error {
		if !r.IsAdmin(participantID) {
			return models.ErrNotAdmin
		}
		return mutate(r)
	}
}

func (h *RoomMessageHandler) handleVoteCast(client *ws.Client, data json.RawMessage) error {
	var payload votePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	completed := false
	err := h.apply(client, func(r *models.Room) error {
		if err := r.CastVote(client.ParticipantID, payload.Value); err != nil {
			return err
		}
		completed = r.MaybeAutoReveal()
		return nil
	})
	if err != nil {
		return err
	}

	h.tracker.VoteCast()
	if completed {
		h.tracker.RoundCompleted()
	}
	return nil
}

func (h *RoomMessageHandler) handleRevealVotes(client *ws.Client) error {
	completed := false
	err := h.apply(client, h.adminOnly(client.ParticipantID, func(r *models.Room) error {
		completed = !r.VotesRevealed
		r.Reveal()
		return nil
	}))
	if err != nil {
		return err
	}

	if completed {
		h.tracker.RoundCompleted()
	}
	return nil
}

func (h *RoomMessageHandler) handleResetRound(client *ws.Client) error {
	return h.apply(client, h.adminOnly(client.ParticipantID, func(r *models.Room) error {
		r.ResetRound()
		return nil
	}))
}

func (h *RoomMessageHandler) handleTicketAdd(client *ws.Client, data json.RawMessage) error {
	var payload ticketPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	return h.apply(client, func(r *models.Room) error {
		ticket, err := models.NewTicketItem(payload.Title, payload.Description, client.ParticipantID)
		if err != nil {
			return err
		}
		r.AddTicket(ticket)
		return nil
	})
}

func (h *RoomMessageHandler) handleTicketRemove(client *ws.Client, data json.RawMessage) error {
	var payload ticketPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	return h.apply(client, func(r *models.Room) error {
		return r.RemoveTicket(payload.TicketID)
	})
}

func (h *RoomMessageHandler) handleTicketSelect(client *ws.Client, data json.RawMessage) error {
	var payload ticketPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	return h.apply(client, h.adminOnly(client.ParticipantID, func(r *models.Room) error {
		return r.SelectTicket(payload.TicketID)
	}))
}

func (h *RoomMessageHandler) handleTicketReorder(client *ws.Client, data json.RawMessage) error {
	var payload reorderPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	return h.apply(client, func(r *models.Room) error {
		view := models.QueueQuery{Filter: payload.Filter, Sort: payload.Sort}
		return r.ReorderTickets(payload.SourceIndex, payload.DestIndex, view)
	})
}

func (h *RoomMessageHandler) handleTimerStart(client *ws.Client, data json.RawMessage) error {
	var payload timerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	return h.apply(client, h.adminOnly(client.ParticipantID, func(r *models.Room) error {
		return r.StartTimer(h.clock.Now(), payload.Minutes)
	}))
}

func (h *RoomMessageHandler) handleTimerAdd(client *ws.Client, data json.RawMessage) error {
	var payload timerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	return h.apply(client, h.adminOnly(client.ParticipantID, func(r *models.Room) error {
		return r.AddTimerMinutes(payload.Minutes)
	}))
}

func (h *RoomMessageHandler) handleTimerStop(client *ws.Client) error {
	return h.apply(client, h.adminOnly(client.ParticipantID, func(r *models.Room) error {
		r.StopTimer()
		return nil
	}))
}

func (h *RoomMessageHandler) handleSettingsUpdate(client *ws.Client, data json.RawMessage) error {
	var payload struct {
		AutoReveal      *bool `json:"auto_reveal"`
		AnonymousVoting *bool `json:"anonymous_voting"`
		ShowTooltips    *bool `json:"show_tooltips"`
		Confetti        *bool `json:"confetti"`
		Locked          *bool `json:"locked"`
		QueueCollapsed  *bool `json:"queue_collapsed"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	completed := false
	err := h.apply(client, h.adminOnly(client.ParticipantID, func(r *models.Room) error {
		if payload.AutoReveal != nil {
			r.Settings.AutoReveal = *payload.AutoReveal
		}
		if payload.AnonymousVoting != nil {
			r.Settings.AnonymousVoting = *payload.AnonymousVoting
		}
		if payload.ShowTooltips != nil {
			r.Settings.ShowTooltips = *payload.ShowTooltips
		}
		if payload.Confetti != nil {
			r.Settings.Confetti = *payload.Confetti
		}
		if payload.Locked != nil {
			r.Settings.Locked = *payload.Locked
		}
		if payload.QueueCollapsed != nil {
			r.Settings.QueueCollapsed = *payload.QueueCollapsed
		}
		// Flipping auto-reveal on can complete the round right away.
		completed = r.MaybeAutoReveal()
		return nil
	}))
	if err != nil {
		return err
	}

	if completed {
		h.tracker.RoundCompleted()
	}
	return nil
}

func (h *RoomMessageHandler) handleScaleChange(client *ws.Client, data json.RawMessage) error {
	var payload scalePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	return h.apply(client, h.adminOnly(client.ParticipantID, func(r *models.Room) error {
		return r.ChangeScale(models.ScaleType(payload.Scale))
	}))
}
