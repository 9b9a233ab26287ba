package websocket

import (
	"encoding/json"
	"time"
)

// MessageType tags every frame on the wire.
type MessageType string

const (
	// Server -> client
	TypeRoomState MessageType = "room_state"
	TypeError     MessageType = "error"
	TypePing      MessageType = "ping"
	TypePong      MessageType = "pong"

	// Voting round
	TypeVoteCast    MessageType = "vote_cast"
	TypeRevealVotes MessageType = "reveal_votes"
	TypeResetRound  MessageType = "reset_round"

	// Ticket queue
	TypeTicketAdd     MessageType = "ticket_add"
	TypeTicketRemove  MessageType = "ticket_remove"
	TypeTicketSelect  MessageType = "ticket_select"
	TypeTicketReorder MessageType = "ticket_reorder"

	// Timer
	TypeTimerStart MessageType = "timer_start"
	TypeTimerAdd   MessageType = "timer_add"
	TypeTimerStop  MessageType = "timer_stop"

	// Settings
	TypeSettingsUpdate MessageType = "settings_update"
	TypeScaleChange    MessageType = "scale_change"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
