package models

import (
	"time"
)

// SortOrder controls how the ticket queue is presented.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortTitle  SortOrder = "title"
)

type RoomSettings struct {
	AutoReveal      bool      `json:"auto_reveal"`
	AnonymousVoting bool      `json:"anonymous_voting"`
	ShowTooltips    bool      `json:"show_tooltips"`
	Confetti        bool      `json:"confetti"`
	ScaleType       ScaleType `json:"scale_type"`
	Locked          bool      `json:"locked"`
	QueueCollapsed  bool      `json:"queue_collapsed"`
}

func DefaultSettings(scale ScaleType) RoomSettings {
	if !scale.Valid() {
		scale = ScaleFibonacci
	}
	return RoomSettings{
		ShowTooltips: true,
		ScaleType:    scale,
	}
}

// Room is the shared document every client in a session subscribes to.
// Map and slice fields are stored as JSONB columns.
type Room struct {
	Code          string                 `gorm:"primaryKey;size:8" json:"code"`
	Name          string                 `gorm:"not null" json:"name"`
	CurrentTicket string                 `json:"current_ticket"`
	TicketQueue   []TicketItem           `gorm:"serializer:json;type:jsonb" json:"ticket_queue"`
	VotesRevealed bool                   `json:"votes_revealed"`
	Settings      RoomSettings           `gorm:"serializer:json;type:jsonb" json:"settings"`
	Participants  map[string]Participant `gorm:"serializer:json;type:jsonb" json:"participants"`
	Votes         map[string]string      `gorm:"serializer:json;type:jsonb" json:"votes"`
	Password      string                 `json:"-"`
	Timer         *TimerState            `gorm:"serializer:json;type:jsonb" json:"timer,omitempty"`
	RoundHistory  []RoundResult          `gorm:"serializer:json;type:jsonb" json:"round_history"`
	CreatedAt     time.Time              `json:"created_at"`
}

func NewRoom(code, name, password string, settings RoomSettings) *Room {
	return &Room{
		Code:         code,
		Name:         name,
		TicketQueue:  []TicketItem{},
		Settings:     settings,
		Participants: map[string]Participant{},
		Votes:        map[string]string{},
		Password:     password,
		RoundHistory: []RoundResult{},
		CreatedAt:    time.Now(),
	}
}

func (r *Room) HasPassword() bool {
	return r.Password != ""
}

// CheckPassword compares plain strings. Room passwords are a courtesy
// gate, not a credential.
func (r *Room) CheckPassword(password string) bool {
	return r.Password == password
}

// Clone returns a deep copy so callers can hand the room out without
// sharing the underlying maps and slices.
func (r *Room) Clone() *Room {
	c := *r
	c.TicketQueue = make([]TicketItem, len(r.TicketQueue))
	copy(c.TicketQueue, r.TicketQueue)
	c.Participants = make(map[string]Participant, len(r.Participants))
	for id, p := range r.Participants {
		c.Participants[id] = p
	}
	c.Votes = make(map[string]string, len(r.Votes))
	for id, v := range r.Votes {
		c.Votes[id] = v
	}
	c.RoundHistory = make([]RoundResult, len(r.RoundHistory))
	for i, rr := range r.RoundHistory {
		c.RoundHistory[i] = rr.clone()
	}
	if r.Timer != nil {
		t := *r.Timer
		c.Timer = &t
	}
	return &c
}
