package dto

import (
	"sort"
	"time"

	"github.com/dkoval/pointing-poker/internal/models"
)

// RoomState is the document pushed to subscribers and returned by the
// REST API. Vote values are redacted according to the viewer and the
// room settings; everything else mirrors the stored room.
type RoomState struct {
	Code          string                        `json:"code"`
	Name          string                        `json:"name"`
	CurrentTicket string                        `json:"current_ticket"`
	TicketQueue   []models.TicketItem           `json:"ticket_queue"`
	VotesRevealed bool                          `json:"votes_revealed"`
	Settings      models.RoomSettings           `json:"settings"`
	Participants  map[string]models.Participant `json:"participants"`

	// Voted marks who has cast, without exposing values.
	Voted map[string]bool `json:"voted"`

	// Votes carries values once revealed (or to admins). Nil while
	// hidden and in anonymous rooms.
	Votes map[string]string `json:"votes,omitempty"`

	// VoteValues replaces Votes in anonymous rooms: values only,
	// sorted, with no link back to a participant.
	VoteValues []string `json:"vote_values,omitempty"`

	Progress     float64             `json:"progress"`
	AllVoted     bool                `json:"all_voted"`
	Timer        *models.TimerState  `json:"timer,omitempty"`
	RemainingSec int                 `json:"remaining_sec"`
	RoundHistory []RoundResult       `json:"round_history"`
	HasPassword  bool                `json:"has_password"`
	CreatedAt    time.Time           `json:"created_at"`
}

type RoundResult struct {
	Ticket      string            `json:"ticket"`
	Votes       map[string]string `json:"votes,omitempty"`
	VoteValues  []string          `json:"vote_values,omitempty"`
	Estimate    float64           `json:"estimate"`
	CompletedAt time.Time         `json:"completed_at"`
}

// FormatRoomState builds the viewer-specific document. While votes are
// hidden only admins see values; anonymous rooms never expose the
// participant-to-value mapping, to anyone.
func FormatRoomState(room *models.Room, viewerID string, now time.Time) RoomState {
	voted := make(map[string]bool, len(room.Votes))
	for id := range room.Votes {
		voted[id] = true
	}

	state := RoomState{
		Code:          room.Code,
		Name:          room.Name,
		CurrentTicket: room.CurrentTicket,
		TicketQueue:   room.TicketQueue,
		VotesRevealed: room.VotesRevealed,
		Settings:      room.Settings,
		Participants:  room.Participants,
		Voted:         voted,
		Progress:      room.VoteProgress(),
		AllVoted:      room.AllVotersHaveVoted(),
		Timer:         room.Timer,
		RemainingSec:  room.Timer.Remaining(now),
		HasPassword:   room.HasPassword(),
		CreatedAt:     room.CreatedAt,
	}

	visible := room.VotesRevealed || room.IsAdmin(viewerID)
	if visible {
		if room.Settings.AnonymousVoting {
			state.VoteValues = sortedValues(room.Votes)
		} else {
			state.Votes = room.Votes
		}
	}

	state.RoundHistory = make([]RoundResult, len(room.RoundHistory))
	for i, rr := range room.RoundHistory {
		entry := RoundResult{
			Ticket:      rr.Ticket,
			Estimate:    rr.Estimate,
			CompletedAt: rr.CompletedAt,
		}
		if room.Settings.AnonymousVoting {
			entry.VoteValues = sortedValues(rr.Votes)
		} else {
			entry.Votes = rr.Votes
		}
		state.RoundHistory[i] = entry
	}

	return state
}

func sortedValues(votes map[string]string) []string {
	values := make([]string, 0, len(votes))
	for _, v := range votes {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
