package models

import "time"

type ParticipantRole string

const (
	RoleVoter     ParticipantRole = "voter"
	RoleSpectator ParticipantRole = "spectator"
	RoleAdmin     ParticipantRole = "admin"
)

func (r ParticipantRole) Valid() bool {
	switch r {
	case RoleVoter, RoleSpectator, RoleAdmin:
		return true
	}
	return false
}

type Participant struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	IsHost   bool            `json:"is_host"`
	Role     ParticipantRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

func NewParticipant(id, name string, role ParticipantRole) Participant {
	return Participant{
		ID:       id,
		Name:     name,
		Role:     role,
		JoinedAt: time.Now(),
	}
}

// IsAdmin reports whether a participant may perform admin actions.
// The host always can.
func (r *Room) IsAdmin(participantID string) bool {
	p, ok := r.Participants[participantID]
	return ok && (p.IsHost || p.Role == RoleAdmin)
}

func (r *Room) AddParticipant(p Participant) {
	r.Participants[p.ID] = p
}

// RemoveParticipant deletes the participant entry and prunes their
// vote so completion counts stay consistent.
func (r *Room) RemoveParticipant(participantID string) {
	delete(r.Participants, participantID)
	delete(r.Votes, participantID)
}
