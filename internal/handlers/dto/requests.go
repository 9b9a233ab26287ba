package dto

import "github.com/dkoval/pointing-poker/internal/models"

// CreateRoomRequest opens a new room; the caller becomes its host.
type CreateRoomRequest struct {
	RoomName    string           `json:"room_name"`
	DisplayName string           `json:"display_name" binding:"required,min=1,max=50"`
	Password    string           `json:"password"`
	ScaleType   string           `json:"scale_type"`
	Settings    *SettingsPayload `json:"settings"`
}

type JoinRoomRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=1,max=50"`
	Password    string `json:"password"`
	Spectator   bool   `json:"spectator"`
}

type LeaveRoomRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}

type KickRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	TargetID      string `json:"target_id" binding:"required"`
}

// SettingsPayload is a partial settings update; nil fields keep their
// current value.
type SettingsPayload struct {
	AutoReveal      *bool `json:"auto_reveal"`
	AnonymousVoting *bool `json:"anonymous_voting"`
	ShowTooltips    *bool `json:"show_tooltips"`
	Confetti        *bool `json:"confetti"`
	Locked          *bool `json:"locked"`
	QueueCollapsed  *bool `json:"queue_collapsed"`
}

// Apply copies the set fields onto the room settings.
func (p *SettingsPayload) Apply(s *models.RoomSettings) {
	if p == nil {
		return
	}
	if p.AutoReveal != nil {
		s.AutoReveal = *p.AutoReveal
	}
	if p.AnonymousVoting != nil {
		s.AnonymousVoting = *p.AnonymousVoting
	}
	if p.ShowTooltips != nil {
		s.ShowTooltips = *p.ShowTooltips
	}
	if p.Confetti != nil {
		s.Confetti = *p.Confetti
	}
	if p.Locked != nil {
		s.Locked = *p.Locked
	}
	if p.QueueCollapsed != nil {
		s.QueueCollapsed = *p.QueueCollapsed
	}
}

type RoomResponse struct {
	ParticipantID string    `json:"participant_id"`
	Room          RoomState `json:"room"`
}
