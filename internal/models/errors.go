package models

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrInvalidPassword    = errors.New("invalid room password")
	ErrRoomCodeExhausted  = errors.New("could not allocate a free room code")
	ErrRoomLocked         = errors.New("room is locked")
	ErrNotAdmin           = errors.New("action requires admin")
	ErrUnknownParticipant = errors.New("participant not in room")
	ErrSpectatorVote      = errors.New("spectators cannot vote")
	ErrVotesRevealed      = errors.New("votes are already revealed")
	ErrInvalidVote        = errors.New("vote value not on the room scale")
	ErrScaleLocked        = errors.New("scale cannot change mid-round")
	ErrInvalidScale       = errors.New("unknown estimation scale")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTitleRequired      = errors.New("ticket title is required")
	ErrTitleTooLong       = errors.New("ticket title exceeds 100 characters")
	ErrDescriptionTooLong = errors.New("ticket description exceeds 300 characters")
	ErrReorderFiltered    = errors.New("reorder requires the full unfiltered queue view")
	ErrReorderOutOfRange  = errors.New("reorder index out of range")
	ErrTimerNotRunning    = errors.New("timer is not running")
	ErrInvalidDuration    = errors.New("timer duration must be positive")
)
