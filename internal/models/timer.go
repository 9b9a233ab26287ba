package models

import "time"

// TimerState stores a start point and a duration; the remaining time
// is always derived from the observer's clock, never written back.
type TimerState struct {
	StartTime   *time.Time `json:"start_time,omitempty"`
	DurationSec int        `json:"duration_sec"`
	IsRunning   bool       `json:"is_running"`
}

// Remaining derives the seconds left at now, clamped at zero.
func (t *TimerState) Remaining(now time.Time) int {
	if t == nil || !t.IsRunning || t.StartTime == nil {
		return 0
	}
	elapsed := int(now.Sub(*t.StartTime) / time.Second)
	remaining := t.DurationSec - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (r *Room) StartTimer(now time.Time, minutes int) error {
	if minutes <= 0 {
		return ErrInvalidDuration
	}
	start := now
	r.Timer = &TimerState{
		StartTime:   &start,
		DurationSec: minutes * 60,
		IsRunning:   true,
	}
	return nil
}

// AddTimerMinutes extends the running timer's duration in place.
func (r *Room) AddTimerMinutes(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidDuration
	}
	if r.Timer == nil || !r.Timer.IsRunning {
		return ErrTimerNotRunning
	}
	r.Timer.DurationSec += minutes * 60
	return nil
}

func (r *Room) StopTimer() {
	r.Timer = &TimerState{}
}
