package models

import "time"

// RoundResult is an append-only record of a revealed round.
type RoundResult struct {
	Ticket      string            `json:"ticket"`
	Votes       map[string]string `json:"votes"`
	Estimate    float64           `json:"estimate"`
	CompletedAt time.Time         `json:"completed_at"`
}

func (rr RoundResult) clone() RoundResult {
	c := rr
	c.Votes = make(map[string]string, len(rr.Votes))
	for id, v := range rr.Votes {
		c.Votes[id] = v
	}
	return c
}

// Reveal flips the reveal flag and appends the round to history.
// Idempotent: a second reveal (e.g. two clients racing the auto-reveal
// condition) changes nothing.
func (r *Room) Reveal() {
	if r.VotesRevealed {
		return
	}
	r.VotesRevealed = true

	snapshot := make(map[string]string, len(r.Votes))
	for id, v := range r.Votes {
		snapshot[id] = v
	}
	r.RoundHistory = append(r.RoundHistory, RoundResult{
		Ticket:      r.CurrentTicket,
		Votes:       snapshot,
		Estimate:    EstimateVotes(snapshot),
		CompletedAt: time.Now(),
	})
}

// MaybeAutoReveal applies the auto-reveal trigger after a vote lands.
// Reports whether it revealed.
func (r *Room) MaybeAutoReveal() bool {
	if !r.Settings.AutoReveal || r.VotesRevealed || !r.AllVotersHaveVoted() {
		return false
	}
	r.Reveal()
	return true
}

// ResetRound clears all votes and hides them again. This is the only
// way a new round starts.
func (r *Room) ResetRound() {
	r.Votes = map[string]string{}
	r.VotesRevealed = false
}

// ChangeScale swaps the estimation scale. Rejected mid-round so the
// scale cannot change under cast votes; allowed once revealed or while
// nobody has voted. Votes are cleared because they may not exist on
// the new scale.
func (r *Room) ChangeScale(scale ScaleType) error {
	if !scale.Valid() {
		return ErrInvalidScale
	}
	if !r.VotesRevealed && len(r.Votes) > 0 {
		return ErrScaleLocked
	}
	r.Settings.ScaleType = scale
	r.ResetRound()
	return nil
}
