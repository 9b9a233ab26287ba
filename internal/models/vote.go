package models

import (
	"math"
	"strconv"
)

// VoterCount is the completion denominator: spectators never count.
func (r *Room) VoterCount() int {
	n := 0
	for _, p := range r.Participants {
		if p.Role != RoleSpectator {
			n++
		}
	}
	return n
}

// VotedCount counts voters with a present vote entry. Votes from
// participants no longer in the room are ignored.
func (r *Room) VotedCount() int {
	n := 0
	for id, p := range r.Participants {
		if p.Role == RoleSpectator {
			continue
		}
		if _, ok := r.Votes[id]; ok {
			n++
		}
	}
	return n
}

func (r *Room) AllVotersHaveVoted() bool {
	voters := r.VoterCount()
	return voters > 0 && r.VotedCount() == voters
}

// VoteProgress returns the completion percentage, 0 when the room has
// no voters.
func (r *Room) VoteProgress() float64 {
	voters := r.VoterCount()
	if voters == 0 {
		return 0
	}
	return float64(r.VotedCount()) / float64(voters) * 100
}

// CastVote records a vote for the current round, overwriting any prior
// value from the same participant.
func (r *Room) CastVote(participantID, value string) error {
	p, ok := r.Participants[participantID]
	if !ok {
		return ErrUnknownParticipant
	}
	if p.Role == RoleSpectator {
		return ErrSpectatorVote
	}
	if r.VotesRevealed {
		return ErrVotesRevealed
	}
	if !r.Settings.ScaleType.Contains(value) {
		return ErrInvalidVote
	}
	r.Votes[participantID] = value
	return nil
}

// EstimateVotes averages the numeric votes, ignoring "?" and "☕",
// rounded to two decimals. Returns 0 when no vote is numeric.
func EstimateVotes(votes map[string]string) float64 {
	sum, n := 0.0, 0
	for _, v := range votes {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}
