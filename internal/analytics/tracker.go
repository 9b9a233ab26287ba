package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Event counter names.
const (
	EventRoomCreated       = "room_created"
	EventParticipantJoined = "participant_joined"
	EventVoteCast          = "vote_cast"
	EventRoundCompleted    = "round_completed"
	EventRoomClosed        = "room_closed"
)

const (
	flushThreshold = 32
	flushInterval  = 30 * time.Second
	retryDelay     = 5 * time.Second
)

// Sink receives the aggregated counts. A flush either lands all counts
// or none.
type Sink interface {
	Flush(ctx context.Context, counts map[string]int64) error
}

// Tracker buffers fire-and-forget usage counters, aggregates same-key
// events by summing, and flushes when an event-count or time threshold
// is exceeded. The pending buffer is mirrored to local storage so a
// crash loses nothing. A nil *Tracker is valid and does nothing.
type Tracker struct {
	mu        sync.Mutex
	pending   map[string]int64
	events    int
	lastFlush time.Time

	clock  clockwork.Clock
	sink   Sink
	buffer *Buffer
}

// NewTracker builds a tracker and reloads any counts a previous run
// left in the local buffer.
func NewTracker(sink Sink, buffer *Buffer, clock clockwork.Clock) *Tracker {
	t := &Tracker{
		pending:   make(map[string]int64),
		lastFlush: clock.Now(),
		clock:     clock,
		sink:      sink,
		buffer:    buffer,
	}
	if buffer != nil {
		recovered, err := buffer.Load()
		if err != nil {
			log.Warn().Err(err).Msg("could not recover analytics buffer")
		} else {
			for k, v := range recovered {
				t.pending[k] = v
			}
		}
	}
	return t
}

func (t *Tracker) RoomCreated()       { t.Track(EventRoomCreated, 1) }
func (t *Tracker) ParticipantJoined() { t.Track(EventParticipantJoined, 1) }
func (t *Tracker) VoteCast()          { t.Track(EventVoteCast, 1) }
func (t *Tracker) RoundCompleted()    { t.Track(EventRoundCompleted, 1) }
func (t *Tracker) RoomClosed()        { t.Track(EventRoomClosed, 1) }

// Track adds n to the named counter, eventually reaching the sink.
func (t *Tracker) Track(event string, n int64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.pending[event] += n
	t.events++
	if t.buffer != nil {
		if err := t.buffer.Upsert(event, t.pending[event]); err != nil {
			log.Warn().Err(err).Str("event", event).Msg("analytics buffer write failed")
		}
	}
	due := t.events >= flushThreshold || t.clock.Since(t.lastFlush) >= flushInterval
	t.mu.Unlock()

	if due {
		go t.flush()
	}
}

// flush takes the pending counts and pushes them to the sink. On
// failure it retries once after a fixed delay; a second failure puts
// the counts back for a later flush.
func (t *Tracker) flush() {
	t.mu.Lock()
	if len(t.pending) == 0 {
		t.mu.Unlock()
		return
	}
	counts := t.pending
	t.pending = make(map[string]int64)
	t.events = 0
	t.lastFlush = t.clock.Now()
	if t.buffer != nil {
		if err := t.buffer.Replace(nil); err != nil {
			log.Warn().Err(err).Msg("analytics buffer clear failed")
		}
	}
	t.mu.Unlock()

	err := t.sink.Flush(context.Background(), counts)
	if err == nil {
		return
	}
	log.Warn().Err(err).Msg("analytics flush failed, retrying once")

	<-t.clock.After(retryDelay)
	if err := t.sink.Flush(context.Background(), counts); err != nil {
		log.Warn().Err(err).Msg("analytics flush retry failed")
		t.requeue(counts)
	}
}

func (t *Tracker) requeue(counts map[string]int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range counts {
		t.pending[k] += v
		if t.buffer != nil {
			if err := t.buffer.Upsert(k, t.pending[k]); err != nil {
				log.Warn().Err(err).Str("event", k).Msg("analytics buffer write failed")
			}
		}
	}
}

// Close flushes whatever is pending. Called on shutdown, the
// page-unload analog.
func (t *Tracker) Close(ctx context.Context) error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	counts := t.pending
	t.pending = make(map[string]int64)
	t.events = 0
	if t.buffer != nil {
		t.buffer.Replace(nil)
	}
	t.mu.Unlock()

	if len(counts) == 0 {
		return nil
	}
	if err := t.sink.Flush(ctx, counts); err != nil {
		t.requeue(counts)
		return err
	}
	return nil
}
