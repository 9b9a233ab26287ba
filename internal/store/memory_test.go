package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dkoval/pointing-poker/internal/models"
)

func newRoom(code string) *models.Room {
	return models.NewRoom(code, "Test", "", models.DefaultSettings(models.ScaleFibonacci))
}

func TestCreateRoomRejectsDuplicateCode(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.CreateRoom(ctx, newRoom("AAAAA")); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if err := s.CreateRoom(ctx, newRoom("AAAAA")); !errors.Is(err, ErrCodeTaken) {
		t.Errorf("duplicate create error = %v, want ErrCodeTaken", err)
	}

	count, err := s.CountRooms(ctx)
	if err != nil || count != 1 {
		t.Errorf("CountRooms = %d, %v, want 1", count, err)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetRoom(context.Background(), "NOPES"); !errors.Is(err, models.ErrRoomNotFound) {
		t.Errorf("error = %v, want ErrRoomNotFound", err)
	}
}

func TestGetRoomReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.CreateRoom(ctx, newRoom("AAAAA"))

	first, _ := s.GetRoom(ctx, "AAAAA")
	first.Participants["p1"] = models.NewParticipant("p1", "Ann", models.RoleVoter)

	second, _ := s.GetRoom(ctx, "AAAAA")
	if len(second.Participants) != 0 {
		t.Error("mutating a returned room leaked into the store")
	}
}

func TestUpdateRoomAppliesMutation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.CreateRoom(ctx, newRoom("AAAAA"))

	updated, err := s.UpdateRoom(ctx, "AAAAA", func(r *models.Room) error {
		r.AddParticipant(models.NewParticipant("p1", "Ann", models.RoleVoter))
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateRoom: %v", err)
	}
	if len(updated.Participants) != 1 {
		t.Errorf("returned room has %d participants, want 1", len(updated.Participants))
	}

	stored, _ := s.GetRoom(ctx, "AAAAA")
	if len(stored.Participants) != 1 {
		t.Errorf("stored room has %d participants, want 1", len(stored.Participants))
	}
}

func TestUpdateRoomMutationErrorLeavesRoomUntouched(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.CreateRoom(ctx, newRoom("AAAAA"))

	boom := errors.New("boom")
	_, err := s.UpdateRoom(ctx, "AAAAA", func(r *models.Room) error {
		r.AddParticipant(models.NewParticipant("p1", "Ann", models.RoleVoter))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	stored, _ := s.GetRoom(ctx, "AAAAA")
	if len(stored.Participants) != 0 {
		t.Error("failed mutation must not be persisted")
	}
}

func TestUpdateRoomConcurrentVotes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	room := newRoom("AAAAA")
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		room.AddParticipant(models.NewParticipant(id, id, models.RoleVoter))
	}
	s.CreateRoom(ctx, room)

	var wg sync.WaitGroup
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s.UpdateRoom(ctx, "AAAAA", func(r *models.Room) error {
				return r.CastVote(id, "5")
			})
		}(id)
	}
	wg.Wait()

	stored, _ := s.GetRoom(ctx, "AAAAA")
	if got := stored.VotedCount(); got != 5 {
		t.Errorf("concurrent votes landed %d entries, want 5", got)
	}
}
