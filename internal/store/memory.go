package store

import (
	"context"
	"sync"

	"github.com/dkoval/pointing-poker/internal/models"
)

// MemoryStore keeps rooms in a map. Used by tests and single-node dev
// runs without Postgres.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*models.Room)}
}

func (s *MemoryStore) CreateRoom(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.Code]; ok {
		return ErrCodeTaken
	}
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *MemoryStore) GetRoom(_ context.Context, code string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, models.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *MemoryStore) UpdateRoom(_ context.Context, code string, mutate func(*models.Room) error) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, models.ErrRoomNotFound
	}
	next := room.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	s.rooms[code] = next
	return next.Clone(), nil
}

func (s *MemoryStore) CountRooms(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rooms)), nil
}
