package store

import (
	"context"
	"errors"

	"github.com/dkoval/pointing-poker/internal/models"
)

// ErrCodeTaken is returned by CreateRoom when the code already exists;
// callers generate a fresh code and retry.
var ErrCodeTaken = errors.New("room code already taken")

// RoomStore is the document-store contract the rest of the service
// consumes: point lookup by code, create, and atomic read-modify-write
// of a single room document.
type RoomStore interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, code string) (*models.Room, error)

	// UpdateRoom applies mutate to the room under the store's write
	// lock and persists the result. If mutate returns an error the
	// room is left untouched and the error is passed through.
	UpdateRoom(ctx context.Context, code string, mutate func(*models.Room) error) (*models.Room, error)

	CountRooms(ctx context.Context) (int64, error)
}
