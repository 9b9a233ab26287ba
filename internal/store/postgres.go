package store

import (
	"context"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dkoval/pointing-poker/internal/models"
)

// PostgresStore persists room documents in a single table; the map and
// slice fields live in JSONB columns.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Room{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) CreateRoom(ctx context.Context, room *models.Room) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Room{}).Where("code = ?", room.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCodeTaken
		}
		return tx.Create(room).Error
	})
}

func (s *PostgresStore) GetRoom(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).First(&room, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateRoom serializes concurrent writers on the room row with a
// SELECT ... FOR UPDATE so read-modify-write cycles do not clobber
// each other.
func (s *PostgresStore) UpdateRoom(ctx context.Context, code string, mutate func(*models.Room) error) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, "code = ?", code).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		if err := mutate(&room); err != nil {
			return err
		}
		return tx.Save(&room).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *PostgresStore) CountRooms(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Room{}).Count(&count).Error
	return count, err
}
