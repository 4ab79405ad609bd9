package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pairplay/backend/internal/game"
	"pairplay/backend/internal/models"
)

// PlayerStore resolves players from the users table.
type PlayerStore struct {
	db *gorm.DB
}

func NewPlayerStore(db *gorm.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) Resolve(ctx context.Context, id uuid.UUID) (game.Player, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "email").First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.Player{}, game.ErrPlayerNotFound
	}
	if err != nil {
		return game.Player{}, fmt.Errorf("failed to resolve player: %w", err)
	}
	return game.Player{ID: user.ID, Email: user.Email}, nil
}
