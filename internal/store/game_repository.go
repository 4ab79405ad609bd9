package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pairplay/backend/internal/game"
)

// GameRepository keeps games in the games table.
type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) FindByPair(ctx context.Context, a, b uuid.UUID) (*game.Game, error) {
	var g game.Game
	err := r.db.WithContext(ctx).Where("pair_key = ?", game.PairKey(a, b)).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, game.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game by pair: %w", err)
	}
	return &g, nil
}

func (r *GameRepository) FindByID(ctx context.Context, id uuid.UUID) (*game.Game, error) {
	var g game.Game
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, game.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game by id: %w", err)
	}
	return &g, nil
}

func (r *GameRepository) Insert(ctx context.Context, g *game.Game) error {
	err := r.db.WithContext(ctx).Create(g).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return game.ErrPairExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

// Update locks the row with SELECT ... FOR UPDATE for the duration of fn, so
// concurrent moves on the same game are serialized.
func (r *GameRepository) Update(ctx context.Context, id uuid.UUID, fn func(*game.Game) error) (*game.Game, error) {
	var updated game.Game

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&updated, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.ErrGameNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock game: %w", err)
		}

		if err := fn(&updated); err != nil {
			return err
		}

		if err := tx.Save(&updated).Error; err != nil {
			return fmt.Errorf("failed to save game: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteByPlayer removes every game the user takes part in.
func (r *GameRepository) DeleteByPlayer(ctx context.Context, playerID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("player1_id = ? OR player2_id = ?", playerID, playerID).
		Delete(&game.Game{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete games of player: %w", err)
	}
	return nil
}
