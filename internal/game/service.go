package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PlayerStore resolves player ids.
type PlayerStore interface {
	// Resolve returns ErrPlayerNotFound when id is unknown.
	Resolve(ctx context.Context, id uuid.UUID) (Player, error)
}

// Repository is the durable storage of games.
type Repository interface {
	// FindByPair treats (a, b) and (b, a) as the same pairing.
	FindByPair(ctx context.Context, a, b uuid.UUID) (*Game, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Game, error)
	// Insert returns ErrPairExists when the pairing already has a game.
	Insert(ctx context.Context, g *Game) error
	// Update runs fn on the current row and persists the result atomically.
	// Nothing is written when fn returns an error.
	Update(ctx context.Context, id uuid.UUID, fn func(*Game) error) (*Game, error)
}

// Recorder observes game activity.
type Recorder interface {
	GameCreated()
	MoveApplied(status Status)
	MoveRejected(code string)
	GameRestarted()
}

type nopRecorder struct{}

func (nopRecorder) GameCreated() {}
func (nopRecorder) MoveApplied(Status) {}
func (nopRecorder) MoveRejected(string) {}
func (nopRecorder) GameRestarted() {}

// Option configures a Service.
type Option func(*Service)

// WithRecorder attaches a Recorder to the service.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// Service implements pairing, moves and restarts on top of the store.
type Service struct {
	players  PlayerStore
	games    Repository
	recorder Recorder
}

func NewService(players PlayerStore, games Repository, opts ...Option) *Service {
	s := &Service{
		players:  players,
		games:    games,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrGet returns the game of the pairing, creating it when it does not exist.
// created is true only when a new row was inserted.
func (s *Service) CreateOrGet(ctx context.Context, a, b uuid.UUID) (g *Game, created bool, err error) {
	if a == uuid.Nil || b == uuid.Nil {
		return nil, false, ErrInvalidRequest
	}
	if a == b {
		return nil, false, ErrSameParticipant
	}

	for _, id := range []uuid.UUID{a, b} {
		if _, err := s.players.Resolve(ctx, id); err != nil {
			return nil, false, fmt.Errorf("failed to resolve player %s: %w", id, err)
		}
	}

	existing, err := s.games.FindByPair(ctx, a, b)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrGameNotFound) {
		return nil, false, fmt.Errorf("failed to look up game: %w", err)
	}

	g = New(uuid.New(), a, b)
	if err := g.Validate(); err != nil {
		return nil, false, err
	}

	if err := s.games.Insert(ctx, g); err != nil {
		if !errors.Is(err, ErrPairExists) {
			return nil, false, fmt.Errorf("failed to create game: %w", err)
		}

		// Lost the race against another request for the same pair.
		existing, err = s.games.FindByPair(ctx, a, b)
		if err != nil {
			return nil, false, fmt.Errorf("failed to look up game: %w", err)
		}
		return existing, false, nil
	}

	s.recorder.GameCreated()
	return g, true, nil
}

// Get returns the game of the pairing in either order.
func (s *Service) Get(ctx context.Context, a, b uuid.UUID) (*Game, error) {
	if a == uuid.Nil || b == uuid.Nil {
		return nil, ErrInvalidRequest
	}

	g, err := s.games.FindByPair(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

// Find returns the game with the given id.
func (s *Service) Find(ctx context.Context, id uuid.UUID) (*Game, error) {
	if id == uuid.Nil {
		return nil, ErrGameNotFound
	}

	g, err := s.games.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

// Move applies a move by player at the 1-based position.
func (s *Service) Move(ctx context.Context, gameID, player uuid.UUID, position int) (MoveResult, error) {
	if gameID == uuid.Nil {
		return MoveResult{}, ErrGameNotFound
	}

	var result MoveResult
	updated, err := s.games.Update(ctx, gameID, func(g *Game) error {
		res, err := g.Move(player, position)
		if err != nil {
			return err
		}
		result = res
		return g.Validate()
	})
	if err != nil {
		s.recorder.MoveRejected(Code(err))
		return MoveResult{}, fmt.Errorf("failed to make move: %w", err)
	}

	result.Game = updated
	s.recorder.MoveApplied(result.Status)
	return result, nil
}

// Restart resets the board. Player 1 always moves first afterwards.
func (s *Service) Restart(ctx context.Context, gameID uuid.UUID) (*Game, error) {
	if gameID == uuid.Nil {
		return nil, ErrGameNotFound
	}

	g, err := s.games.Update(ctx, gameID, func(g *Game) error {
		g.Reset()
		return g.Validate()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	s.recorder.GameRestarted()
	return g, nil
}
