// Package gametest provides in-memory collaborators for exercising the game
// service without a database.
package gametest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"pairplay/backend/internal/game"
)

// Players is an in-memory game.PlayerStore.
type Players struct {
	mu     sync.RWMutex
	emails map[uuid.UUID]string
}

func NewPlayers() *Players {
	return &Players{emails: make(map[uuid.UUID]string)}
}

// Add registers a player and returns its id.
func (p *Players) Add(email string) uuid.UUID {
	id := uuid.New()
	p.mu.Lock()
	p.emails[id] = email
	p.mu.Unlock()
	return id
}

func (p *Players) Resolve(_ context.Context, id uuid.UUID) (game.Player, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	email, ok := p.emails[id]
	if !ok {
		return game.Player{}, game.ErrPlayerNotFound
	}
	return game.Player{ID: id, Email: email}, nil
}

// Games is an in-memory game.Repository. Every read returns a copy.
type Games struct {
	mu    sync.Mutex
	games map[uuid.UUID]*game.Game

	// Err, when set, is returned by every operation.
	Err error
	// Inserts counts successful inserts.
	Inserts int
}

func NewGames() *Games {
	return &Games{games: make(map[uuid.UUID]*game.Game)}
}

func (r *Games) FindByPair(_ context.Context, a, b uuid.UUID) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	key := game.PairKey(a, b)
	for _, g := range r.games {
		if g.PairKey == key {
			return g.Clone(), nil
		}
	}
	return nil, game.ErrGameNotFound
}

func (r *Games) FindByID(_ context.Context, id uuid.UUID) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	g, ok := r.games[id]
	if !ok {
		return nil, game.ErrGameNotFound
	}
	return g.Clone(), nil
}

func (r *Games) Insert(_ context.Context, g *game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}

	for _, existing := range r.games {
		if existing.PairKey == g.PairKey {
			return game.ErrPairExists
		}
	}
	r.games[g.ID] = g.Clone()
	r.Inserts++
	return nil
}

func (r *Games) Update(_ context.Context, id uuid.UUID, fn func(*game.Game) error) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	current, ok := r.games[id]
	if !ok {
		return nil, game.ErrGameNotFound
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	r.games[id] = working
	return working.Clone(), nil
}

// Put stores g as-is, bypassing pairing checks.
func (r *Games) Put(g *game.Game) {
	r.mu.Lock()
	r.games[g.ID] = g.Clone()
	r.mu.Unlock()
}
