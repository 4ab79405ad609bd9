package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of a successful move.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWin  Status = "WIN"
	StatusDraw Status = "DRAW"
)

// Player is a resolved participant: an opaque id plus the label shown in responses.
type Player struct {
	ID    uuid.UUID
	Email string
}

// Game is a one-on-one tic-tac-toe match. One row per pairing.
type Game struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Player1ID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Player2ID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	PairKey       string     `gorm:"size:73;not null;uniqueIndex"`
	Player1Symbol Symbol     `gorm:"size:1;not null"`
	Player2Symbol Symbol     `gorm:"size:1;not null"`
	Board         Board      `gorm:"type:varchar(9);not null"`
	CurrentTurn   uuid.UUID  `gorm:"type:uuid;not null"`
	WinnerID      *uuid.UUID `gorm:"type:uuid"`
	IsFinished    bool       `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName pins the table name for GORM.
func (Game) TableName() string {
	return "games"
}

// MoveResult describes what a move did to the game.
type MoveResult struct {
	Status       Status
	NextTurn     uuid.UUID
	WinnerSymbol Symbol
	WinnerID     uuid.UUID

	// Game is the state after the move.
	Game *Game
}

// PairKey is the order-independent key of a pairing.
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

// New returns a fresh game where a plays X and moves first.
func New(id, a, b uuid.UUID) *Game {
	return &Game{
		ID:            id,
		Player1ID:     a,
		Player2ID:     b,
		PairKey:       PairKey(a, b),
		Player1Symbol: X,
		Player2Symbol: O,
		CurrentTurn:   a,
	}
}

// Validate checks the invariants that must hold before the game is persisted.
func (g *Game) Validate() error {
	if !g.Player1Symbol.Valid() || !g.Player2Symbol.Valid() || g.Player1Symbol == g.Player2Symbol {
		return fmt.Errorf("%w: got %q and %q", ErrInvalidSymbols, g.Player1Symbol, g.Player2Symbol)
	}
	if g.Player1ID == g.Player2ID {
		return ErrSameParticipant
	}
	return nil
}

// HasPlayer reports whether id takes part in the game.
func (g *Game) HasPlayer(id uuid.UUID) bool {
	return id == g.Player1ID || id == g.Player2ID
}

// SymbolOf returns the symbol held by player.
func (g *Game) SymbolOf(player uuid.UUID) (Symbol, bool) {
	switch player {
	case g.Player1ID:
		return g.Player1Symbol, true
	case g.Player2ID:
		return g.Player2Symbol, true
	default:
		return Empty, false
	}
}

// PlayerOf returns the participant holding symbol.
func (g *Game) PlayerOf(symbol Symbol) (uuid.UUID, bool) {
	switch symbol {
	case Empty:
		return uuid.Nil, false
	case g.Player1Symbol:
		return g.Player1ID, true
	case g.Player2Symbol:
		return g.Player2ID, true
	default:
		return uuid.Nil, false
	}
}

// Opponent returns the other participant.
func (g *Game) Opponent(player uuid.UUID) uuid.UUID {
	if player == g.Player1ID {
		return g.Player2ID
	}
	return g.Player1ID
}

// Move places the player's symbol at the 1-based position and resolves the
// outcome. The game is left untouched when an error is returned.
func (g *Game) Move(player uuid.UUID, position int) (MoveResult, error) {
	if position < 1 || position > len(g.Board) {
		return MoveResult{}, fmt.Errorf("%w: got %d", ErrInvalidField, position)
	}

	if g.IsFinished {
		return MoveResult{}, ErrGameFinished
	}

	if player != g.CurrentTurn {
		return MoveResult{}, ErrNotYourTurn
	}

	symbol, ok := g.SymbolOf(player)
	if !ok {
		return MoveResult{}, ErrNotYourTurn
	}

	cell := position - 1
	if g.Board[cell] != Empty {
		return MoveResult{}, ErrFieldTaken
	}

	g.Board[cell] = symbol

	winner, draw := Detect(g.Board)
	switch {
	case winner != Empty:
		owner, _ := g.PlayerOf(winner)
		g.IsFinished = true
		g.WinnerID = &owner
		return MoveResult{Status: StatusWin, WinnerSymbol: winner, WinnerID: owner}, nil
	case draw:
		g.IsFinished = true
		g.WinnerID = nil
		return MoveResult{Status: StatusDraw}, nil
	default:
		g.CurrentTurn = g.Opponent(player)
		return MoveResult{Status: StatusOK, NextTurn: g.CurrentTurn}, nil
	}
}

// Reset clears the board and hands the first move back to player 1.
func (g *Game) Reset() {
	g.Board = Board{}
	g.IsFinished = false
	g.WinnerID = nil
	g.CurrentTurn = g.Player1ID
}

// Clone returns a deep copy.
func (g *Game) Clone() *Game {
	c := *g
	if g.WinnerID != nil {
		w := *g.WinnerID
		c.WinnerID = &w
	}
	return &c
}
