package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame() (*Game, uuid.UUID, uuid.UUID) {
	a, b := uuid.New(), uuid.New()
	return New(uuid.New(), a, b), a, b
}

func TestNew(t *testing.T) {
	// When: creating a game between a and b
	g, a, b := newTestGame()

	// Then: a plays X and moves first on an empty board
	assert.Equal(t, a, g.Player1ID)
	assert.Equal(t, b, g.Player2ID)
	assert.Equal(t, X, g.Player1Symbol)
	assert.Equal(t, O, g.Player2Symbol)
	assert.Equal(t, a, g.CurrentTurn)
	assert.Equal(t, Board{}, g.Board)
	assert.False(t, g.IsFinished)
	assert.Nil(t, g.WinnerID)
	assert.Equal(t, PairKey(b, a), g.PairKey)
}

func TestPairKey(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, uuid.New()))
}

func TestGame_Validate(t *testing.T) {
	t.Run("Accepts distinct symbols", func(t *testing.T) {
		g, _, _ := newTestGame()

		assert.NoError(t, g.Validate())
	})

	t.Run("Rejects equal symbols", func(t *testing.T) {
		g, _, _ := newTestGame()
		g.Player2Symbol = X

		assert.ErrorIs(t, g.Validate(), ErrInvalidSymbols)
	})

	t.Run("Rejects an unknown symbol", func(t *testing.T) {
		g, _, _ := newTestGame()
		g.Player1Symbol = Empty

		assert.ErrorIs(t, g.Validate(), ErrInvalidSymbols)
	})

	t.Run("Rejects a self pairing", func(t *testing.T) {
		g, a, _ := newTestGame()
		g.Player2ID = a

		assert.ErrorIs(t, g.Validate(), ErrSameParticipant)
	})
}

func TestGame_SymbolLookup(t *testing.T) {
	g, a, b := newTestGame()
	g.Player1Symbol, g.Player2Symbol = O, X

	symbol, ok := g.SymbolOf(b)
	require.True(t, ok)
	assert.Equal(t, X, symbol)

	player, ok := g.PlayerOf(O)
	require.True(t, ok)
	assert.Equal(t, a, player)

	_, ok = g.SymbolOf(uuid.New())
	assert.False(t, ok)

	_, ok = g.PlayerOf(Empty)
	assert.False(t, ok)

	assert.Equal(t, b, g.Opponent(a))
	assert.Equal(t, a, g.Opponent(b))
}

func TestGame_Move(t *testing.T) {
	t.Run("Writes the mover's symbol and flips the turn", func(t *testing.T) {
		// Given: a new game
		g, a, b := newTestGame()

		// When: player 1 takes the centre
		res, err := g.Move(a, 5)

		// Then: the cell holds X and it is player 2's turn
		require.NoError(t, err)
		assert.Equal(t, StatusOK, res.Status)
		assert.Equal(t, b, res.NextTurn)
		assert.Equal(t, X, g.Board[4])
		assert.Equal(t, b, g.CurrentTurn)
	})

	t.Run("Changes exactly one cell", func(t *testing.T) {
		g, a, b := newTestGame()
		_, err := g.Move(a, 1)
		require.NoError(t, err)
		before := g.Board

		_, err = g.Move(b, 9)
		require.NoError(t, err)

		changed := 0
		for i := range before {
			if before[i] != g.Board[i] {
				changed++
				assert.Equal(t, Empty, before[i])
				assert.Equal(t, O, g.Board[i])
			}
		}
		assert.Equal(t, 1, changed)
	})

	t.Run("Rejects positions outside 1..9", func(t *testing.T) {
		g, a, _ := newTestGame()

		for _, pos := range []int{0, 10, -1} {
			_, err := g.Move(a, pos)
			assert.ErrorIs(t, err, ErrInvalidField)
		}
		assert.Equal(t, Board{}, g.Board)
	})

	t.Run("Rejects the player who is not on turn", func(t *testing.T) {
		// Given: a new game where player 1 moves first
		g, _, b := newTestGame()

		// When: player 2 tries to move
		_, err := g.Move(b, 1)

		// Then: the move is rejected and the board is unchanged
		assert.ErrorIs(t, err, ErrNotYourTurn)
		assert.Equal(t, Board{}, g.Board)
	})

	t.Run("Rejects strangers", func(t *testing.T) {
		g, _, _ := newTestGame()

		_, err := g.Move(uuid.New(), 1)

		assert.ErrorIs(t, err, ErrNotYourTurn)
	})

	t.Run("Rejects a taken field", func(t *testing.T) {
		g, a, b := newTestGame()
		_, err := g.Move(a, 3)
		require.NoError(t, err)

		_, err = g.Move(b, 3)

		assert.ErrorIs(t, err, ErrFieldTaken)
		assert.Equal(t, X, g.Board[2])
		assert.Equal(t, b, g.CurrentTurn)
	})

	t.Run("Resolves the symbol by identity, not by slot", func(t *testing.T) {
		// Given: a game where player 2 was assigned X
		g, a, b := newTestGame()
		g.Player1Symbol, g.Player2Symbol = O, X
		g.CurrentTurn = b

		// When: player 2 moves
		_, err := g.Move(b, 1)

		// Then: X is written
		require.NoError(t, err)
		assert.Equal(t, X, g.Board[0])
		assert.Equal(t, a, g.CurrentTurn)
	})

	t.Run("Declares the winner on a diagonal", func(t *testing.T) {
		g, a, b := newTestGame()
		play(t, g, a, 1)
		play(t, g, b, 2)
		play(t, g, a, 5)
		play(t, g, b, 3)

		res, err := g.Move(a, 9)

		require.NoError(t, err)
		assert.Equal(t, StatusWin, res.Status)
		assert.Equal(t, X, res.WinnerSymbol)
		assert.Equal(t, a, res.WinnerID)
		assert.True(t, g.IsFinished)
		require.NotNil(t, g.WinnerID)
		assert.Equal(t, a, *g.WinnerID)
		assert.Equal(t, a, g.CurrentTurn, "turn does not flip on a winning move")
	})

	t.Run("Declares a draw on a full board", func(t *testing.T) {
		g, a, b := newTestGame()
		// X O X / X O O / O X X
		for i, pos := range []int{1, 2, 3, 5, 4, 6, 8, 7} {
			player := a
			if i%2 == 1 {
				player = b
			}
			play(t, g, player, pos)
		}

		res, err := g.Move(a, 9)

		require.NoError(t, err)
		assert.Equal(t, StatusDraw, res.Status)
		assert.True(t, g.IsFinished)
		assert.Nil(t, g.WinnerID)
	})

	t.Run("Never mutates a finished game", func(t *testing.T) {
		// Given: a finished game
		g, a, b := newTestGame()
		play(t, g, a, 1)
		play(t, g, b, 4)
		play(t, g, a, 2)
		play(t, g, b, 5)
		res, err := g.Move(a, 3)
		require.NoError(t, err)
		require.Equal(t, StatusWin, res.Status)
		snapshot := g.Clone()

		// When: anyone tries any move
		for _, player := range []uuid.UUID{a, b, uuid.New()} {
			for pos := 0; pos <= 10; pos++ {
				_, err := g.Move(player, pos)
				require.Error(t, err)
			}
		}

		// Then: nothing changed
		assert.Equal(t, snapshot, g)
	})
}

func TestGame_Reset(t *testing.T) {
	// Given: a game player 2 won
	g, a, b := newTestGame()
	play(t, g, a, 1)
	play(t, g, b, 4)
	play(t, g, a, 2)
	play(t, g, b, 5)
	play(t, g, a, 9)
	_, err := g.Move(b, 6)
	require.NoError(t, err)
	require.True(t, g.IsFinished)

	// When: resetting
	g.Reset()

	// Then: the board is empty and player 1 moves first
	assert.Equal(t, Board{}, g.Board)
	assert.False(t, g.IsFinished)
	assert.Nil(t, g.WinnerID)
	assert.Equal(t, a, g.CurrentTurn)
	assert.Equal(t, X, g.Player1Symbol)
	assert.Equal(t, O, g.Player2Symbol)
}

func TestGame_Clone(t *testing.T) {
	g, a, _ := newTestGame()
	g.WinnerID = &a

	c := g.Clone()
	*c.WinnerID = uuid.New()
	c.Board[0] = X

	assert.Equal(t, a, *g.WinnerID)
	assert.Equal(t, Empty, g.Board[0])
}

func TestCode(t *testing.T) {
	assert.Equal(t, "NOT_YOUR_TURN", Code(ErrNotYourTurn))
	assert.Equal(t, "FIELD_TAKEN", Code(ErrFieldTaken))
	assert.Equal(t, "GAME_NOT_FOUND", Code(ErrGameNotFound))
	assert.Equal(t, "UNAVAILABLE", Code(assert.AnError))
}

func play(t *testing.T, g *Game, player uuid.UUID, pos int) {
	t.Helper()

	res, err := g.Move(player, pos)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
}
