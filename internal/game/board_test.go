package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	t.Run("Returns X for a completed row", func(t *testing.T) {
		// Given: a board where X holds the top row
		board := Board{
			X, X, X,
			O, O, Empty,
			Empty, Empty, Empty,
		}

		// When: detecting the result
		winner, draw := Detect(board)

		// Then: X wins and it is not a draw
		assert.Equal(t, X, winner)
		assert.False(t, draw)
	})

	t.Run("Returns O for a completed column", func(t *testing.T) {
		board := Board{
			X, O, X,
			Empty, O, X,
			Empty, O, Empty,
		}

		winner, draw := Detect(board)

		assert.Equal(t, O, winner)
		assert.False(t, draw)
	})

	t.Run("Returns the winner of an anti-diagonal", func(t *testing.T) {
		board := Board{
			O, O, X,
			Empty, X, Empty,
			X, Empty, Empty,
		}

		winner, _ := Detect(board)

		assert.Equal(t, X, winner)
	})

	t.Run("Reports a draw on a full board without a triple", func(t *testing.T) {
		// Given: a full board with no winning line
		board := Board{
			X, O, X,
			X, O, O,
			O, X, X,
		}

		// When: detecting the result
		winner, draw := Detect(board)

		// Then: nobody wins and the game is a draw
		assert.Equal(t, Empty, winner)
		assert.True(t, draw)
	})

	t.Run("Prefers a win over a draw when the last cell completes a triple", func(t *testing.T) {
		board := Board{
			X, O, X,
			O, X, O,
			O, X, X,
		}

		winner, draw := Detect(board)

		assert.Equal(t, X, winner)
		assert.False(t, draw)
	})

	t.Run("Reports nothing on an empty board", func(t *testing.T) {
		winner, draw := Detect(Board{})

		assert.Equal(t, Empty, winner)
		assert.False(t, draw)
	})

	t.Run("Takes the first complete triple in scan order", func(t *testing.T) {
		// Given: an unreachable board where both symbols hold a row
		board := Board{
			O, O, O,
			Empty, Empty, Empty,
			X, X, X,
		}

		// When: detecting the result
		winner, _ := Detect(board)

		// Then: the top row is scanned first
		assert.Equal(t, O, winner)
	})
}

// Every one of the 3^9 boards is checked against a brute-force definition.
func TestDetect_AllBoards(t *testing.T) {
	symbols := [3]Symbol{Empty, X, O}

	for n := 0; n < 19683; n++ {
		var board Board
		v := n
		for i := range board {
			board[i] = symbols[v%3]
			v /= 3
		}

		winner, draw := Detect(board)

		if winner != Empty {
			require.False(t, draw)
			require.True(t, holdsTriple(board, winner), "board %s", board)
			continue
		}

		require.False(t, holdsTriple(board, X), "board %s", board)
		require.False(t, holdsTriple(board, O), "board %s", board)
		require.Equal(t, board.Full(), draw, "board %s", board)
	}
}

func holdsTriple(b Board, s Symbol) bool {
	for _, t := range Triples {
		if b[t[0]] == s && b[t[1]] == s && b[t[2]] == s {
			return true
		}
	}
	return false
}

func TestBoard_StringAndParse(t *testing.T) {
	t.Run("Encodes empty cells as dashes", func(t *testing.T) {
		board := Board{X, Empty, O}

		assert.Equal(t, "X-O------", board.String())
	})

	t.Run("Parses what it encodes", func(t *testing.T) {
		board := Board{X, O, X, Empty, O, Empty, Empty, X, Empty}

		parsed, err := ParseBoard(board.String())

		require.NoError(t, err)
		assert.Equal(t, board, parsed)
	})

	t.Run("Rejects a short board", func(t *testing.T) {
		_, err := ParseBoard("XO")

		require.Error(t, err)
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		_, err := ParseBoard("XO-Z-----")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid cell")
	})
}

func TestBoard_Scan(t *testing.T) {
	t.Run("Scans bytes from the driver", func(t *testing.T) {
		var board Board

		err := board.Scan([]byte("---X-----"))

		require.NoError(t, err)
		assert.Equal(t, X, board[3])
	})

	t.Run("Rejects unsupported source types", func(t *testing.T) {
		var board Board

		err := board.Scan(42)

		require.Error(t, err)
	})

	t.Run("Value is the encoded board", func(t *testing.T) {
		v, err := Board{O}.Value()

		require.NoError(t, err)
		assert.Equal(t, "O--------", v)
	})
}

func TestSymbol_Label(t *testing.T) {
	assert.Equal(t, "EMPTY", Empty.Label())
	assert.Equal(t, "X", X.Label())
	assert.Equal(t, "O", O.Label())
}
