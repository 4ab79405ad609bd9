package game

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Symbol is the mark a participant plays with. Empty marks a free cell.
type Symbol string

const (
	Empty Symbol = ""
	X     Symbol = "X"
	O     Symbol = "O"
)

// emptyCell is how a free cell is written in the board column.
const emptyCell = '-'

// Label returns the public name of the symbol as used in API payloads.
func (s Symbol) Label() string {
	if s == Empty {
		return "EMPTY"
	}
	return string(s)
}

// Valid reports whether s is a playable mark.
func (s Symbol) Valid() bool {
	return s == X || s == O
}

// Board is the 3x3 grid in row-major order, index 0 is top-left.
type Board [9]Symbol

// Triples are the index combinations that win the game, scanned in this order.
var Triples = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Detect reports the symbol occupying the first complete triple. When no triple
// is complete and no cell is free, draw is true. Both zero values mean the game
// goes on.
func Detect(b Board) (winner Symbol, draw bool) {
	for _, t := range Triples {
		a := b[t[0]]
		if a != Empty && a == b[t[1]] && a == b[t[2]] {
			return a, false
		}
	}

	return Empty, b.Full()
}

// Full reports whether every cell is taken.
func (b Board) Full() bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}

// String encodes the board as nine characters: X, O or '-'.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, cell := range b {
		if cell == Empty {
			sb.WriteByte(emptyCell)
			continue
		}
		sb.WriteString(string(cell))
	}
	return sb.String()
}

// ParseBoard decodes the representation produced by String.
func ParseBoard(s string) (Board, error) {
	var b Board
	if len(s) != len(b) {
		return b, fmt.Errorf("board must have %d cells, got %d", len(b), len(s))
	}

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case emptyCell:
			b[i] = Empty
		case 'X':
			b[i] = X
		case 'O':
			b[i] = O
		default:
			return b, fmt.Errorf("invalid cell %q at index %d", s[i], i)
		}
	}

	return b, nil
}

// Value implements driver.Valuer so the board is stored as a single column.
func (b Board) Value() (driver.Value, error) {
	return b.String(), nil
}

// Scan implements sql.Scanner.
func (b *Board) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Board", src)
	}

	parsed, err := ParseBoard(raw)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
