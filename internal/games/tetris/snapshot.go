package tetris

import (
	"strings"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Frame is an immutable copy of what a render sink needs: the frozen
// cells, the live piece and the counters.
type Frame struct {
	Width       int
	Height      int
	Cells       []bool // Row-major, row 0 at the bottom
	Piece       [4]core.Point
	Shape       Shape
	Score       int
	RowsCleared int
	Pieces      int
	GameOver    bool
}

// Occupied reports whether a frozen cell is at (x, y).
// Coordinates outside the board report false.
func (f Frame) Occupied(x, y int) bool {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return false
	}
	return f.Cells[y*f.Width+x]
}

// HasPiece reports whether the live piece covers (x, y).
func (f Frame) HasPiece(x, y int) bool {
	for _, c := range f.Piece {
		if c.X == x && c.Y == y {
			return true
		}
	}
	return false
}

// String draws the board as text, top row first: '#' frozen, '@' live
// piece, '.' empty.
func (f Frame) String() string {
	var b strings.Builder
	for y := f.Height - 1; y >= 0; y-- {
		for x := 0; x < f.Width; x++ {
			switch {
			case f.HasPiece(x, y):
				b.WriteByte('@')
			case f.Occupied(x, y):
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
