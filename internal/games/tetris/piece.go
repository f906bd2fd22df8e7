package tetris

import (
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Piece is the falling tetromino: an anchor cell plus three offsets.
// It is a value; movement and rotation build a candidate copy and the
// session commits it only when the candidate fits.
type Piece struct {
	Shape   Shape
	Anchor  core.Point
	Offsets [3]core.Point
}

// NewPiece creates a piece of the given shape in spawn orientation.
func NewPiece(s Shape, x, y int) Piece {
	return Piece{
		Shape:   s,
		Anchor:  core.Point{X: x, Y: y},
		Offsets: s.Offsets(),
	}
}

// Cells returns the absolute positions of all four cells, anchor first.
func (p Piece) Cells() [4]core.Point {
	return [4]core.Point{
		p.Anchor,
		p.Anchor.Add(p.Offsets[0]),
		p.Anchor.Add(p.Offsets[1]),
		p.Anchor.Add(p.Offsets[2]),
	}
}

// Translated returns a copy moved by (dx, dy).
func (p Piece) Translated(dx, dy int) Piece {
	p.Anchor = p.Anchor.Add(core.Point{X: dx, Y: dy})
	return p
}

// Bounds returns the extremal columns and rows over all four cells.
func (p Piece) Bounds() (minX, maxX, minY, maxY int) {
	cells := p.Cells()
	minX, maxX = cells[0].X, cells[0].X
	minY, maxY = cells[0].Y, cells[0].Y
	for _, c := range cells[1:] {
		minX = min(minX, c.X)
		maxX = max(maxX, c.X)
		minY = min(minY, c.Y)
		maxY = max(maxY, c.Y)
	}
	return minX, maxX, minY, maxY
}

// Covers reports whether one of the piece's cells is at (x, y).
func (p Piece) Covers(x, y int) bool {
	for _, c := range p.Cells() {
		if c.X == x && c.Y == y {
			return true
		}
	}
	return false
}

// Spawn creates a random piece anchored at the spawn point.
func Spawn(rng *rand.Rand, spawnX, height int) Piece {
	return NewPiece(RandomShape(rng), spawnX, height-1)
}
