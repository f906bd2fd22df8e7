package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Rotation is the direction of a quarter turn about the anchor.
type Rotation int

const (
	Clockwise Rotation = iota
	CounterClockwise
)

func (r Rotation) String() string {
	if r == Clockwise {
		return "cw"
	}
	return "ccw"
}

// rotatedOffsets turns every offset a quarter turn.
func rotatedOffsets(offsets [3]core.Point, r Rotation) [3]core.Point {
	var out [3]core.Point
	for i, o := range offsets {
		if r == Clockwise {
			out[i] = o.RotateCW()
		} else {
			out[i] = o.RotateCCW()
		}
	}
	return out
}

// kick returns the single corrective translation for a rotated piece.
// Column overflow on both sides is summed and negated. Only the floor is
// corrected; cells pushed above the top stay there.
func kick(g *Grid, p Piece) (dx, dy int) {
	minX, maxX, minY, _ := p.Bounds()

	var left, right int
	if minX < 0 {
		left = minX
	}
	if maxX > g.Width()-1 {
		right = maxX - (g.Width() - 1)
	}
	dx = -(left + right)

	if minY < 0 {
		dy = -minY
	}
	return dx, dy
}

// Rotate builds the rotated and kicked candidate of p and returns it with
// true when all four cells are free. Otherwise p is returned unchanged.
func Rotate(g *Grid, p Piece, r Rotation) (Piece, bool) {
	candidate := p
	candidate.Offsets = rotatedOffsets(p.Offsets, r)

	dx, dy := kick(g, candidate)
	candidate = candidate.Translated(dx, dy)

	if !fits(g, candidate) {
		return p, false
	}
	return candidate, true
}
