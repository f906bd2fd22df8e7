package tetris

// cellFree reports whether a piece cell may sit at (x, y).
// Columns outside the board and rows below the floor are never free.
// Rows at or above the top exist only while a fresh piece enters the board
// and count as empty.
func cellFree(g *Grid, x, y int) bool {
	if x < 0 || x >= g.Width() || y < 0 {
		return false
	}
	if y >= g.Height() {
		return true
	}
	return !g.Occupied(x, y)
}

// fits reports whether every cell of p is free.
func fits(g *Grid, p Piece) bool {
	for _, c := range p.Cells() {
		if !cellFree(g, c.X, c.Y) {
			return false
		}
	}
	return true
}

// MoveLateral tries to shift p one column. dx must be -1 or +1.
// Returns the moved piece and true, or p unchanged and false.
func MoveLateral(g *Grid, p Piece, dx int) (Piece, bool) {
	minX, maxX, _, _ := p.Bounds()
	if dx < 0 && minX == 0 {
		return p, false
	}
	if dx > 0 && maxX == g.Width()-1 {
		return p, false
	}

	candidate := p.Translated(dx, 0)
	if !fits(g, candidate) {
		return p, false
	}
	return candidate, true
}

// Fall applies one gravity step. blocked is true when the lowest cell is on
// row 0 or any cell directly below p is occupied; p is then returned as is.
func Fall(g *Grid, p Piece) (next Piece, blocked bool) {
	if Resting(g, p) {
		return p, true
	}
	return p.Translated(0, -1), false
}

// Resting reports whether gravity would block p without moving it.
func Resting(g *Grid, p Piece) bool {
	_, _, minY, _ := p.Bounds()
	if minY == 0 {
		return true
	}
	return !fits(g, p.Translated(0, -1))
}
