package tetris

import "fmt"

// Grid is the playfield: W×H occupancy flags stored row-major with row 0 at
// the bottom. Index of (x, y) is y*W + x.
type Grid struct {
	w, h  int
	cells []bool
}

// NewGrid creates an empty grid.
func NewGrid(w, h int) *Grid {
	return &Grid{w: w, h: h, cells: make([]bool, w*h)}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// InBounds reports whether (x, y) is a stored cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// index converts a coordinate to a storage offset.
// Out-of-range coordinates mean the caller's offset math is broken.
func (g *Grid) index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("tetris: cell (%d,%d) outside %dx%d grid", x, y, g.w, g.h))
	}
	return y*g.w + x
}

// Occupied reports whether an in-range cell is filled.
func (g *Grid) Occupied(x, y int) bool {
	return g.cells[g.index(x, y)]
}

// Set marks an in-range cell as filled.
func (g *Grid) Set(x, y int) {
	g.cells[g.index(x, y)] = true
}

// RowFull reports whether every cell of row y is filled.
func (g *Grid) RowFull(y int) bool {
	row := g.cells[g.index(0, y) : g.index(0, y)+g.w]
	for _, c := range row {
		if !c {
			return false
		}
	}
	return true
}

// ClearFullRows removes every full row, compacts the remaining rows down
// and refills the top with empty rows.
// heightSum adds (y+1) for each cleared row using its index before compaction.
func (g *Grid) ClearFullRows() (cleared, heightSum int) {
	next := make([]bool, len(g.cells))

	for y := 0; y < g.h; y++ {
		if g.RowFull(y) {
			cleared++
			heightSum += y + 1
			continue
		}
		dst := (y - cleared) * g.w
		copy(next[dst:dst+g.w], g.cells[y*g.w:(y+1)*g.w])
	}

	if cleared == 0 {
		return 0, 0
	}

	// Rows H-cleared..H-1 of next were never written and are already empty
	g.cells = next
	return cleared, heightSum
}

// Filled returns the number of occupied cells.
func (g *Grid) Filled() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{w: g.w, h: g.h, cells: make([]bool, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Cells returns a copy of the raw row-major storage.
func (g *Grid) Cells() []bool {
	out := make([]bool, len(g.cells))
	copy(out, g.cells)
	return out
}

// Rows returns a copy of the grid as rows, bottom row first.
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.h)
	for y := range rows {
		rows[y] = make([]bool, g.w)
		copy(rows[y], g.cells[y*g.w:(y+1)*g.w])
	}
	return rows
}
