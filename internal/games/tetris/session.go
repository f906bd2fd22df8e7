package tetris

import (
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Dimensions describes the board and the spawn column.
type Dimensions struct {
	Width  int
	Height int
	SpawnX int
}

// DefaultDimensions returns the classic 10x20 board spawning at column 4.
func DefaultDimensions() Dimensions {
	return Dimensions{Width: 10, Height: 20, SpawnX: 4}
}

// FreezeResult describes one freeze transition.
type FreezeResult struct {
	Cleared   int  // Rows removed
	HeightSum int  // Sum of (row+1) over removed rows, pre-compaction
	Points    int  // Score added
	Overflow  bool // A frozen cell landed at or above the top row
}

// Session owns the grid, the live piece and the counters of one game.
// It is driven by a single Loop and is not safe for concurrent use.
type Session struct {
	dims        Dimensions
	grid        *Grid
	piece       Piece
	rng         *rand.Rand
	score       int
	rowsCleared int
	pieces      int // Pieces frozen so far
	over        bool
}

// NewSession creates an empty board and spawns the first piece from rng.
func NewSession(dims Dimensions, rng *rand.Rand) *Session {
	s := &Session{
		dims: dims,
		grid: NewGrid(dims.Width, dims.Height),
		rng:  rng,
	}
	s.piece = Spawn(rng, dims.SpawnX, dims.Height)
	return s
}

// Dimensions returns the board dimensions.
func (s *Session) Dimensions() Dimensions { return s.dims }

// Grid returns the live grid.
func (s *Session) Grid() *Grid { return s.grid }

// Piece returns the live piece.
func (s *Session) Piece() Piece { return s.piece }

// Score returns the accumulated score.
func (s *Session) Score() int { return s.score }

// RowsCleared returns the total number of rows removed.
func (s *Session) RowsCleared() int { return s.rowsCleared }

// Pieces returns the number of pieces frozen.
func (s *Session) Pieces() int { return s.pieces }

// Over reports whether the board overflowed.
func (s *Session) Over() bool { return s.over }

// Move applies one piece-control action.
// changed is true when the live piece moved or turned. blocked is only
// meaningful for ActionSoftDrop and carries the gravity result.
// Other actions, and every action after game over, are no-ops.
func (s *Session) Move(a core.Action) (changed, blocked bool) {
	if s.over {
		return false, false
	}

	var next Piece
	switch a {
	case core.ActionMoveLeft:
		next, changed = MoveLateral(s.grid, s.piece, -1)
	case core.ActionMoveRight:
		next, changed = MoveLateral(s.grid, s.piece, 1)
	case core.ActionSoftDrop:
		next, blocked = Fall(s.grid, s.piece)
		changed = !blocked
	case core.ActionRotateCW:
		next, changed = Rotate(s.grid, s.piece, Clockwise)
	case core.ActionRotateCCW:
		next, changed = Rotate(s.grid, s.piece, CounterClockwise)
	default:
		return false, false
	}

	if changed {
		s.piece = next
	}
	return changed, blocked
}

// Gravity moves the live piece down one row and reports whether it was
// blocked instead.
func (s *Session) Gravity() (blocked bool) {
	if s.over {
		return false
	}
	s.piece, blocked = Fall(s.grid, s.piece)
	return blocked
}

// Resting reports whether the live piece cannot fall further.
func (s *Session) Resting() bool {
	return Resting(s.grid, s.piece)
}

// Freeze writes the live piece into the grid, clears full rows, scores
// them and spawns the next piece.
// Cells above the top are not written; landing one there ends the game.
func (s *Session) Freeze() FreezeResult {
	if s.over {
		return FreezeResult{}
	}

	var res FreezeResult
	for _, c := range s.piece.Cells() {
		if c.Y >= s.grid.Height() {
			res.Overflow = true
			continue
		}
		s.grid.Set(c.X, c.Y)
	}
	s.pieces++
	if res.Overflow {
		s.over = true
	}

	res.Cleared, res.HeightSum = s.grid.ClearFullRows()
	res.Points = Points(res.Cleared, res.HeightSum)
	s.score += res.Points
	s.rowsCleared += res.Cleared

	s.piece = Spawn(s.rng, s.dims.SpawnX, s.dims.Height)
	return res
}

// Snapshot captures the visible state.
func (s *Session) Snapshot() Frame {
	return Frame{
		Width:       s.grid.Width(),
		Height:      s.grid.Height(),
		Cells:       s.grid.Cells(),
		Piece:       s.piece.Cells(),
		Shape:       s.piece.Shape,
		Score:       s.score,
		RowsCleared: s.rowsCleared,
		Pieces:      s.pieces,
		GameOver:    s.over,
	}
}
