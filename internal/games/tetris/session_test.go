package tetris

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
)

func newTestSession(seed int64) *Session {
	return NewSession(DefaultDimensions(), rand.New(rand.NewSource(seed)))
}

func TestNewSessionSpawns(t *testing.T) {
	s := newTestSession(1)

	p := s.Piece()
	assert.Equal(t, core.Point{X: 4, Y: 19}, p.Anchor)
	assert.Equal(t, p.Shape.Offsets(), p.Offsets)
	assert.Zero(t, s.Score())
	assert.Zero(t, s.Pieces())
	assert.False(t, s.Over())
	assert.Zero(t, s.Grid().Filled())
}

func TestSessionMoveIgnoresNonPieceActions(t *testing.T) {
	s := newTestSession(1)
	before := s.Snapshot()

	for _, a := range []core.Action{core.ActionNone, core.ActionPause, core.ActionRestart, core.ActionQuit} {
		changed, blocked := s.Move(a)
		assert.False(t, changed, a.String())
		assert.False(t, blocked, a.String())
	}
	assert.Equal(t, before, s.Snapshot())
}

func TestSessionSoftDrop(t *testing.T) {
	s := newTestSession(1)
	s.piece = NewPiece(ShapeO, 4, 1)

	changed, blocked := s.Move(core.ActionSoftDrop)
	assert.True(t, changed)
	assert.False(t, blocked)
	assert.Equal(t, 0, s.Piece().Anchor.Y)

	changed, blocked = s.Move(core.ActionSoftDrop)
	assert.False(t, changed)
	assert.True(t, blocked)
	assert.Equal(t, 0, s.Piece().Anchor.Y)
}

func TestSessionFreezeWithoutClear(t *testing.T) {
	s := newTestSession(1)
	s.piece = NewPiece(ShapeT, 4, 0)

	res := s.Freeze()
	assert.Equal(t, FreezeResult{}, res)
	assert.Equal(t, 4, s.Grid().Filled())
	for _, c := range NewPiece(ShapeT, 4, 0).Cells() {
		assert.True(t, s.Grid().Occupied(c.X, c.Y))
	}
	assert.Equal(t, 1, s.Pieces())
	assert.Equal(t, core.Point{X: 4, Y: 19}, s.Piece().Anchor, "next piece spawned")
}

func TestSessionFreezeClearsAndScores(t *testing.T) {
	s := newTestSession(1)
	fillRow(s.grid, 0, 4, 5)
	fillRow(s.grid, 1, 4, 5)
	s.grid.Set(0, 2)
	s.piece = NewPiece(ShapeO, 4, 0)

	res := s.Freeze()
	assert.Equal(t, FreezeResult{Cleared: 2, HeightSum: 3, Points: 6}, res)
	assert.Equal(t, 6, s.Score())
	assert.Equal(t, 2, s.RowsCleared())
	assert.True(t, s.Grid().Occupied(0, 0), "row 2 compacted to row 0")
	assert.Equal(t, 1, s.Grid().Filled())
}

func TestSessionFreezeFourRows(t *testing.T) {
	s := newTestSession(1)
	for y := 0; y < 4; y++ {
		fillRow(s.grid, y, 9)
	}
	s.piece = NewPiece(ShapeI, 9, 1)

	res := s.Freeze()
	assert.Equal(t, 4, res.Cleared)
	assert.Equal(t, 10, res.HeightSum)
	assert.Equal(t, 160, res.Points)
	assert.Equal(t, 160, s.Score())
	assert.Zero(t, s.Grid().Filled())
}

func TestSessionOverflowEndsOnce(t *testing.T) {
	s := newTestSession(1)
	s.piece = NewPiece(ShapeI, 4, 19)

	res := s.Freeze()
	require.True(t, res.Overflow)
	assert.True(t, s.Over())
	assert.True(t, s.Grid().Occupied(4, 18))
	assert.True(t, s.Grid().Occupied(4, 19))
	assert.Equal(t, 2, s.Grid().Filled(), "cells above the top are not written")

	after := s.Snapshot()
	assert.True(t, after.GameOver)

	// Nothing moves once the game is over
	for _, a := range []core.Action{core.ActionMoveLeft, core.ActionMoveRight, core.ActionSoftDrop, core.ActionRotateCW, core.ActionRotateCCW} {
		changed, blocked := s.Move(a)
		assert.False(t, changed)
		assert.False(t, blocked)
	}
	assert.False(t, s.Gravity())
	assert.Equal(t, FreezeResult{}, s.Freeze())
	assert.Equal(t, after, s.Snapshot())
}

func TestSnapshotIsStable(t *testing.T) {
	s := newTestSession(7)
	s.grid.Set(3, 0)

	a := s.Snapshot()
	b := s.Snapshot()
	assert.Equal(t, a, b)

	a.Cells[0] = true
	assert.False(t, s.Grid().Occupied(0, 0), "snapshot must not alias the grid")
}

func TestSameSeedSamePieces(t *testing.T) {
	a := newTestSession(99)
	b := newTestSession(99)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Piece(), b.Piece(), "piece %d", i)
		// Row 1 keeps the I piece's (0,-1) cell on the board.
		a.piece = NewPiece(a.piece.Shape, 4, 1)
		b.piece = NewPiece(b.piece.Shape, 4, 1)
		a.Freeze()
		b.Freeze()
		a.grid = NewGrid(10, 20)
		b.grid = NewGrid(10, 20)
	}
}
