package tetris

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Visual characters for rendering
const (
	BlockRune = '█'
	EmptyRune = ' '
	CellWidth = 2 // Screen columns per board cell
)

// hudWidth is the space reserved right of the board.
const hudWidth = 16

// BoardLayout locates the board on a screen.
type BoardLayout struct {
	Box core.Rect // Border rectangle, interior starts at Box.X+1, Box.Y+1
	HUD core.Point
}

// Layout centers a w×h board with its HUD on a screen of the given size.
// Row 0 holds the title; the board box starts on row 2 when there is room.
func Layout(screenW, screenH, w, h int) BoardLayout {
	boxW := w*CellWidth + 2
	boxH := h + 2

	x := max(0, (screenW-boxW-hudWidth)/2)
	y := 2
	if screenH < boxH+y {
		y = max(0, screenH-boxH)
	}
	return BoardLayout{
		Box: core.NewRect(x, y, boxW, boxH),
		HUD: core.Point{X: x + boxW + 2, Y: y + 1},
	}
}

// CellOrigin returns the screen position of board cell (x, y).
func (l BoardLayout) CellOrigin(x, y, h int) core.Point {
	return core.Point{
		X: l.Box.X + 1 + x*CellWidth,
		Y: l.Box.Y + 1 + (h - 1 - y),
	}
}

// DrawFrame draws the title, the board, the live piece and the HUD.
func DrawFrame(dst *core.Screen, f Frame, variant string) BoardLayout {
	l := Layout(dst.Width(), dst.Height(), f.Width, f.Height)

	dst.DrawTextWithColor(l.Box.X, max(0, l.Box.Y-2), "TETRIS", core.ColorWhite)
	dst.DrawBox(l.Box)

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			o := l.CellOrigin(x, y, f.Height)
			switch {
			case f.HasPiece(x, y):
				drawBlock(dst, o, f.Shape.Color())
			case f.Occupied(x, y):
				drawBlock(dst, o, core.ColorGray)
			}
		}
	}

	hud := []string{
		fmt.Sprintf("Score:  %d", f.Score),
		fmt.Sprintf("Rows:   %d", f.RowsCleared),
		fmt.Sprintf("Pieces: %d", f.Pieces),
	}
	if variant != "" {
		hud = append(hud, "", variant)
	}
	for i, line := range hud {
		dst.DrawText(l.HUD.X, l.HUD.Y+i, line)
	}
	return l
}

func drawBlock(dst *core.Screen, o core.Point, c core.Color) {
	for i := 0; i < CellWidth; i++ {
		dst.SetWithColor(o.X+i, o.Y, BlockRune, c)
	}
}

// DrawMessage draws a boxed two-line message centered on the board.
func DrawMessage(dst *core.Screen, l BoardLayout, title, subtitle string) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := l.Box.X + (l.Box.W-boxW)/2
	boxY := l.Box.Y + (l.Box.H-boxH)/2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.FillRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}

// DeletedRowsText is the final summary line of a finished game.
func DeletedRowsText(rows int) string {
	return fmt.Sprintf("%d deleted rows!", rows)
}
