package tetris

import (
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Shape identifies one of the seven tetrominoes.
type Shape int

const (
	ShapeO Shape = iota
	ShapeI
	ShapeL
	ShapeJ
	ShapeS
	ShapeZ
	ShapeT

	shapeCount
)

// AllShapes lists every shape in spawn-table order.
var AllShapes = [shapeCount]Shape{ShapeO, ShapeI, ShapeL, ShapeJ, ShapeS, ShapeZ, ShapeT}

// shapeOffsets holds the three cells of each shape relative to its anchor.
// The anchor itself is the implicit fourth cell at (0,0).
var shapeOffsets = [shapeCount][3]core.Point{
	ShapeO: {{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}},
	ShapeI: {{X: 0, Y: -1}, {X: 0, Y: 1}, {X: 0, Y: 2}},
	ShapeL: {{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 0}},
	ShapeJ: {{X: 0, Y: 1}, {X: 0, Y: 2}, {X: -1, Y: 0}},
	ShapeS: {{X: -1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
	ShapeZ: {{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 0}},
	ShapeT: {{X: -1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}},
}

var shapeColors = [shapeCount]core.Color{
	ShapeO: core.ColorYellow,
	ShapeI: core.ColorCyan,
	ShapeL: core.ColorOrange,
	ShapeJ: core.ColorBlue,
	ShapeS: core.ColorGreen,
	ShapeZ: core.ColorRed,
	ShapeT: core.ColorMagenta,
}

// Offsets returns the spawn offsets of the shape.
func (s Shape) Offsets() [3]core.Point {
	return shapeOffsets[s]
}

// Color returns the render color of the shape.
func (s Shape) Color() core.Color {
	return shapeColors[s]
}

func (s Shape) String() string {
	switch s {
	case ShapeO:
		return "O"
	case ShapeI:
		return "I"
	case ShapeL:
		return "L"
	case ShapeJ:
		return "J"
	case ShapeS:
		return "S"
	case ShapeZ:
		return "Z"
	case ShapeT:
		return "T"
	default:
		return "?"
	}
}

// RandomShape picks a shape uniformly.
func RandomShape(rng *rand.Rand) Shape {
	return AllShapes[rng.Intn(int(shapeCount))]
}
