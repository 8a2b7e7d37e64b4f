package wire

import "driftboard/internal/board"

// TransformOpKind tags the TransformOp variant.
type TransformOpKind uint8

const (
	OpTranslate TransformOpKind = 1
	OpScale     TransformOpKind = 2
	OpRotate    TransformOpKind = 3
)

// TransformOp is an opaque tagged variant describing a live transform
// gesture. The server treats it as pass-through broadcast payload; it
// never interprets the math (spec.md §4.1).
type TransformOp struct {
	Kind TransformOpKind

	// Translate
	DX, DY float64

	// Scale (uniform scale is just SX == SY)
	Anchor board.Point
	SX, SY float64

	// Rotate
	Center board.Point
	Delta  float64
}
