// Package board holds the canonical whiteboard data model: strokes, the
// per-connection undo/redo history, and the transform brackets used to
// group multi-step drag gestures into one undoable action.
package board

import "math"

// StrokeID is an opaque 128-bit identifier, client-generated and globally
// unique with overwhelming probability. Equality is bitwise.
type StrokeID [2]uint64

// ConnectionID is an opaque per-connection identifier, server-generated on
// accept and unique for the lifetime of the server process.
type ConnectionID uint64

// Color is four 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// DefaultColor is a dark, fully opaque stroke color. The applier stores
// whatever color an inbound stroke carries and does not substitute this.
var DefaultColor = Color{R: 0x1f, G: 0x1f, B: 0x1f, A: 0xff}

// Point is a pair of world-space coordinates. The server never interprets
// these beyond storing and relaying them.
type Point struct {
	X, Y float32
}

// Stroke is an atomic drawing unit: a polyline with color and width.
// Points may be empty only while the stroke's id is in a session's
// active set (streaming); once finalized it must hold at least one point.
type Stroke struct {
	ID     StrokeID
	Color  Color
	Size   float32
	Points []Point
}

// Clone returns a deep copy, safe to retain across mutations of the
// original (history entries must hold independent snapshots).
func (s Stroke) Clone() Stroke {
	out := s
	out.Points = make([]Point, len(s.Points))
	copy(out.Points, s.Points)
	return out
}

// CloneStrokes deep-copies a slice of strokes.
func CloneStrokes(strokes []Stroke) []Stroke {
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = s.Clone()
	}
	return out
}

// MinStrokeSize and MaxStrokeSize bound the sanitized stroke width.
const (
	MinStrokeSize = 1.0
	MaxStrokeSize = 60.0
)

// MaxStrokes caps the number of strokes a session retains; overflow evicts
// the oldest (bottom of z-order) strokes first. MaxPointsPerStroke caps a
// single stroke's point count; further stroke:points appends are dropped
// once reached. Both are hardening limits carried over from the original
// implementation's sanitization pass (see DESIGN.md).
const (
	MaxStrokes         = 2000
	MaxPointsPerStroke = 5000
	MaxHistoryDepth    = 200
)

// SanitizeSize clamps a client-supplied stroke width into range,
// substituting a default for non-finite input.
func SanitizeSize(size float32) float32 {
	if math.IsNaN(float64(size)) || math.IsInf(float64(size), 0) {
		size = 6.0
	}
	if size < MinStrokeSize {
		return MinStrokeSize
	}
	if size > MaxStrokeSize {
		return MaxStrokeSize
	}
	return size
}
