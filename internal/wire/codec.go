package wire

import "driftboard/internal/board"

// Binary layout for the domain types shared by every message. StrokeID
// is two raw uint64s (16 bytes, no varint) since it's opaque random
// data and varint-encoding it buys nothing.

func writeStrokeID(e *Encoder, id board.StrokeID) {
	e.WriteUint64(id[0])
	e.WriteUint64(id[1])
}

func readStrokeID(d *Decoder) (board.StrokeID, error) {
	hi, err := d.ReadUint64()
	if err != nil {
		return board.StrokeID{}, err
	}
	lo, err := d.ReadUint64()
	if err != nil {
		return board.StrokeID{}, err
	}
	return board.StrokeID{hi, lo}, nil
}

func writeColor(e *Encoder, c board.Color) {
	e.WriteByte(c.R)
	e.WriteByte(c.G)
	e.WriteByte(c.B)
	e.WriteByte(c.A)
}

func readColor(d *Decoder) (board.Color, error) {
	r, err := d.ReadByte()
	if err != nil {
		return board.Color{}, err
	}
	g, err := d.ReadByte()
	if err != nil {
		return board.Color{}, err
	}
	b, err := d.ReadByte()
	if err != nil {
		return board.Color{}, err
	}
	a, err := d.ReadByte()
	if err != nil {
		return board.Color{}, err
	}
	return board.Color{R: r, G: g, B: b, A: a}, nil
}

func writePoint(e *Encoder, p board.Point) {
	e.WriteFloat32(p.X)
	e.WriteFloat32(p.Y)
}

func readPoint(d *Decoder) (board.Point, error) {
	x, err := d.ReadFloat32()
	if err != nil {
		return board.Point{}, err
	}
	y, err := d.ReadFloat32()
	if err != nil {
		return board.Point{}, err
	}
	return board.Point{X: x, Y: y}, nil
}

func writePoints(e *Encoder, points []board.Point) {
	e.WriteUvarint(uint64(len(points)))
	for _, p := range points {
		writePoint(e, p)
	}
}

func readPoints(d *Decoder) ([]board.Point, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	points := make([]board.Point, n)
	for i := range points {
		p, err := readPoint(d)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}

func writeStroke(e *Encoder, s board.Stroke) {
	writeStrokeID(e, s.ID)
	writeColor(e, s.Color)
	e.WriteFloat32(s.Size)
	writePoints(e, s.Points)
}

func readStroke(d *Decoder) (board.Stroke, error) {
	id, err := readStrokeID(d)
	if err != nil {
		return board.Stroke{}, err
	}
	color, err := readColor(d)
	if err != nil {
		return board.Stroke{}, err
	}
	size, err := d.ReadFloat32()
	if err != nil {
		return board.Stroke{}, err
	}
	points, err := readPoints(d)
	if err != nil {
		return board.Stroke{}, err
	}
	return board.Stroke{ID: id, Color: color, Size: size, Points: points}, nil
}

func writeStrokes(e *Encoder, strokes []board.Stroke) {
	e.WriteUvarint(uint64(len(strokes)))
	for _, s := range strokes {
		writeStroke(e, s)
	}
}

func readStrokes(d *Decoder) ([]board.Stroke, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	strokes := make([]board.Stroke, n)
	for i := range strokes {
		s, err := readStroke(d)
		if err != nil {
			return nil, err
		}
		strokes[i] = s
	}
	return strokes, nil
}

// EncodeStrokes renders a bare stroke list with no tag byte — the
// format the persistence backend writes to disk (spec.md §7).
func EncodeStrokes(strokes []board.Stroke) []byte {
	e := NewEncoder()
	writeStrokes(e, strokes)
	return e.Bytes()
}

// DecodeStrokes parses a bare stroke list produced by EncodeStrokes.
func DecodeStrokes(buf []byte) ([]board.Stroke, error) {
	d := NewDecoder(buf)
	return readStrokes(d)
}

func writeIDs(e *Encoder, ids []board.StrokeID) {
	e.WriteUvarint(uint64(len(ids)))
	for _, id := range ids {
		writeStrokeID(e, id)
	}
}

func readIDs(d *Decoder) ([]board.StrokeID, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	ids := make([]board.StrokeID, n)
	for i := range ids {
		id, err := readStrokeID(d)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func writeTransformOp(e *Encoder, op TransformOp) {
	e.WriteByte(byte(op.Kind))
	switch op.Kind {
	case OpTranslate:
		e.WriteFloat64(op.DX)
		e.WriteFloat64(op.DY)
	case OpScale:
		writePoint(e, op.Anchor)
		e.WriteFloat64(op.SX)
		e.WriteFloat64(op.SY)
	case OpRotate:
		writePoint(e, op.Center)
		e.WriteFloat64(op.Delta)
	}
}

func readTransformOp(d *Decoder) (TransformOp, error) {
	kindByte, err := d.ReadByte()
	if err != nil {
		return TransformOp{}, err
	}
	kind := TransformOpKind(kindByte)
	switch kind {
	case OpTranslate:
		dx, err := d.ReadFloat64()
		if err != nil {
			return TransformOp{}, err
		}
		dy, err := d.ReadFloat64()
		if err != nil {
			return TransformOp{}, err
		}
		return TransformOp{Kind: kind, DX: dx, DY: dy}, nil
	case OpScale:
		anchor, err := readPoint(d)
		if err != nil {
			return TransformOp{}, err
		}
		sx, err := d.ReadFloat64()
		if err != nil {
			return TransformOp{}, err
		}
		sy, err := d.ReadFloat64()
		if err != nil {
			return TransformOp{}, err
		}
		return TransformOp{Kind: kind, Anchor: anchor, SX: sx, SY: sy}, nil
	case OpRotate:
		center, err := readPoint(d)
		if err != nil {
			return TransformOp{}, err
		}
		delta, err := d.ReadFloat64()
		if err != nil {
			return TransformOp{}, err
		}
		return TransformOp{Kind: kind, Center: center, Delta: delta}, nil
	default:
		return TransformOp{}, ErrUnknownTag
	}
}
