package wire

import "driftboard/internal/board"

// EncodeServer renders a ServerMessage into its canonical binary form.
// Every outbound frame on the wire goes through this path (spec.md
// §4.1: server→client is always binary, never JSON).
func EncodeServer(m ServerMessage) []byte {
	e := NewEncoder()
	e.WriteByte(byte(m.Tag))
	switch m.Tag {
	case ServerSync:
		writeStrokes(e, m.Strokes)
	case ServerStrokeStart, ServerStrokeRestore, ServerStrokeReplace:
		writeStroke(e, m.Stroke)
	case ServerStrokePoints:
		writeStrokeID(e, m.ID)
		writePoints(e, m.Points)
	case ServerStrokeEnd, ServerStrokeRemove:
		writeStrokeID(e, m.ID)
	case ServerTransformUpdate:
		writeIDs(e, m.IDs)
		writeTransformOp(e, m.Op)
	case ServerClear:
		// no payload
	}
	return e.Bytes()
}

// DecodeServer parses a binary server frame. Servers never receive
// these in production; this exists for tests and for any client-side
// tooling built against the same package.
func DecodeServer(buf []byte) (ServerMessage, error) {
	d := NewDecoder(buf)
	tagByte, err := d.ReadByte()
	if err != nil {
		return ServerMessage{}, err
	}
	tag := ServerTag(tagByte)
	m := ServerMessage{Tag: tag}
	switch tag {
	case ServerSync:
		strokes, err := readStrokes(d)
		if err != nil {
			return ServerMessage{}, err
		}
		m.Strokes = strokes
	case ServerStrokeStart, ServerStrokeRestore, ServerStrokeReplace:
		s, err := readStroke(d)
		if err != nil {
			return ServerMessage{}, err
		}
		m.Stroke = s
	case ServerStrokePoints:
		id, err := readStrokeID(d)
		if err != nil {
			return ServerMessage{}, err
		}
		points, err := readPoints(d)
		if err != nil {
			return ServerMessage{}, err
		}
		m.ID, m.Points = id, points
	case ServerStrokeEnd, ServerStrokeRemove:
		id, err := readStrokeID(d)
		if err != nil {
			return ServerMessage{}, err
		}
		m.ID = id
	case ServerTransformUpdate:
		ids, err := readIDs(d)
		if err != nil {
			return ServerMessage{}, err
		}
		op, err := readTransformOp(d)
		if err != nil {
			return ServerMessage{}, err
		}
		m.IDs, m.Op = ids, op
	case ServerClear:
		// no payload
	default:
		return ServerMessage{}, ErrUnknownTag
	}
	return m, nil
}

type jsonServerEnvelope struct {
	Type    string           `json:"type"`
	Strokes []board.Stroke   `json:"strokes,omitempty"`
	Stroke  *board.Stroke    `json:"stroke,omitempty"`
	ID      *board.StrokeID  `json:"id,omitempty"`
	Points  []board.Point    `json:"points,omitempty"`
	IDs     []board.StrokeID `json:"ids,omitempty"`
	Op      *TransformOp     `json:"op,omitempty"`
}
