package wire

import "driftboard/internal/board"

// EncodeClient renders a ClientMessage into its canonical binary form.
// Only used by tests and by debug tooling; real clients send the wire
// format directly.
func EncodeClient(m ClientMessage) []byte {
	e := NewEncoder()
	e.WriteByte(byte(m.Tag))
	switch m.Tag {
	case ClientStrokeStart:
		writeStroke(e, m.Stroke)
	case ClientStrokePoints:
		writeStrokeID(e, m.ID)
		writePoints(e, m.Points)
	case ClientStrokeEnd:
		writeStrokeID(e, m.ID)
	case ClientErase:
		writeStrokeID(e, m.ID)
	case ClientRemove:
		writeIDs(e, m.IDs)
	case ClientTransformStart:
		writeIDs(e, m.IDs)
	case ClientTransformUpdate:
		writeIDs(e, m.IDs)
		writeTransformOp(e, m.Op)
	case ClientTransformEnd:
		writeIDs(e, m.IDs)
	case ClientClear:
		// no payload
	case ClientUndo:
		// no payload
	case ClientRedo:
		// no payload
	case ClientLoad:
		writeStrokes(e, m.Strokes)
	case ClientStrokeReplace:
		writeStroke(e, m.ReplaceStroke)
	}
	return e.Bytes()
}

// DecodeClient parses a binary client frame. Callers per spec.md §7 log
// and drop frames that fail to decode; they never tear down the
// connection for a malformed frame.
func DecodeClient(buf []byte) (ClientMessage, error) {
	d := NewDecoder(buf)
	tagByte, err := d.ReadByte()
	if err != nil {
		return ClientMessage{}, err
	}
	tag := ClientTag(tagByte)
	m := ClientMessage{Tag: tag}
	switch tag {
	case ClientStrokeStart:
		s, err := readStroke(d)
		if err != nil {
			return ClientMessage{}, err
		}
		m.Stroke = s
	case ClientStrokePoints:
		id, err := readStrokeID(d)
		if err != nil {
			return ClientMessage{}, err
		}
		points, err := readPoints(d)
		if err != nil {
			return ClientMessage{}, err
		}
		m.ID, m.Points = id, points
	case ClientStrokeEnd, ClientErase:
		id, err := readStrokeID(d)
		if err != nil {
			return ClientMessage{}, err
		}
		m.ID = id
	case ClientRemove, ClientTransformStart, ClientTransformEnd:
		ids, err := readIDs(d)
		if err != nil {
			return ClientMessage{}, err
		}
		m.IDs = ids
	case ClientTransformUpdate:
		ids, err := readIDs(d)
		if err != nil {
			return ClientMessage{}, err
		}
		op, err := readTransformOp(d)
		if err != nil {
			return ClientMessage{}, err
		}
		m.IDs, m.Op = ids, op
	case ClientClear, ClientUndo, ClientRedo:
		// no payload
	case ClientLoad:
		strokes, err := readStrokes(d)
		if err != nil {
			return ClientMessage{}, err
		}
		m.Strokes = strokes
	case ClientStrokeReplace:
		s, err := readStroke(d)
		if err != nil {
			return ClientMessage{}, err
		}
		m.ReplaceStroke = s
	default:
		return ClientMessage{}, ErrUnknownTag
	}
	return m, nil
}

// jsonClientEnvelope is the debug JSON shape: {"type": "...", ...fields}.
// Field names match the binary semantics, not the wire-contract names,
// since this path exists for humans poking at a session over curl/wscat.
type jsonClientEnvelope struct {
	Type          string           `json:"type"`
	Stroke        *board.Stroke    `json:"stroke,omitempty"`
	ID            *board.StrokeID  `json:"id,omitempty"`
	Points        []board.Point    `json:"points,omitempty"`
	IDs           []board.StrokeID `json:"ids,omitempty"`
	Op            *TransformOp     `json:"op,omitempty"`
	Strokes       []board.Stroke   `json:"strokes,omitempty"`
	ReplaceStroke *board.Stroke    `json:"replaceStroke,omitempty"`
}
