package wire

import "encoding/json"

// DecodeClientJSON parses the debug JSON fallback accepted on
// WebSocket text frames (spec.md §4.1). Binary frames are the
// canonical path; this exists so a human can drive a session with
// curl/wscat without a binary client.
func DecodeClientJSON(raw []byte) (ClientMessage, error) {
	var env jsonClientEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ClientMessage{}, err
	}
	tag, ok := clientNameTags[env.Type]
	if !ok {
		return ClientMessage{}, ErrUnknownTag
	}
	m := ClientMessage{Tag: tag}
	if env.Stroke != nil {
		m.Stroke = *env.Stroke
	}
	if env.ID != nil {
		m.ID = *env.ID
	}
	m.Points = env.Points
	m.IDs = env.IDs
	if env.Op != nil {
		m.Op = *env.Op
	}
	m.Strokes = env.Strokes
	if env.ReplaceStroke != nil {
		m.ReplaceStroke = *env.ReplaceStroke
	}
	return m, nil
}

// EncodeServerJSON renders the debug JSON form of a ServerMessage. The
// server itself never sends it: the WebSocket path always sends binary.
func EncodeServerJSON(m ServerMessage) ([]byte, error) {
	env := jsonServerEnvelope{Type: serverTagNames[m.Tag]}
	switch m.Tag {
	case ServerSync:
		env.Strokes = m.Strokes
	case ServerStrokeStart, ServerStrokeRestore, ServerStrokeReplace:
		env.Stroke = &m.Stroke
	case ServerStrokePoints:
		env.ID = &m.ID
		env.Points = m.Points
	case ServerStrokeEnd, ServerStrokeRemove:
		env.ID = &m.ID
	case ServerTransformUpdate:
		env.IDs = m.IDs
		env.Op = &m.Op
	}
	return json.Marshal(env)
}
