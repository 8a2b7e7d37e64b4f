package wire

import (
	"testing"

	"driftboard/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStroke() board.Stroke {
	return board.Stroke{
		ID:    board.StrokeID{0x1122334455667788, 0x99aabbccddeeff00},
		Color: board.Color{R: 10, G: 20, B: 30, A: 255},
		Size:  4.5,
		Points: []board.Point{
			{X: 1.5, Y: -2.25},
			{X: 0, Y: 0},
		},
	}
}

func TestClientMessageRoundTrip(t *testing.T) {
	cases := []ClientMessage{
		{Tag: ClientStrokeStart, Stroke: sampleStroke()},
		{Tag: ClientStrokePoints, ID: sampleStroke().ID, Points: []board.Point{{X: 1, Y: 2}}},
		{Tag: ClientStrokeEnd, ID: sampleStroke().ID},
		{Tag: ClientErase, ID: sampleStroke().ID},
		{Tag: ClientRemove, IDs: []board.StrokeID{sampleStroke().ID}},
		{Tag: ClientTransformStart, IDs: []board.StrokeID{sampleStroke().ID}},
		{
			Tag: ClientTransformUpdate,
			IDs: []board.StrokeID{sampleStroke().ID},
			Op:  TransformOp{Kind: OpTranslate, DX: 3, DY: -4},
		},
		{Tag: ClientTransformEnd, IDs: []board.StrokeID{sampleStroke().ID}},
		{Tag: ClientClear},
		{Tag: ClientUndo},
		{Tag: ClientRedo},
		{Tag: ClientLoad, Strokes: []board.Stroke{sampleStroke()}},
		{Tag: ClientStrokeReplace, ReplaceStroke: sampleStroke()},
	}
	for _, in := range cases {
		buf := EncodeClient(in)
		out, err := DecodeClient(buf)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestServerMessageRoundTrip(t *testing.T) {
	cases := []ServerMessage{
		{Tag: ServerSync, Strokes: []board.Stroke{sampleStroke()}},
		{Tag: ServerStrokeStart, Stroke: sampleStroke()},
		{Tag: ServerStrokePoints, ID: sampleStroke().ID, Points: []board.Point{{X: 5, Y: 6}}},
		{Tag: ServerStrokeEnd, ID: sampleStroke().ID},
		{Tag: ServerStrokeRemove, ID: sampleStroke().ID},
		{Tag: ServerStrokeRestore, Stroke: sampleStroke()},
		{Tag: ServerStrokeReplace, Stroke: sampleStroke()},
		{
			Tag: ServerTransformUpdate,
			IDs: []board.StrokeID{sampleStroke().ID},
			Op:  TransformOp{Kind: OpScale, Anchor: board.Point{X: 1, Y: 1}, SX: 2, SY: 3},
		},
		{Tag: ServerClear},
	}
	for _, in := range cases {
		buf := EncodeServer(in)
		out, err := DecodeServer(buf)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestDecodeClientTruncated(t *testing.T) {
	buf := EncodeClient(ClientMessage{Tag: ClientStrokeStart, Stroke: sampleStroke()})
	_, err := DecodeClient(buf[:len(buf)-1])
	assert.Error(t, err)
}

func TestDecodeClientUnknownTag(t *testing.T) {
	_, err := DecodeClient([]byte{0xff})
	assert.ErrorIs(t, err, ErrUnknownTag)
}

func TestDecodeClientJSON(t *testing.T) {
	raw := []byte(`{"type":"clear"}`)
	m, err := DecodeClientJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, ClientClear, m.Tag)
}

func TestDecodeClientFrameDispatch(t *testing.T) {
	binMsg := ClientMessage{Tag: ClientUndo}
	out, err := DecodeClientFrame(false, EncodeClient(binMsg))
	require.NoError(t, err)
	assert.Equal(t, binMsg, out)

	out, err = DecodeClientFrame(true, []byte(`{"type":"undo"}`))
	require.NoError(t, err)
	assert.Equal(t, ClientUndo, out.Tag)
}

func TestEncodeServerJSON(t *testing.T) {
	raw, err := EncodeServerJSON(ServerMessage{Tag: ServerClear})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"clear"}`, string(raw))
}
