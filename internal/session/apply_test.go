package session

import (
	"testing"

	"driftboard/internal/board"
	"driftboard/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(b byte) board.StrokeID {
	return board.StrokeID{uint64(b), uint64(b) << 8}
}

func strokeWith(sid board.StrokeID, points ...board.Point) board.Stroke {
	return board.Stroke{ID: sid, Color: board.DefaultColor, Size: 4, Points: points}
}

type fakePeer struct {
	received []wire.ServerMessage
	full     bool
}

func (p *fakePeer) Enqueue(m wire.ServerMessage) bool {
	if p.full {
		return false
	}
	p.received = append(p.received, m)
	return true
}

func TestConcurrentStrokeProducesBothStrokes(t *testing.T) {
	s := New("t", nil)
	a, b := board.ConnectionID(1), board.ConnectionID(2)
	s.Attach(a, &fakePeer{})
	s.Attach(b, &fakePeer{})

	sA, sB := id(1), id(2)
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeStart, Stroke: strokeWith(sA)})
	s.Handle(b, wire.ClientMessage{Tag: wire.ClientStrokeStart, Stroke: strokeWith(sB)})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokePoints, ID: sA, Points: []board.Point{{X: 1, Y: 1}}})
	s.Handle(b, wire.ClientMessage{Tag: wire.ClientStrokePoints, ID: sB, Points: []board.Point{{X: 2, Y: 2}}})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeEnd, ID: sA})
	s.Handle(b, wire.ClientMessage{Tag: wire.ClientStrokeEnd, ID: sB})

	final := s.Snapshot()
	require.Len(t, final, 2)
	ids := []board.StrokeID{final[0].ID, final[1].ID}
	assert.ElementsMatch(t, []board.StrokeID{sA, sB}, ids)
}

func TestUndoIsolationAcrossConnections(t *testing.T) {
	s := New("t", nil)
	a, b := board.ConnectionID(1), board.ConnectionID(2)
	s.Attach(a, &fakePeer{})
	s.Attach(b, &fakePeer{})

	s1 := id(1)
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeStart, Stroke: strokeWith(s1)})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokePoints, ID: s1, Points: []board.Point{{X: 1, Y: 1}}})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeEnd, ID: s1})

	s.Handle(b, wire.ClientMessage{Tag: wire.ClientUndo})
	assert.Len(t, s.Snapshot(), 1, "B's undo must not touch A's stroke")

	s.Handle(a, wire.ClientMessage{Tag: wire.ClientUndo})
	assert.Len(t, s.Snapshot(), 0, "A's undo removes its own stroke")
}

func TestTransformUpdateOnlyBracketBroadcastsJustPreview(t *testing.T) {
	s := New("t", nil)
	a := board.ConnectionID(1)
	peerB := &fakePeer{}
	s.Attach(a, &fakePeer{})
	s.Attach(2, peerB)

	s1 := id(1)
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeStart, Stroke: strokeWith(s1, board.Point{X: 0, Y: 0})})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeEnd, ID: s1})
	peerB.received = nil

	s.Handle(a, wire.ClientMessage{Tag: wire.ClientTransformStart, IDs: []board.StrokeID{s1}})
	for i := 0; i < 3; i++ {
		s.Handle(a, wire.ClientMessage{
			Tag: wire.ClientTransformUpdate,
			IDs: []board.StrokeID{s1},
			Op:  wire.TransformOp{Kind: wire.OpTranslate, DX: 1, DY: 1},
		})
	}
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientTransformEnd, IDs: []board.StrokeID{s1}})

	require.Len(t, peerB.received, 3, "B sees exactly the three preview frames and nothing else")
	for _, m := range peerB.received {
		assert.Equal(t, wire.ServerTransformUpdate, m.Tag)
	}
}

func TestTransformGroupWithReplaceProducesOneUndoEntry(t *testing.T) {
	s := New("t", nil)
	a := board.ConnectionID(1)
	s.Attach(a, &fakePeer{})

	s1 := id(1)
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeStart, Stroke: strokeWith(s1, board.Point{X: 0, Y: 0})})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeEnd, ID: s1})

	s.Handle(a, wire.ClientMessage{Tag: wire.ClientTransformStart, IDs: []board.StrokeID{s1}})
	moved := strokeWith(s1, board.Point{X: 3, Y: 3})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeReplace, ReplaceStroke: moved})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientTransformEnd, IDs: []board.StrokeID{s1}})

	h := s.history(a)
	require.Len(t, h.Undo, 2, "AddStroke from stroke:end plus one Transform; the mid-bracket replace must not push its own entry")
	assert.Equal(t, board.ActionTransform, h.Undo[1].Kind)

	s.Handle(a, wire.ClientMessage{Tag: wire.ClientUndo})
	got := s.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, board.Point{X: 0, Y: 0}, got[0].Points[0])
}

func TestClearThenUndoRestoresZOrder(t *testing.T) {
	s := New("t", nil)
	a := board.ConnectionID(1)
	s.Attach(a, &fakePeer{})

	ids3 := []board.StrokeID{id(1), id(2), id(3)}
	for _, sid := range ids3 {
		s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeStart, Stroke: strokeWith(sid, board.Point{X: 0, Y: 0})})
		s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeEnd, ID: sid})
	}
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientClear})
	assert.Empty(t, s.Snapshot())

	s.Handle(a, wire.ClientMessage{Tag: wire.ClientUndo})
	got := s.Snapshot()
	require.Len(t, got, 3)
	for i, sid := range ids3 {
		assert.Equal(t, sid, got[i].ID)
	}
}

func TestLoadReplacesStateForEveryone(t *testing.T) {
	s := New("t", nil)
	a, b := board.ConnectionID(1), board.ConnectionID(2)
	peerA, peerB := &fakePeer{}, &fakePeer{}
	s.Attach(a, peerA)
	s.Attach(b, peerB)

	s1 := id(1)
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeStart, Stroke: strokeWith(s1, board.Point{X: 0, Y: 0})})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeEnd, ID: s1})
	peerA.received, peerB.received = nil, nil

	s2, s3 := id(2), id(3)
	loaded := []board.Stroke{strokeWith(s2, board.Point{X: 1, Y: 1}), strokeWith(s3, board.Point{X: 2, Y: 2})}
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientLoad, Strokes: loaded})

	require.Len(t, peerA.received, 1)
	require.Len(t, peerB.received, 1)
	assert.Equal(t, wire.ServerSync, peerA.received[0].Tag)
	assert.Equal(t, wire.ServerSync, peerB.received[0].Tag)
	assert.Len(t, s.history(a).Undo, 0)
}

func TestStrokePointsRejectedForUnknownID(t *testing.T) {
	s := New("t", nil)
	a := board.ConnectionID(1)
	s.Attach(a, &fakePeer{})
	msgs, toAll := s.apply(a, wire.ClientMessage{Tag: wire.ClientStrokePoints, ID: id(9), Points: []board.Point{{X: 1, Y: 1}}})
	assert.Nil(t, msgs)
	assert.False(t, toAll)
	assert.Empty(t, s.Snapshot())
}

func TestTransformSessionAbsentAfterEnd(t *testing.T) {
	s := New("t", nil)
	a := board.ConnectionID(1)
	s.Attach(a, &fakePeer{})
	s1 := id(1)
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeStart, Stroke: strokeWith(s1, board.Point{X: 0, Y: 0})})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientStrokeEnd, ID: s1})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientTransformStart, IDs: []board.StrokeID{s1}})
	s.Handle(a, wire.ClientMessage{Tag: wire.ClientTransformEnd, IDs: []board.StrokeID{s1}})
	_, ok := s.transforms[a]
	assert.False(t, ok)
}
