package session

import (
	"math"

	"driftboard/internal/board"
	"driftboard/internal/wire"
)

// maxUndoRetries bounds the no-op-skipping retry loop in undo/redo so a
// pathological history (every entry referencing since-vanished strokes)
// can't spin forever; spec.md §4.3 caps it "at stack depth".
const maxUndoRetries = board.MaxHistoryDepth

// apply runs one client message against canonical state. Callers must
// hold s.mu. It returns the frames to broadcast and whether the sender
// itself should receive them.
func (s *Session) apply(sender board.ConnectionID, msg wire.ClientMessage) ([]wire.ServerMessage, bool) {
	switch msg.Tag {
	case wire.ClientStrokeStart:
		return s.applyStrokeStart(sender, msg.Stroke)
	case wire.ClientStrokePoints:
		return s.applyStrokePoints(sender, msg.ID, msg.Points)
	case wire.ClientStrokeEnd:
		return s.applyStrokeEnd(sender, msg.ID)
	case wire.ClientErase:
		return s.applyErase(sender, msg.ID)
	case wire.ClientRemove:
		return s.applyRemove(sender, msg.IDs)
	case wire.ClientTransformStart:
		return s.applyTransformStart(sender, msg.IDs)
	case wire.ClientTransformUpdate:
		return s.applyTransformUpdate(sender, msg.IDs, msg.Op)
	case wire.ClientTransformEnd:
		return s.applyTransformEnd(sender, msg.IDs)
	case wire.ClientClear:
		return s.applyClear(sender)
	case wire.ClientUndo:
		return s.applyUndo(sender)
	case wire.ClientRedo:
		return s.applyRedo(sender)
	case wire.ClientLoad:
		return s.applyLoad(msg.Strokes)
	case wire.ClientStrokeReplace:
		return s.applyStrokeReplace(sender, msg.ReplaceStroke)
	default:
		return nil, false
	}
}

func normalizePoint(p board.Point) (board.Point, bool) {
	if math.IsNaN(float64(p.X)) || math.IsInf(float64(p.X), 0) ||
		math.IsNaN(float64(p.Y)) || math.IsInf(float64(p.Y), 0) {
		return board.Point{}, false
	}
	return p, true
}

func normalizePoints(points []board.Point) []board.Point {
	out := make([]board.Point, 0, len(points))
	for _, p := range points {
		if n, ok := normalizePoint(p); ok {
			out = append(out, n)
		}
	}
	return out
}

func (s *Session) findStroke(id board.StrokeID) int {
	for i := range s.strokes {
		if s.strokes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) history(connID board.ConnectionID) *board.ClientHistory {
	h, ok := s.histories[connID]
	if !ok {
		h = &board.ClientHistory{}
		s.histories[connID] = h
	}
	return h
}

// evictOverflow drops the oldest strokes once MaxStrokes is exceeded,
// cleaning up active_ids/owners for whatever it evicts (spec.md §3
// supplement: FIFO, z-order bottom first).
func (s *Session) evictOverflow() {
	overflow := len(s.strokes) - board.MaxStrokes
	if overflow <= 0 {
		return
	}
	for _, st := range s.strokes[:overflow] {
		delete(s.activeIDs, st.ID)
		delete(s.owners, st.ID)
	}
	s.strokes = s.strokes[overflow:]
}

func (s *Session) applyStrokeStart(sender board.ConnectionID, in board.Stroke) ([]wire.ServerMessage, bool) {
	if s.findStroke(in.ID) != -1 || s.activeIDs[in.ID] {
		return nil, false
	}
	point, hasPoint := board.Point{}, false
	if len(in.Points) > 0 {
		point, hasPoint = normalizePoint(in.Points[0])
	}
	stroke := board.Stroke{
		ID:    in.ID,
		Color: in.Color,
		Size:  board.SanitizeSize(in.Size),
	}
	if hasPoint {
		stroke.Points = []board.Point{point}
	}

	s.strokes = append(s.strokes, stroke)
	s.evictOverflow()
	s.activeIDs[in.ID] = true
	s.owners[in.ID] = sender
	s.markDirty()

	return []wire.ServerMessage{{Tag: wire.ServerStrokeStart, Stroke: stroke.Clone()}}, false
}

func (s *Session) applyStrokePoints(sender board.ConnectionID, id board.StrokeID, points []board.Point) ([]wire.ServerMessage, bool) {
	if !s.activeIDs[id] {
		return nil, false
	}
	idx := s.findStroke(id)
	if idx == -1 {
		return nil, false
	}
	clean := normalizePoints(points)
	room := board.MaxPointsPerStroke - len(s.strokes[idx].Points)
	if room <= 0 {
		return nil, false
	}
	if len(clean) > room {
		clean = clean[:room]
	}
	if len(clean) == 0 {
		return nil, false
	}
	s.strokes[idx].Points = append(s.strokes[idx].Points, clean...)
	s.markDirty()

	return []wire.ServerMessage{{Tag: wire.ServerStrokePoints, ID: id, Points: clean}}, false
}

func (s *Session) applyStrokeEnd(sender board.ConnectionID, id board.StrokeID) ([]wire.ServerMessage, bool) {
	if !s.activeIDs[id] {
		return nil, false
	}
	delete(s.activeIDs, id)
	idx := s.findStroke(id)
	if idx == -1 {
		return []wire.ServerMessage{{Tag: wire.ServerStrokeEnd, ID: id}}, false
	}
	stroke := s.strokes[idx]
	if len(stroke.Points) == 0 {
		s.strokes = append(s.strokes[:idx], s.strokes[idx+1:]...)
		delete(s.owners, id)
		s.markDirty()
		return []wire.ServerMessage{{Tag: wire.ServerStrokeEnd, ID: id}}, false
	}
	if owner, ok := s.owners[id]; ok {
		h := s.history(owner)
		h.PushUndo(board.Action{Kind: board.ActionAddStroke, Added: stroke.Clone()})
		h.ClearRedo()
	}
	return []wire.ServerMessage{{Tag: wire.ServerStrokeEnd, ID: id}}, false
}

func (s *Session) applyErase(sender board.ConnectionID, id board.StrokeID) ([]wire.ServerMessage, bool) {
	idx := s.findStroke(id)
	if idx == -1 {
		return nil, false
	}
	removed := s.strokes[idx]
	s.strokes = append(s.strokes[:idx], s.strokes[idx+1:]...)
	delete(s.activeIDs, id)
	delete(s.owners, id)
	s.markDirty()

	h := s.history(sender)
	h.PushUndo(board.Action{Kind: board.ActionRemoveStrokes, Removed: []board.Stroke{removed.Clone()}})
	h.ClearRedo()

	return []wire.ServerMessage{{Tag: wire.ServerStrokeRemove, ID: id}}, false
}

func (s *Session) applyRemove(sender board.ConnectionID, ids []board.StrokeID) ([]wire.ServerMessage, bool) {
	var removed []board.Stroke
	var out []wire.ServerMessage
	for _, id := range ids {
		idx := s.findStroke(id)
		if idx == -1 {
			continue
		}
		removed = append(removed, s.strokes[idx].Clone())
		s.strokes = append(s.strokes[:idx], s.strokes[idx+1:]...)
		delete(s.activeIDs, id)
		delete(s.owners, id)
		out = append(out, wire.ServerMessage{Tag: wire.ServerStrokeRemove, ID: id})
	}
	if len(removed) == 0 {
		return nil, false
	}
	s.markDirty()
	h := s.history(sender)
	h.PushUndo(board.Action{Kind: board.ActionRemoveStrokes, Removed: removed})
	h.ClearRedo()
	return out, false
}

func (s *Session) applyTransformStart(sender board.ConnectionID, ids []board.StrokeID) ([]wire.ServerMessage, bool) {
	if len(ids) == 0 {
		return nil, false
	}
	before := make(map[board.StrokeID]board.Stroke)
	for _, id := range ids {
		if idx := s.findStroke(id); idx != -1 {
			before[id] = s.strokes[idx].Clone()
		}
	}
	s.transforms[sender] = &board.TransformSession{IDs: ids, Before: before}
	return nil, false
}

func (s *Session) applyTransformUpdate(sender board.ConnectionID, ids []board.StrokeID, op wire.TransformOp) ([]wire.ServerMessage, bool) {
	return []wire.ServerMessage{{Tag: wire.ServerTransformUpdate, IDs: ids, Op: op}}, false
}

func (s *Session) applyTransformEnd(sender board.ConnectionID, _ []board.StrokeID) ([]wire.ServerMessage, bool) {
	ts, ok := s.transforms[sender]
	delete(s.transforms, sender)
	if !ok {
		return nil, false
	}
	var before, after []board.Stroke
	for _, id := range ts.IDs {
		idx := s.findStroke(id)
		if idx == -1 {
			continue
		}
		pre, hadPre := ts.Before[id]
		if !hadPre {
			continue
		}
		before = append(before, pre)
		after = append(after, s.strokes[idx].Clone())
	}
	if len(before) == 0 || len(after) == 0 {
		return nil, false
	}
	h := s.history(sender)
	h.PushUndo(board.Action{Kind: board.ActionTransform, Before: before, After: after})
	h.ClearRedo()
	return nil, false
}

func (s *Session) applyClear(sender board.ConnectionID) ([]wire.ServerMessage, bool) {
	cleared := board.CloneStrokes(s.strokes)
	s.strokes = nil
	s.activeIDs = make(map[board.StrokeID]bool)
	s.owners = make(map[board.StrokeID]board.ConnectionID)
	s.transforms = make(map[board.ConnectionID]*board.TransformSession)
	s.markDirty()

	h := s.history(sender)
	h.PushUndo(board.Action{Kind: board.ActionClear, Removed: cleared})
	h.ClearRedo()

	return []wire.ServerMessage{{Tag: wire.ServerClear}}, false
}

// applyStrokeReplace backs both a bare stroke:replace frame and the
// mutation channel clients use mid-transform-bracket (SPEC_FULL §4.3):
// while sender has an open transform session, the replace updates
// canonical state and still broadcasts, but does not push its own
// undo entry — that gets folded into the single Transform action at
// transform:end.
func (s *Session) applyStrokeReplace(sender board.ConnectionID, in board.Stroke) ([]wire.ServerMessage, bool) {
	idx := s.findStroke(in.ID)
	if idx == -1 {
		return nil, false
	}
	sanitized := in
	sanitized.Size = board.SanitizeSize(in.Size)
	sanitized.Points = normalizePoints(in.Points)
	if len(sanitized.Points) == 0 {
		return nil, false
	}
	before := s.strokes[idx]
	s.strokes[idx] = sanitized
	s.markDirty()

	if _, inTransform := s.transforms[sender]; !inTransform {
		h := s.history(sender)
		h.PushUndo(board.Action{Kind: board.ActionReplaceStroke, ReplaceBefore: before.Clone(), ReplaceAfter: sanitized.Clone()})
		h.ClearRedo()
	}

	return []wire.ServerMessage{{Tag: wire.ServerStrokeReplace, Stroke: sanitized.Clone()}}, false
}

func (s *Session) applyLoad(strokes []board.Stroke) ([]wire.ServerMessage, bool) {
	sanitized := make([]board.Stroke, 0, len(strokes))
	for _, st := range strokes {
		st.Size = board.SanitizeSize(st.Size)
		st.Points = normalizePoints(st.Points)
		if len(st.Points) == 0 {
			continue
		}
		sanitized = append(sanitized, st)
	}
	s.strokes = sanitized
	s.activeIDs = make(map[board.StrokeID]bool)
	s.owners = make(map[board.StrokeID]board.ConnectionID)
	s.transforms = make(map[board.ConnectionID]*board.TransformSession)
	for _, h := range s.histories {
		h.Undo = nil
		h.Redo = nil
	}
	s.markDirty()
	return []wire.ServerMessage{{Tag: wire.ServerSync, Strokes: board.CloneStrokes(s.strokes)}}, true
}

func (s *Session) applyUndo(sender board.ConnectionID) ([]wire.ServerMessage, bool) {
	h := s.history(sender)
	for attempt := 0; attempt < maxUndoRetries; attempt++ {
		action, ok := h.PopUndo()
		if !ok {
			return nil, false
		}
		msgs, applied := s.undoAction(action)
		if !applied {
			continue
		}
		h.PushRedo(action)
		return msgs, true
	}
	return nil, false
}

func (s *Session) applyRedo(sender board.ConnectionID) ([]wire.ServerMessage, bool) {
	h := s.history(sender)
	for attempt := 0; attempt < maxUndoRetries; attempt++ {
		action, ok := h.PopRedo()
		if !ok {
			return nil, false
		}
		msgs, applied := s.redoAction(action)
		if !applied {
			continue
		}
		h.PushUndo(action)
		return msgs, true
	}
	return nil, false
}

// undoAction applies an action's inverse. The bool return is whether
// the inverse actually changed anything (false means the referenced
// strokes are already gone/conflicting and the caller should skip to
// the next history entry without broadcasting).
func (s *Session) undoAction(a board.Action) ([]wire.ServerMessage, bool) {
	switch a.Kind {
	case board.ActionAddStroke:
		idx := s.findStroke(a.Added.ID)
		if idx == -1 {
			return nil, false
		}
		s.strokes = append(s.strokes[:idx], s.strokes[idx+1:]...)
		delete(s.activeIDs, a.Added.ID)
		delete(s.owners, a.Added.ID)
		s.markDirty()
		return []wire.ServerMessage{{Tag: wire.ServerStrokeRemove, ID: a.Added.ID}}, true
	case board.ActionRemoveStrokes:
		var out []wire.ServerMessage
		for _, st := range a.Removed {
			if s.findStroke(st.ID) != -1 {
				continue
			}
			s.strokes = append(s.strokes, st.Clone())
			out = append(out, wire.ServerMessage{Tag: wire.ServerStrokeRestore, Stroke: st.Clone()})
		}
		if len(out) == 0 {
			return nil, false
		}
		s.markDirty()
		return out, true
	case board.ActionTransform:
		var out []wire.ServerMessage
		for _, st := range a.Before {
			if idx := s.findStroke(st.ID); idx != -1 {
				s.strokes[idx] = st.Clone()
				out = append(out, wire.ServerMessage{Tag: wire.ServerStrokeReplace, Stroke: st.Clone()})
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		s.markDirty()
		return out, true
	case board.ActionReplaceStroke:
		idx := s.findStroke(a.ReplaceBefore.ID)
		if idx == -1 {
			return nil, false
		}
		s.strokes[idx] = a.ReplaceBefore.Clone()
		s.markDirty()
		return []wire.ServerMessage{{Tag: wire.ServerStrokeReplace, Stroke: a.ReplaceBefore.Clone()}}, true
	case board.ActionClear:
		var out []wire.ServerMessage
		for _, st := range a.Removed {
			if s.findStroke(st.ID) != -1 {
				continue
			}
			s.strokes = append(s.strokes, st.Clone())
			out = append(out, wire.ServerMessage{Tag: wire.ServerStrokeRestore, Stroke: st.Clone()})
		}
		if len(out) == 0 {
			return nil, false
		}
		s.markDirty()
		return out, true
	default:
		return nil, false
	}
}

func (s *Session) redoAction(a board.Action) ([]wire.ServerMessage, bool) {
	switch a.Kind {
	case board.ActionAddStroke:
		if s.findStroke(a.Added.ID) != -1 {
			return nil, false
		}
		s.strokes = append(s.strokes, a.Added.Clone())
		s.markDirty()
		return []wire.ServerMessage{{Tag: wire.ServerStrokeRestore, Stroke: a.Added.Clone()}}, true
	case board.ActionRemoveStrokes:
		var out []wire.ServerMessage
		for _, st := range a.Removed {
			idx := s.findStroke(st.ID)
			if idx == -1 {
				continue
			}
			s.strokes = append(s.strokes[:idx], s.strokes[idx+1:]...)
			out = append(out, wire.ServerMessage{Tag: wire.ServerStrokeRemove, ID: st.ID})
		}
		if len(out) == 0 {
			return nil, false
		}
		s.markDirty()
		return out, true
	case board.ActionTransform:
		var out []wire.ServerMessage
		for _, st := range a.After {
			if idx := s.findStroke(st.ID); idx != -1 {
				s.strokes[idx] = st.Clone()
				out = append(out, wire.ServerMessage{Tag: wire.ServerStrokeReplace, Stroke: st.Clone()})
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		s.markDirty()
		return out, true
	case board.ActionReplaceStroke:
		idx := s.findStroke(a.ReplaceAfter.ID)
		if idx == -1 {
			return nil, false
		}
		s.strokes[idx] = a.ReplaceAfter.Clone()
		s.markDirty()
		return []wire.ServerMessage{{Tag: wire.ServerStrokeReplace, Stroke: a.ReplaceAfter.Clone()}}, true
	case board.ActionClear:
		cleared := board.CloneStrokes(s.strokes)
		s.strokes = nil
		s.activeIDs = make(map[board.StrokeID]bool)
		s.owners = make(map[board.StrokeID]board.ConnectionID)
		s.markDirty()
		_ = cleared
		return []wire.ServerMessage{{Tag: wire.ServerClear}}, true
	default:
		return nil, false
	}
}
