// Package session holds the authoritative per-whiteboard state machine:
// canonical strokes, per-connection undo/redo history, transform
// brackets, and the peer fan-out that keeps every connection's view in
// sync.
package session

import (
	"sync"

	"driftboard/internal/board"
	"driftboard/internal/wire"
)

// Peer is the session's view of a connected client: an outbound queue
// it can push frames into. The transport package supplies the
// implementation; session never touches a net.Conn directly.
type Peer interface {
	Enqueue(wire.ServerMessage) bool
}

// Session is one whiteboard's canonical state. A single mutex guards
// every field; spec.md §5 allows this coarser-grained alternative to
// the original's per-field locks: each connection's single read loop
// delivers its own messages in order, this mutex serializes messages
// across connections, and a single lock keeps the inverse-table
// bookkeeping trivially atomic.
type Session struct {
	mu sync.Mutex

	id         string
	strokes    []board.Stroke
	activeIDs  map[board.StrokeID]bool
	owners     map[board.StrokeID]board.ConnectionID
	histories  map[board.ConnectionID]*board.ClientHistory
	transforms map[board.ConnectionID]*board.TransformSession
	peers      map[board.ConnectionID]Peer
	dirty      bool
}

// New builds a Session seeded with strokes loaded from disk (or none,
// for a brand new session id).
func New(id string, strokes []board.Stroke) *Session {
	return &Session{
		id:         id,
		strokes:    strokes,
		activeIDs:  make(map[board.StrokeID]bool),
		owners:     make(map[board.StrokeID]board.ConnectionID),
		histories:  make(map[board.ConnectionID]*board.ClientHistory),
		transforms: make(map[board.ConnectionID]*board.TransformSession),
		peers:      make(map[board.ConnectionID]Peer),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Attach registers a newly connected peer and returns the sync frame
// it alone should receive (spec.md §4.4: "immediately enqueue a
// sync{strokes} frame for that peer alone").
func (s *Session) Attach(connID board.ConnectionID, p Peer) wire.ServerMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[connID] = p
	s.histories[connID] = &board.ClientHistory{}
	return wire.ServerMessage{Tag: wire.ServerSync, Strokes: board.CloneStrokes(s.strokes)}
}

// Detach removes a peer and reports whether the session is now empty
// and, if so, whether it still needs a persistence flush.
func (s *Session) Detach(connID board.ConnectionID) (empty bool, needsFlush bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.peers, connID)
	delete(s.histories, connID)
	delete(s.transforms, connID)
	if len(s.peers) == 0 {
		if s.dirty {
			s.dirty = false
			return true, true
		}
		return true, false
	}
	return false, false
}

// PeerCount reports the number of currently attached peers.
func (s *Session) PeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

// Snapshot returns a deep copy of the canonical stroke list, suitable
// for handing to the persistence backend without holding the lock.
func (s *Session) Snapshot() []board.Stroke {
	s.mu.Lock()
	defer s.mu.Unlock()
	return board.CloneStrokes(s.strokes)
}

// Handle applies one inbound client message and fans out whatever the
// applier decided to broadcast. The session lock is held only for the
// mutation itself; delivery to peer queues happens after release so a
// slow or blocked peer can never stall the whole session (spec.md §5).
func (s *Session) Handle(connID board.ConnectionID, msg wire.ClientMessage) {
	s.mu.Lock()
	outbound, toAll := s.apply(connID, msg)
	var peers map[board.ConnectionID]Peer
	if len(outbound) > 0 {
		peers = make(map[board.ConnectionID]Peer, len(s.peers))
		for id, p := range s.peers {
			peers[id] = p
		}
	}
	s.mu.Unlock()

	if len(outbound) == 0 {
		return
	}

	var stale []board.ConnectionID
	for id, p := range peers {
		if !toAll && id == connID {
			continue
		}
		ok := true
		for _, m := range outbound {
			if !p.Enqueue(m) {
				ok = false
				break
			}
		}
		if !ok {
			stale = append(stale, id)
		}
	}

	if len(stale) == 0 {
		return
	}
	s.mu.Lock()
	for _, id := range stale {
		delete(s.peers, id)
	}
	s.mu.Unlock()
}

// markDirty must be called with mu held.
func (s *Session) markDirty() {
	s.dirty = true
}

// ConsumeDirty reports and clears the dirty flag; used by the
// persistence loop's periodic sweep.
func (s *Session) ConsumeDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		s.dirty = false
		return true
	}
	return false
}

// MarkDirty re-sets the dirty flag. The persistence loop calls this
// when a save attempt fails, so the next tick retries (spec.md §4.5).
func (s *Session) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}
