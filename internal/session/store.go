package session

import (
	"log"
	"os"
	"sync"

	"driftboard/internal/board"
)

// Loader is the persistence backend's read side, as seen by the store.
// Kept as a local interface (rather than importing internal/persist)
// so session has no dependency on how or where snapshots live.
type Loader interface {
	Load(id string) ([]board.Stroke, error)
}

// Store is the process-wide session registry: spec.md §4.2's "process-
// wide mapping from session id to a shared handle to Session". All
// lookups take the read lock; only GetOrCreate's miss path and Evict
// take the write lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	loader   Loader
	log      *log.Logger
}

func NewStore(loader Loader, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(os.Stderr, "[session] ", log.LstdFlags)
	}
	return &Store{
		sessions: make(map[string]*Session),
		loader:   loader,
		log:      logger,
	}
}

// GetOrCreate returns the session for id, creating and synchronously
// loading it from disk on first reference. Concurrent first-connects
// race to load; the loser discards its load and adopts the winner's
// handle (spec.md §4.2).
func (st *Store) GetOrCreate(id string) *Session {
	st.mu.RLock()
	if s, ok := st.sessions[id]; ok {
		st.mu.RUnlock()
		return s
	}
	st.mu.RUnlock()

	strokes, err := st.loader.Load(id)
	if err != nil {
		st.log.Printf("session %s: snapshot load failed, starting empty: %v", id, err)
		strokes = nil
	}
	candidate := New(id, strokes)

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		return s
	}
	st.sessions[id] = candidate
	return candidate
}

// Lookup returns an existing session without creating one.
func (st *Store) Lookup(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Evict removes s from the registry, but only if it is still the
// handle on file for its id — guards against a concurrent attach that
// raced the eviction check inside s (SPEC_FULL §5's eviction-race note).
func (st *Store) Evict(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if current, ok := st.sessions[s.id]; ok && current == s {
		delete(st.sessions, s.id)
	}
}

// All returns a snapshot of every live session, used by the
// persistence loop's periodic sweep.
func (st *Store) All() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	return out
}
