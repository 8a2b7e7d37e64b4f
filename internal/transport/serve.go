package transport

import (
	"sync"
	"sync/atomic"

	"driftboard/internal/board"
	"driftboard/internal/persist"
	"driftboard/internal/session"
	"driftboard/internal/wire"
	"github.com/gorilla/websocket"
)

var nextConnID atomic.Uint64

// NewConnID allocates a process-unique connection id (spec.md §3:
// "server-generated on accept, unique for the lifetime of the server
// process").
func NewConnID() board.ConnectionID {
	return board.ConnectionID(nextConnID.Add(1))
}

// Serve runs one accepted WebSocket connection end to end: attach,
// split reader/writer goroutines, and on exit detach and, if this was
// the session's last peer, a synchronous persistence flush (spec.md
// §4.4). It blocks until the connection closes.
// Serve returns true if, upon this connection's exit, it left the
// session with no attached peers — the caller should then evict the
// session from its store (spec.md §4.4).
func Serve(sess *session.Session, conn *websocket.Conn, queueCap int, flush *persist.Loop) bool {
	connID := NewConnID()
	peer := NewPeer(connID, conn, queueCap, nil)

	syncFrame := sess.Attach(connID, peer)
	peer.Enqueue(syncFrame)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		peer.WriteLoop()
	}()
	go func() {
		defer wg.Done()
		peer.ReadLoop(func(msg wire.ClientMessage) {
			sess.Handle(connID, msg)
		})
	}()
	wg.Wait()

	empty, needsFlush := sess.Detach(connID)
	if empty && needsFlush && flush != nil {
		flush.FlushOne(sess.ID(), sess.Snapshot())
	}
	return empty
}
