// Package transport adapts a WebSocket connection into the session
// package's Peer interface: a bounded outbound queue drained by a
// dedicated writer goroutine, plus a reader goroutine that decodes
// inbound frames and hands them to the session. Grounded on
// Sanehaakhtar-MyLocalBoard/internal/net/transport.go's PeerManager
// (one goroutine per accepted connection) and the split reader/writer
// goroutine shape in astromechza-automerge-experiments/cmd/four/pkg/sync.go.
package transport

import (
	"log"
	"sync"

	"driftboard/internal/board"
	"driftboard/internal/wire"
	"github.com/gorilla/websocket"
)

// Peer wraps one accepted WebSocket connection. It implements
// session.Peer via Enqueue.
type Peer struct {
	ConnID board.ConnectionID

	conn     *websocket.Conn
	outbound chan wire.ServerMessage
	log      *log.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// NewPeer wraps conn with an outbound queue of the given capacity
// (SPEC_FULL §5, default 256, CLI-configurable as --outbound-queue-cap).
func NewPeer(connID board.ConnectionID, conn *websocket.Conn, queueCap int, logger *log.Logger) *Peer {
	if logger == nil {
		logger = log.New(log.Writer(), "[transport] ", log.LstdFlags)
	}
	return &Peer{
		ConnID:   connID,
		conn:     conn,
		outbound: make(chan wire.ServerMessage, queueCap),
		log:      logger,
		closed:   make(chan struct{}),
	}
}

// Enqueue is session.Peer's non-blocking send. A full queue means the
// peer cannot keep up; per spec.md §5 that's a disconnect, not a block
// of the session's broadcast path.
func (p *Peer) Enqueue(m wire.ServerMessage) bool {
	select {
	case p.outbound <- m:
		return true
	default:
		p.Close()
		return false
	}
}

// Close closes the underlying connection exactly once, unblocking both
// the reader and writer loops.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
		p.conn.Close()
	})
}

// WriteLoop drains the outbound queue and writes each frame as a
// binary WebSocket message — the wire codec's canonical encoding.
// Outbound frames are always binary (spec.md §4.1); only inbound
// accepts the JSON debug fallback.
func (p *Peer) WriteLoop() {
	defer p.Close()
	for {
		select {
		case msg, ok := <-p.outbound:
			if !ok {
				return
			}
			if err := p.conn.WriteMessage(websocket.BinaryMessage, wire.EncodeServer(msg)); err != nil {
				return
			}
		case <-p.closed:
			return
		}
	}
}

// ReadLoop reads inbound frames until the connection closes, decoding
// each one (binary canonical, or text JSON fallback) and handing it to
// handle. A frame that fails to decode is logged and dropped — per
// spec.md §7 malformed input never tears down the connection.
func (p *Peer) ReadLoop(handle func(wire.ClientMessage)) {
	defer p.Close()
	for {
		mt, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		switch mt {
		case websocket.BinaryMessage, websocket.TextMessage:
			msg, err := wire.DecodeClientFrame(mt == websocket.TextMessage, data)
			if err != nil {
				p.log.Printf("peer %d: dropping malformed frame: %v", p.ConnID, err)
				continue
			}
			handle(msg)
		default:
		}
	}
}
