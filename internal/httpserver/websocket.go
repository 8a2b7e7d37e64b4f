package httpserver

import (
	"net/http"

	"driftboard/internal/transport"
	"github.com/gorilla/mux"
)

// handleWebSocket upgrades the connection and hands it to the
// transport package for the rest of its life. The core owns the
// connection from here (spec.md §4.2–§4.5).
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id, ok := normalizeSessionID(mux.Vars(r)["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Printf("session %s: websocket upgrade failed: %v", id, err)
		return
	}
	sess := s.Store.GetOrCreate(id)
	empty := transport.Serve(sess, conn, s.OutboundQueueCap, s.Flush)
	if empty {
		s.Store.Evict(sess)
	}
}
