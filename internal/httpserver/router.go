// Package httpserver wires the session store and persistence loop to
// an HTTP surface: a bootstrap redirect, the static client page, and
// the WebSocket upgrade endpoint. Routed with gorilla/mux, grounded on
// sumanthd032-CollabText/server/main.go and
// astromechza-automerge-experiments/cmd/four/server/main.go, both of
// which route the same way.
package httpserver

import (
	"log"
	"net/http"

	"driftboard/internal/persist"
	"driftboard/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Server holds the dependencies every handler needs.
type Server struct {
	Store            *session.Store
	Flush            *persist.Loop
	PublicDir        string
	OutboundQueueCap int
	Log              *log.Logger

	upgrader websocket.Upgrader
}

// NewRouter builds the mux.Router described in SPEC_FULL §6.
func NewRouter(s *Server) *mux.Router {
	if s.Log == nil {
		s.Log = log.New(log.Writer(), "[http] ", log.LstdFlags)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path("/").HandlerFunc(s.handleRoot)
	r.Methods(http.MethodGet).Path("/s/{id}").HandlerFunc(s.handleSessionPage)
	r.Methods(http.MethodGet).Path("/ws/{id}").HandlerFunc(s.handleWebSocket)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.PublicDir)))
	return r
}

// handleRoot mints a fresh session id and redirects the browser to it.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	s.Store.GetOrCreate(id)
	http.Redirect(w, r, "/s/"+id, http.StatusFound)
}

// handleSessionPage serves the single static bootstrap page; the core
// never templates it (spec.md §6 / SPEC_FULL §6).
func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	id, ok := normalizeSessionID(mux.Vars(r)["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.Store.GetOrCreate(id)
	http.ServeFile(w, r, s.PublicDir+"/index.html")
}

// normalizeSessionID requires a well-formed UUID, canonicalized to its
// lowercase hyphenated form — matching
// original_source/server/src/sessions.rs::normalize_session_id.
func normalizeSessionID(raw string) (string, bool) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
