package ws

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/mazelabs/maze-referee/internal/hub"
	"github.com/mazelabs/maze-referee/internal/remote"
	"github.com/mazelabs/maze-referee/internal/session"
)

// JoinHandler upgrades a participant connection and hands it to the match
// session. The referee drives all reads and writes on the socket after that;
// this handler just keeps the connection open until the match is over.
func JoinHandler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "player-" + uuid.NewString()[:8]
		}

		s := lookup(h, code)
		if s == nil {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		errCh := make(chan error, 1)
		done := make(chan struct{})
		s.Inbox() <- session.JoinPlayer{
			Name: name,
			Conn: remote.Wrap(conn),
			Err:  errCh,
			Done: done,
		}
		if err := <-errCh; err != nil {
			conn.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}

		select {
		case <-done:
		case <-r.Context().Done():
		}
	}
}

// ObserveHandler attaches a one-way snapshot stream to a match that has not
// started yet.
func ObserveHandler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		s := lookup(h, code)
		if s == nil {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		errCh := make(chan error, 1)
		s.Inbox() <- session.JoinObserver{Conn: remote.Wrap(conn), Err: errCh}
		if err := <-errCh; err != nil {
			conn.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}

		// The observer stream is written by the session; hold the
		// connection until the client goes away.
		<-r.Context().Done()
	}
}

func lookup(h *hub.Hub, code string) *session.Session {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetMatch{Code: code, Reply: reply}
	return <-reply
}
