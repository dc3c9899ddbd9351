package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mazelabs/maze-referee/internal/hub"
	"github.com/mazelabs/maze-referee/internal/session"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateMatch allocates a fresh match code. The optional ?players= query
// sets how many participants the match waits for before starting.
func CreateMatch(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players := 0
		if q := r.URL.Query().Get("players"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 1 {
				http.Error(w, "players must be a positive integer", http.StatusBadRequest)
				return
			}
			players = n
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *session.Session, 1)
			h.Inbox() <- hub.GetMatch{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.CreateMatch{Code: code, Players: players, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create match", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

// MatchStatus reports a match's phase, joined players and, once finished,
// its result.
func MatchStatus(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetMatch{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}

		status := make(chan session.Status, 1)
		s.Inbox() <- session.GetStatus{Reply: status}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(<-status)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
