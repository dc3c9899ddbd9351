package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mazelabs/maze-referee/internal/hub"
	"github.com/mazelabs/maze-referee/internal/ws"
)

func SetupRoutes(h *hub.Hub) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/matches", CreateMatch(h))
	r.Get("/matches/{code}", MatchStatus(h))
	r.Get("/healthz", Healthz)

	// Websocket entry points
	r.Get("/ws", ws.JoinHandler(h))
	r.Get("/observe", ws.ObserveHandler(h))

	return r
}
