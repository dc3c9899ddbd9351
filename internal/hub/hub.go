package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/mazelabs/maze-referee/internal/referee"
	"github.com/mazelabs/maze-referee/internal/session"
)

type HubMsg interface{ isHubMsg() }

type CreateMatch struct {
	Code    string
	Players int
	Reply   chan *session.Session
}

type GetMatch struct {
	Code  string
	Reply chan *session.Session
}

type RemoveMatch struct {
	Code string
}

type ShutdownHub struct{}

func (CreateMatch) isHubMsg() {}
func (GetMatch) isHubMsg()    {}
func (RemoveMatch) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// Deps is what every new session gets wired with.
type Deps struct {
	Referee        referee.Config
	Store          session.ResultSink
	DefaultPlayers int
	Logger         *zap.SugaredLogger
}

// Hub is the actor that owns the set of live matches, keyed by join code.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	deps     Deps
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, deps Deps) *Hub {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateMatch:
				if s := h.sessions[msg.Code]; s != nil {
					msg.Reply <- s
					break
				}
				want := msg.Players
				if want < 1 {
					want = h.deps.DefaultPlayers
				}
				s := session.New(h.ctx, session.Config{
					Code:        msg.Code,
					PlayersWant: want,
					Referee:     h.deps.Referee,
					Store:       h.deps.Store,
					Logger:      h.deps.Logger,
				})
				h.sessions[msg.Code] = s
				msg.Reply <- s

			case GetMatch:
				msg.Reply <- h.sessions[msg.Code] // may be nil

			case RemoveMatch:
				delete(h.sessions, msg.Code)

			case ShutdownHub:
				for _, s := range h.sessions {
					s.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}
