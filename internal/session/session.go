// Package session runs one match as an actor goroutine, the way the hub's
// lobbies work: every mutation arrives as a message on the inbox, so the
// session state has exactly one writer.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mazelabs/maze-referee/internal/referee"
	"github.com/mazelabs/maze-referee/internal/remote"
)

var (
	ErrMatchStarted = errors.New("match already started")
	ErrMatchFull    = errors.New("match is full")
	ErrNameTaken    = errors.New("name already joined")
)

type Phase int

const (
	Waiting Phase = iota
	Running
	Done
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Running:
		return "running"
	case Done:
		return "done"
	}
	return "unknown"
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

type Msg interface{ isSessionMsg() }

// JoinPlayer registers a connected participant. Err receives nil on success;
// Done is closed when the match is over and the connection may be dropped.
type JoinPlayer struct {
	Name string
	Conn remote.Conn
	Err  chan error
	Done chan struct{}
}

// JoinObserver attaches a snapshot stream to a not-yet-started match.
type JoinObserver struct {
	Conn remote.Conn
	Err  chan error
}

// GetStatus reflects internal state without data races; used by tests and
// the HTTP surface.
type GetStatus struct {
	Reply chan Status
}

type Shutdown struct{}

type finished struct {
	result referee.GameResult
	err    error
}

func (JoinPlayer) isSessionMsg()   {}
func (JoinObserver) isSessionMsg() {}
func (GetStatus) isSessionMsg()    {}
func (Shutdown) isSessionMsg()     {}
func (finished) isSessionMsg()     {}

type Status struct {
	Phase   Phase               `json:"phase"`
	Players []string            `json:"players"`
	Result  *referee.GameResult `json:"result,omitempty"`
}

// ResultSink persists a finished match; nil means don't persist.
type ResultSink interface {
	SaveResult(ctx context.Context, code string, result referee.GameResult) error
}

// Config fixes a session's match parameters at creation.
type Config struct {
	Code        string
	PlayersWant int
	Referee     referee.Config
	Store       ResultSink
	Logger      *zap.SugaredLogger
}

type joined struct {
	channel referee.PlayerChannel
	done    chan struct{}
}

// Session owns one match lifecycle: collect players, run the referee,
// report the outcome.
type Session struct {
	inbox     chan Msg
	cfg       Config
	log       *zap.SugaredLogger
	phase     Phase
	players   []joined
	observers []referee.Observer
	result    *referee.GameResult
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(parent context.Context, cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.PlayersWant < 1 {
		cfg.PlayersWant = 2
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:  make(chan Msg, 64),
		cfg:    cfg,
		log:    cfg.Logger.With("match", cfg.Code),
		ctx:    ctx,
		cancel: cancel,
	}
	go s.loop()
	return s
}

// Inbox exposes the message channel for the ws layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return
		case m := <-s.inbox:
			switch msg := m.(type) {
			case JoinPlayer:
				msg.Err <- s.addPlayer(msg)
			case JoinObserver:
				msg.Err <- s.addObserver(msg)
			case GetStatus:
				msg.Reply <- s.status()
			case finished:
				s.phase = Done
				result := msg.result
				s.result = &result
				if msg.err != nil {
					s.log.Warnw("match ended with error", "error", msg.err)
				}
				s.persist(result)
				for _, p := range s.players {
					close(p.done)
				}
				s.players = nil
			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) addPlayer(msg JoinPlayer) error {
	if s.phase != Waiting {
		return ErrMatchStarted
	}
	for _, p := range s.players {
		if p.channel.Name() == msg.Name {
			return ErrNameTaken
		}
	}
	if len(s.players) >= s.cfg.PlayersWant {
		return ErrMatchFull
	}
	s.players = append(s.players, joined{
		channel: remote.NewPlayer(msg.Name, msg.Conn),
		done:    msg.Done,
	})
	s.log.Infow("player joined", "player", msg.Name, "have", len(s.players), "want", s.cfg.PlayersWant)
	if len(s.players) == s.cfg.PlayersWant {
		s.start()
	}
	return nil
}

func (s *Session) addObserver(msg JoinObserver) error {
	if s.phase != Waiting {
		return ErrMatchStarted
	}
	s.observers = append(s.observers, remote.NewObserverSink(s.ctx, msg.Conn, s.log))
	return nil
}

// start hands the collected players to a fresh referee on its own goroutine.
// The session only hears back through the finished message, so the actor
// keeps answering status queries while the match runs.
func (s *Session) start() {
	s.phase = Running
	ref := referee.New(s.cfg.Referee)
	for _, o := range s.observers {
		ref.AddObserver(o)
	}
	channels := make([]referee.PlayerChannel, len(s.players))
	for i, p := range s.players {
		channels[i] = p.channel
	}
	s.log.Infow("starting match", "players", len(channels))
	go func() {
		result, err := ref.RunMatch(s.ctx, channels)
		select {
		case s.inbox <- finished{result: result, err: err}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) persist(result referee.GameResult) {
	if s.cfg.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.cfg.Store.SaveResult(ctx, s.cfg.Code, result); err != nil {
		s.log.Warnw("failed to persist result", "error", err)
	}
}

func (s *Session) status() Status {
	names := make([]string, len(s.players))
	for i, p := range s.players {
		names[i] = p.channel.Name()
	}
	return Status{Phase: s.phase, Players: names, Result: s.result}
}

func (s *Session) shutdown() {
	for _, p := range s.players {
		close(p.done)
	}
	s.players = nil
	s.cancel()
}
