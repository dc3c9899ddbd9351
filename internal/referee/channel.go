package referee

import (
	"context"
	"errors"

	"github.com/mazelabs/maze-referee/internal/board"
	"github.com/mazelabs/maze-referee/internal/game"
)

var (
	// ErrTimeout means a participant did not answer within the bound.
	ErrTimeout = errors.New("participant timed out")
	// ErrProtocol means a participant answered with something undecodable
	// or shaped wrong.
	ErrProtocol = errors.New("malformed participant response")
	// ErrOutOfTurn means a channel produced a reply that was not an answer
	// to the outstanding request.
	ErrOutOfTurn = errors.New("response out of turn")
	// ErrConfig means setup cannot satisfy the structural invariants; it is
	// fatal to the whole match, never a per-player kick.
	ErrConfig = errors.New("match configuration is unsatisfiable")
)

// PlayerChannel is the capability a participant exposes to the referee. All
// three calls may block on a remote peer; the referee bounds each one with a
// context deadline and treats expiry as a protocol failure. Implementations
// range from in-process bots to websocket proxies; the referee only ever
// holds this interface.
type PlayerChannel interface {
	// Name identifies the participant for reporting. It must be stable for
	// the lifetime of the match.
	Name() string

	// Setup delivers the participant's home and current goal together with
	// an initial view of the board. A later goal (from the goal queue) is
	// announced through Setup again, with a nil view.
	Setup(ctx context.Context, view *game.View, home, goal board.Position) error

	// RequestMove asks for the participant's move given the current view.
	// A nil move with a nil error is a pass.
	RequestMove(ctx context.Context, view game.View) (*game.Move, error)

	// NotifyOutcome tells the participant whether it won.
	NotifyOutcome(ctx context.Context, won bool) error
}

// Observer receives state snapshots and a termination signal. Calls are
// issued in order from the turn loop and must not block: implementations are
// expected to hand frames off to their own transport asynchronously.
type Observer interface {
	OnState(view game.View)
	OnGameOver()
}
