package player

import (
	"context"
	"errors"

	"github.com/mazelabs/maze-referee/internal/board"
	"github.com/mazelabs/maze-referee/internal/game"
	"github.com/mazelabs/maze-referee/internal/referee"
)

// Misbehavior selects which call a BadBot sabotages.
type Misbehavior int

const (
	// BadSetup fails the setup delivery.
	BadSetup Misbehavior = iota
	// BadTurn fails when asked for a move.
	BadTurn
	// BadOutcome fails the win/loss notification.
	BadOutcome
	// SlowTurn never answers a move request; it sits on the call until
	// the referee's deadline cancels it.
	SlowTurn
)

var errSabotage = errors.New("simulated player failure")

// BadBot wraps a working participant and injects one failure mode. It exists
// to exercise the referee's kick paths.
type BadBot struct {
	Inner referee.PlayerChannel
	When  Misbehavior
}

func (b *BadBot) Name() string { return b.Inner.Name() }

func (b *BadBot) Setup(ctx context.Context, view *game.View, home, goal board.Position) error {
	if b.When == BadSetup {
		return errSabotage
	}
	return b.Inner.Setup(ctx, view, home, goal)
}

func (b *BadBot) RequestMove(ctx context.Context, view game.View) (*game.Move, error) {
	switch b.When {
	case BadTurn:
		return nil, errSabotage
	case SlowTurn:
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return b.Inner.RequestMove(ctx, view)
}

func (b *BadBot) NotifyOutcome(ctx context.Context, won bool) error {
	if b.When == BadOutcome {
		return errSabotage
	}
	return b.Inner.NotifyOutcome(ctx, won)
}
