package player

import (
	"context"
	"errors"
	"sync"

	"github.com/mazelabs/maze-referee/internal/board"
	"github.com/mazelabs/maze-referee/internal/game"
)

var errNoGoal = errors.New("move requested before setup")

// Bot is an in-process participant driven by a Strategy. It satisfies the
// referee's PlayerChannel capability, so matches can mix bots with remote
// players.
type Bot struct {
	name     string
	strategy Strategy

	mu      sync.Mutex
	home    board.Position
	goal    board.Position
	hasGoal bool
}

func NewBot(name string, s Strategy) *Bot {
	return &Bot{name: name, strategy: s}
}

func (b *Bot) Name() string { return b.name }

func (b *Bot) Setup(_ context.Context, _ *game.View, home, goal board.Position) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.home = home
	b.goal = goal
	b.hasGoal = true
	return nil
}

func (b *Bot) RequestMove(_ context.Context, view game.View) (*game.Move, error) {
	b.mu.Lock()
	goal, ok := b.goal, b.hasGoal
	b.mu.Unlock()
	if !ok {
		return nil, errNoGoal
	}
	if len(view.Players) == 0 {
		return nil, errors.New("view has no players")
	}
	// The active player comes first in the view.
	return b.strategy.Plan(view, view.Players[0].Position, goal), nil
}

func (b *Bot) NotifyOutcome(context.Context, bool) error { return nil }
