package game

import "github.com/mazelabs/maze-referee/internal/board"

// Status tracks where a participant is in its lifecycle. A record is created
// Active and is terminal once it leaves Active.
type Status int

const (
	Active Status = iota
	Kicked
	Won
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Kicked:
		return "kicked"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

// PlayerRecord is the single source of truth for one participant: identity,
// home, current goal, avatar position and progress. Views handed to
// participants are derived projections of this, never copies that mutate on
// their own.
type PlayerRecord struct {
	Name  string
	Color string

	Home     board.Position
	Goal     board.Position
	Position board.Position

	// GoalsReached counts goals this player has landed on. HeadingHome is
	// set once the goal queue is exhausted and the player's home becomes
	// its final target.
	GoalsReached int
	HeadingHome  bool

	Status Status
}

// WinEligible reports whether this record satisfies the win condition: goal
// queue exhausted and sitting on its own home tile.
func (p *PlayerRecord) WinEligible() bool {
	return p.HeadingHome && p.Position == p.Home
}

// PublicPlayer is the non-private projection of a record that every
// participant may see: no goal, no progress count.
type PublicPlayer struct {
	Name     string
	Color    string
	Home     board.Position
	Position board.Position
}

func (p *PlayerRecord) public() PublicPlayer {
	return PublicPlayer{Name: p.Name, Color: p.Color, Home: p.Home, Position: p.Position}
}
