package game

import (
	"errors"
	"fmt"

	"github.com/mazelabs/maze-referee/internal/board"
)

var (
	ErrUndoSlide     = errors.New("slide would undo the previous slide")
	ErrUnreachable   = errors.New("destination is not reachable after the slide")
	ErrNoOpMove      = errors.New("destination equals the current position")
	ErrNoPlayers     = errors.New("state needs at least one player")
	ErrBadPlacement  = errors.New("player placement violates board invariants")
	ErrDuplicateName = errors.New("player identities must be distinct")
)

// Move is the structured action a participant may take on its turn: rotate
// the spare, slide a line, then walk to a destination. It is applied as one
// atomic unit; a rejected move leaves no trace on the state. A pass is not a
// Move, callers represent it separately.
type Move struct {
	Slide       board.Slide
	Rotations   int
	Destination board.Position
}

// State owns one board plus the ordered participant records and turn
// bookkeeping. Turn order is fixed at setup; kicking removes a record from
// the order outright, it never leaves a dead slot.
type State struct {
	board     *board.Board
	players   []*PlayerRecord
	active    int
	prevSlide *board.Slide
	goalQueue []board.Position
	round     int
}

// NewState wires a board to its players. Each player's home and start
// position must be in bounds, homes must be pairwise distinct and must sit on
// tiles no slide can move. goalQueue seeds the shared queue that hands out
// each next goal; it may be empty for the single-goal game.
func NewState(b *board.Board, players []*PlayerRecord, goalQueue []board.Position) (*State, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}
	homes := make(map[board.Position]bool, len(players))
	names := make(map[string]bool, len(players))
	colors := make(map[string]bool, len(players))
	for _, p := range players {
		if !b.InBounds(p.Home) || !b.InBounds(p.Position) || !b.InBounds(p.Goal) {
			return nil, fmt.Errorf("%w: %s out of bounds", ErrBadPlacement, p.Name)
		}
		if p.Home.Row%2 == 0 || p.Home.Col%2 == 0 {
			return nil, fmt.Errorf("%w: home %+v of %s is on a slidable line", ErrBadPlacement, p.Home, p.Name)
		}
		if homes[p.Home] {
			return nil, fmt.Errorf("%w: home %+v assigned twice", ErrBadPlacement, p.Home)
		}
		if names[p.Name] || colors[p.Color] {
			return nil, fmt.Errorf("%w: %s / %s", ErrDuplicateName, p.Name, p.Color)
		}
		homes[p.Home] = true
		names[p.Name] = true
		colors[p.Color] = true
	}
	return &State{board: b, players: players, goalQueue: goalQueue}, nil
}

// Board exposes the live board. The referee owns the state; nothing else
// should reach in here to mutate it.
func (s *State) Board() *board.Board { return s.board }

// Players returns the remaining records in turn order.
func (s *State) Players() []*PlayerRecord { return s.players }

// ActiveIndex returns the index of the player whose turn it is.
func (s *State) ActiveIndex() int { return s.active }

// ActivePlayer returns the record of the player whose turn it is, or nil if
// nobody remains.
func (s *State) ActivePlayer() *PlayerRecord {
	if len(s.players) == 0 {
		return nil
	}
	return s.players[s.active]
}

// PrevSlide returns the most recent slide, if one is remembered.
func (s *State) PrevSlide() (board.Slide, bool) {
	if s.prevSlide == nil {
		return board.Slide{}, false
	}
	return *s.prevSlide, true
}

// SetPrevSlide seeds the last-slide memory, for states rebuilt from a
// serialized fixture.
func (s *State) SetPrevSlide(sl board.Slide) {
	s.prevSlide = &sl
}

// Round returns how many full passes through the turn order have completed.
func (s *State) Round() int { return s.round }

// AdvanceRound marks one full pass through the turn order.
func (s *State) AdvanceRound() { s.round++ }

// ApplyMove validates m against the active player and, if every rule holds,
// commits it: spare rotated, line slid, riders on the slid line displaced,
// the mover walked to its destination and its goal progress re-evaluated.
// The checks run in rule order so the caller gets the first violated rule:
//
//  1. the targeted line is slidable
//  2. the slide is not the inverse of the previous slide
//  3. the destination is reachable on the hypothetical post-slide board,
//     starting from the mover's displaced position
//  4. the move is not a no-op
//
// A failed check mutates nothing.
func (s *State) ApplyMove(m Move) error {
	mover := s.ActivePlayer()
	if mover == nil {
		return ErrNoPlayers
	}
	if !s.board.Slidable(m.Slide) {
		return fmt.Errorf("%w: index %d going %s", board.ErrInvalidLine, m.Slide.Index, m.Slide.Direction)
	}
	if s.prevSlide != nil && m.Slide.Undoes(*s.prevSlide) {
		return fmt.Errorf("%w: line %d", ErrUndoSlide, m.Slide.Index)
	}

	// Probe the move on a scratch copy; the live board stays untouched
	// until every rule has passed.
	scratch := s.board.Clone()
	scratch.RotateSpare(m.Rotations)
	if err := scratch.SlideAndInsert(m.Slide); err != nil {
		return err
	}
	from := displaced(mover.Position, m.Slide, s.board.Rows(), s.board.Cols())
	reach, err := scratch.Reachable(from)
	if err != nil {
		return err
	}
	if !reach[m.Destination] {
		return fmt.Errorf("%w: %+v from %+v", ErrUnreachable, m.Destination, from)
	}
	if m.Destination == from {
		return fmt.Errorf("%w: %+v", ErrNoOpMove, m.Destination)
	}

	s.board.RotateSpare(m.Rotations)
	if err := s.board.SlideAndInsert(m.Slide); err != nil {
		return err
	}
	s.shiftRiders(m.Slide)
	mover.Position = m.Destination
	slide := m.Slide
	s.prevSlide = &slide
	s.progressGoal(mover)
	return nil
}

// ApplyPass records a pass for the active player. No board mutation happens,
// but the last-slide memory is cleared so the anti-undo rule cannot
// spuriously block the next mover.
func (s *State) ApplyPass() {
	s.prevSlide = nil
}

// NextPlayer rotates the active role to the next remaining player.
func (s *State) NextPlayer() {
	if len(s.players) > 0 {
		s.active = (s.active + 1) % len(s.players)
	}
}

// Kick removes p from the turn order and marks it kicked. Relative order of
// everyone else is preserved, and the active index keeps pointing at the
// player who would move next. Reports whether p was present.
func (s *State) Kick(p *PlayerRecord) bool {
	for i, rec := range s.players {
		if rec != p {
			continue
		}
		rec.Status = Kicked
		s.players = append(s.players[:i], s.players[i+1:]...)
		switch {
		case len(s.players) == 0:
			s.active = 0
		case i < s.active:
			s.active--
		default:
			s.active %= len(s.players)
		}
		return true
	}
	return false
}

// KickActive removes the active player from the turn order. Returns the
// removed record, or nil if nobody remains.
func (s *State) KickActive() *PlayerRecord {
	p := s.ActivePlayer()
	if p != nil {
		s.Kick(p)
	}
	return p
}

// shiftRiders moves every avatar sitting on the slid line one cell along the
// slide, wrapping at the edge the way the pushed-off tile does.
func (s *State) shiftRiders(sl board.Slide) {
	rows, cols := s.board.Rows(), s.board.Cols()
	for _, p := range s.players {
		p.Position = displaced(p.Position, sl, rows, cols)
	}
}

func displaced(p board.Position, sl board.Slide, rows, cols int) board.Position {
	switch sl.Direction {
	case board.North:
		if p.Col == sl.Index {
			p.Row = (p.Row - 1 + rows) % rows
		}
	case board.South:
		if p.Col == sl.Index {
			p.Row = (p.Row + 1) % rows
		}
	case board.East:
		if p.Row == sl.Index {
			p.Col = (p.Col + 1) % cols
		}
	case board.West:
		if p.Row == sl.Index {
			p.Col = (p.Col - 1 + cols) % cols
		}
	}
	return p
}

// progressGoal re-evaluates the mover's goal after it lands: landing on the
// current goal bumps the count and hands out the next goal from the queue, or
// the player's home once the queue runs dry. Reaching home while heading home
// is not a goal; the referee reads it as the win condition.
func (s *State) progressGoal(p *PlayerRecord) {
	if p.Position != p.Goal || p.HeadingHome {
		return
	}
	p.GoalsReached++
	if len(s.goalQueue) > 0 {
		p.Goal = s.goalQueue[0]
		s.goalQueue = s.goalQueue[1:]
		return
	}
	p.Goal = p.Home
	p.HeadingHome = true
}

// View is the read-only projection of a State that participants and
// observers may see: a board copy, the public player records rotated so the
// active player comes first, and the last slide for the anti-undo rule.
type View struct {
	Board     *board.Board
	Players   []PublicPlayer
	LastSlide *board.Slide
}

// View derives the public projection of the current state.
func (s *State) View() View {
	players := make([]PublicPlayer, 0, len(s.players))
	for i := range s.players {
		players = append(players, s.players[(s.active+i)%len(s.players)].public())
	}
	var last *board.Slide
	if s.prevSlide != nil {
		cp := *s.prevSlide
		last = &cp
	}
	return View{Board: s.board.Clone(), Players: players, LastSlide: last}
}
