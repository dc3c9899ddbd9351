package player

import (
	"sort"

	"github.com/mazelabs/maze-referee/internal/board"
	"github.com/mazelabs/maze-referee/internal/game"
)

// Strategy decides a move from the public view: the mover's position, its
// current goal, and the board. A nil move means pass.
type Strategy interface {
	Plan(view game.View, start, goal board.Position) *game.Move
}

// Naive is the exhaustive single-ply strategy: try every slide of every
// slidable line in both directions with every spare rotation, and take the
// first combination that makes the target reachable. If no combination
// reaches the real goal, fall back to alternate candidate targets in the
// order given by Less, and pass if nothing works.
type Naive struct {
	// Less orders alternate candidate targets, given the real goal.
	Less func(goal, a, b board.Position) bool
}

// Riemann orders alternate candidates row-major: top to bottom, left to
// right.
func Riemann() *Naive {
	return &Naive{Less: func(_, a, b board.Position) bool {
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	}}
}

// Euclid orders alternate candidates by Euclidean distance to the goal,
// breaking ties row-major.
func Euclid() *Naive {
	return &Naive{Less: func(goal, a, b board.Position) bool {
		da, db := a.DistanceTo(goal), b.DistanceTo(goal)
		if da != db {
			return da < db
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	}}
}

func (n *Naive) Plan(view game.View, start, goal board.Position) *game.Move {
	if mv := findMoveTo(view, start, goal); mv != nil {
		return mv
	}
	candidates := allPositions(view.Board)
	sort.Slice(candidates, func(i, j int) bool { return n.Less(goal, candidates[i], candidates[j]) })
	for _, alt := range candidates {
		if alt == goal {
			continue
		}
		if mv := findMoveTo(view, start, alt); mv != nil {
			return mv
		}
	}
	return nil
}

func allPositions(b *board.Board) []board.Position {
	out := make([]board.Position, 0, b.Rows()*b.Cols())
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			out = append(out, board.Position{Row: r, Col: c})
		}
	}
	return out
}

// findMoveTo searches rows west/east first, then columns north/south, with
// all four spare rotations each, for a legal move landing on dest.
func findMoveTo(view game.View, start, dest board.Position) *game.Move {
	for idx := 0; idx < view.Board.Rows(); idx += 2 {
		for _, dir := range []board.Direction{board.West, board.East} {
			if mv := tryLine(view, start, dest, board.Slide{Index: idx, Direction: dir}); mv != nil {
				return mv
			}
		}
	}
	for idx := 0; idx < view.Board.Cols(); idx += 2 {
		for _, dir := range []board.Direction{board.North, board.South} {
			if mv := tryLine(view, start, dest, board.Slide{Index: idx, Direction: dir}); mv != nil {
				return mv
			}
		}
	}
	return nil
}

func tryLine(view game.View, start, dest board.Position, s board.Slide) *game.Move {
	if view.LastSlide != nil && s.Undoes(*view.LastSlide) {
		return nil
	}
	for rot := 0; rot < 4; rot++ {
		if reaches(view.Board, start, dest, s, rot) {
			return &game.Move{Slide: s, Rotations: rot, Destination: dest}
		}
	}
	return nil
}

// reaches simulates the slide on a scratch board and checks that dest is a
// legal landing spot for a mover starting at start.
func reaches(b *board.Board, start, dest board.Position, s board.Slide, rotations int) bool {
	scratch := b.Clone()
	scratch.RotateSpare(rotations)
	if err := scratch.SlideAndInsert(s); err != nil {
		return false
	}
	from := shifted(start, s, b.Rows(), b.Cols())
	if dest == from {
		return false
	}
	reach, err := scratch.Reachable(from)
	if err != nil {
		return false
	}
	return reach[dest]
}

// shifted is where a rider at p ends up after slide s.
func shifted(p board.Position, s board.Slide, rows, cols int) board.Position {
	switch s.Direction {
	case board.North:
		if p.Col == s.Index {
			p.Row = (p.Row - 1 + rows) % rows
		}
	case board.South:
		if p.Col == s.Index {
			p.Row = (p.Row + 1) % rows
		}
	case board.East:
		if p.Row == s.Index {
			p.Col = (p.Col + 1) % cols
		}
	case board.West:
		if p.Row == s.Index {
			p.Col = (p.Col - 1 + cols) % cols
		}
	}
	return p
}
