package board

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	ErrInvalidLine = errors.New("line is not slidable")
	ErrOutOfBounds = errors.New("position is out of bounds")
	ErrBadGrid     = errors.New("grid must be rectangular and non-empty")
)

// Position addresses one cell of the grid. Row 0 is the top, Col 0 the left.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(o Position) float64 {
	dr := float64(p.Row - o.Row)
	dc := float64(p.Col - o.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// Slide names one slide action: the index of a row or column and the
// direction it shifts. East/West slide the row at Index, North/South slide
// the column at Index.
type Slide struct {
	Index     int
	Direction Direction
}

// Undoes reports whether s would exactly reverse prev.
func (s Slide) Undoes(prev Slide) bool {
	return s.Index == prev.Index && s.Direction == prev.Direction.Opposite()
}

// Board is a rectangular grid of tiles plus the one spare tile held outside
// the grid. It knows tile connectivity and nothing about players or rules.
type Board struct {
	grid  [][]Tile
	spare Tile
}

// New builds a board from an explicit grid and spare tile.
func New(grid [][]Tile, spare Tile) (*Board, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, ErrBadGrid
	}
	cols := len(grid[0])
	for _, row := range grid {
		if len(row) != cols {
			return nil, ErrBadGrid
		}
	}
	return &Board{grid: grid, spare: spare}, nil
}

// Generate builds a rows×cols board from the given random source.
func Generate(rows, cols int, rng *rand.Rand) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadGrid, rows, cols)
	}
	grid := make([][]Tile, rows)
	for r := range grid {
		grid[r] = make([]Tile, cols)
		for c := range grid[r] {
			grid[r][c] = randomTile(rng)
		}
	}
	return &Board{grid: grid, spare: randomTile(rng)}, nil
}

func randomTile(rng *rand.Rand) Tile {
	first := rng.Intn(len(GemNames))
	second := rng.Intn(len(GemNames) - 1)
	if second >= first {
		second++
	}
	return Tile{
		Connector: canonicalConnectors[rng.Intn(len(canonicalConnectors))],
		Gems:      [2]Gem{GemNames[first], GemNames[second]},
	}
}

func (b *Board) Rows() int { return len(b.grid) }
func (b *Board) Cols() int { return len(b.grid[0]) }

// Spare returns the tile currently held outside the grid.
func (b *Board) Spare() Tile { return b.spare }

// InBounds reports whether p addresses a cell of the grid.
func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.Rows() && p.Col >= 0 && p.Col < b.Cols()
}

// TileAt returns the tile at p.
func (b *Board) TileAt(p Position) (Tile, error) {
	if !b.InBounds(p) {
		return Tile{}, fmt.Errorf("%w: %+v", ErrOutOfBounds, p)
	}
	return b.grid[p.Row][p.Col], nil
}

// Slidable reports whether s names a legal slide: the fixed rule of the game
// is that exactly the even-indexed rows and columns move.
func (b *Board) Slidable(s Slide) bool {
	if s.Index%2 != 0 || s.Index < 0 {
		return false
	}
	if s.Direction.Horizontal() {
		return s.Index < b.Rows()
	}
	return s.Index < b.Cols()
}

// SlideAndInsert shifts the named line one cell, wraps the pushed-off tile
// out as the new spare, and inserts the old spare into the vacated edge cell.
// The two steps are one atomic board mutation.
func (b *Board) SlideAndInsert(s Slide) error {
	if !b.Slidable(s) {
		return fmt.Errorf("%w: index %d going %s", ErrInvalidLine, s.Index, s.Direction)
	}
	rows, cols := b.Rows(), b.Cols()
	var pushed Tile
	switch s.Direction {
	case East:
		row := b.grid[s.Index]
		pushed = row[cols-1]
		copy(row[1:], row[:cols-1])
		row[0] = b.spare
	case West:
		row := b.grid[s.Index]
		pushed = row[0]
		copy(row[:cols-1], row[1:])
		row[cols-1] = b.spare
	case North:
		pushed = b.grid[0][s.Index]
		for r := 0; r < rows-1; r++ {
			b.grid[r][s.Index] = b.grid[r+1][s.Index]
		}
		b.grid[rows-1][s.Index] = b.spare
	case South:
		pushed = b.grid[rows-1][s.Index]
		for r := rows - 1; r > 0; r-- {
			b.grid[r][s.Index] = b.grid[r-1][s.Index]
		}
		b.grid[0][s.Index] = b.spare
	}
	b.spare = pushed
	return nil
}

// RotateSpare turns the spare tile steps quarter turns counter-clockwise.
// Steps wrap, and negative steps turn the other way.
func (b *Board) RotateSpare(steps int) {
	for i := 0; i < ((steps%4)+4)%4; i++ {
		b.spare.Rotate()
	}
}

// Reachable returns every position connected to start through chains of
// facing open sides, on the current topology. start itself is always a member
// as the zero-length path. Breadth-first with a visited set, so cyclic mazes
// terminate.
func (b *Board) Reachable(start Position) (map[Position]bool, error) {
	if !b.InBounds(start) {
		return nil, fmt.Errorf("%w: %+v", ErrOutOfBounds, start)
	}
	seen := map[Position]bool{start: true}
	queue := []Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range []Direction{North, South, East, West} {
			next := cur.shift(d)
			if !b.InBounds(next) || seen[next] {
				continue
			}
			if b.grid[cur.Row][cur.Col].Connected(b.grid[next.Row][next.Col], d) {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen, nil
}

func (p Position) shift(d Direction) Position {
	switch d {
	case North:
		return Position{Row: p.Row - 1, Col: p.Col}
	case South:
		return Position{Row: p.Row + 1, Col: p.Col}
	case East:
		return Position{Row: p.Row, Col: p.Col + 1}
	default:
		return Position{Row: p.Row, Col: p.Col - 1}
	}
}

// Clone deep-copies the board so callers can probe hypothetical slides
// without touching the live grid.
func (b *Board) Clone() *Board {
	grid := make([][]Tile, len(b.grid))
	for r, row := range b.grid {
		grid[r] = make([]Tile, len(row))
		copy(grid[r], row)
	}
	return &Board{grid: grid, spare: b.spare}
}

// FixedPositions returns every cell that no slide can move: odd row and odd
// column. Homes must live on these.
func (b *Board) FixedPositions() []Position {
	var fixed []Position
	for r := 1; r < b.Rows(); r += 2 {
		for c := 1; c < b.Cols(); c += 2 {
			fixed = append(fixed, Position{Row: r, Col: c})
		}
	}
	return fixed
}
