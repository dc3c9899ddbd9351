package types

import (
	"errors"
	"fmt"

	"github.com/mazelabs/maze-referee/internal/board"
	"github.com/mazelabs/maze-referee/internal/game"
)

var ErrBadEncoding = errors.New("undecodable wire value")

var connectorRunes = map[board.Connector]string{
	{Shape: board.Bar, Facing: board.North}:    "│",
	{Shape: board.Bar, Facing: board.East}:     "─",
	{Shape: board.Corner, Facing: board.North}: "└",
	{Shape: board.Corner, Facing: board.East}:  "┌",
	{Shape: board.Corner, Facing: board.South}: "┐",
	{Shape: board.Corner, Facing: board.West}:  "┘",
	{Shape: board.Tee, Facing: board.North}:    "┴",
	{Shape: board.Tee, Facing: board.East}:     "├",
	{Shape: board.Tee, Facing: board.South}:    "┬",
	{Shape: board.Tee, Facing: board.West}:     "┤",
	{Shape: board.Cross, Facing: board.North}:  "┼",
}

var runeConnectors = func() map[string]board.Connector {
	m := make(map[string]board.Connector, len(connectorRunes))
	for c, r := range connectorRunes {
		m[r] = c
	}
	return m
}()

// canonical collapses the orientations a rune cannot distinguish: both bar
// facings per axis, and every cross facing.
func canonical(c board.Connector) board.Connector {
	switch c.Shape {
	case board.Bar:
		if c.Facing == board.South {
			c.Facing = board.North
		}
		if c.Facing == board.West {
			c.Facing = board.East
		}
	case board.Cross:
		c.Facing = board.North
	}
	return c
}

// ConnectorRune encodes a connector as its box-drawing rune.
func ConnectorRune(c board.Connector) string {
	return connectorRunes[canonical(c)]
}

// ParseConnector decodes a box-drawing rune.
func ParseConnector(s string) (board.Connector, error) {
	c, ok := runeConnectors[s]
	if !ok {
		return board.Connector{}, fmt.Errorf("%w: connector %q", ErrBadEncoding, s)
	}
	return c, nil
}

// EncodeTile converts a tile to its wire form.
func EncodeTile(t board.Tile) Tile {
	return Tile{
		Tilekey: ConnectorRune(t.Connector),
		Image1:  string(t.Gems[0]),
		Image2:  string(t.Gems[1]),
	}
}

// DecodeTile converts a wire tile back.
func DecodeTile(t Tile) (board.Tile, error) {
	c, err := ParseConnector(t.Tilekey)
	if err != nil {
		return board.Tile{}, err
	}
	return board.Tile{Connector: c, Gems: [2]board.Gem{board.Gem(t.Image1), board.Gem(t.Image2)}}, nil
}

// EncodeBoard converts the grid (not the spare, which travels separately).
func EncodeBoard(b *board.Board) Board {
	out := Board{
		Connectors: make([][]string, b.Rows()),
		Treasures:  make([][][]string, b.Rows()),
	}
	for r := 0; r < b.Rows(); r++ {
		out.Connectors[r] = make([]string, b.Cols())
		out.Treasures[r] = make([][]string, b.Cols())
		for c := 0; c < b.Cols(); c++ {
			t, _ := b.TileAt(board.Position{Row: r, Col: c})
			out.Connectors[r][c] = ConnectorRune(t.Connector)
			out.Treasures[r][c] = []string{string(t.Gems[0]), string(t.Gems[1])}
		}
	}
	return out
}

// DecodeBoard rebuilds a board from its wire form plus the spare tile.
func DecodeBoard(wb Board, spare Tile) (*board.Board, error) {
	if len(wb.Connectors) == 0 || len(wb.Connectors) != len(wb.Treasures) {
		return nil, fmt.Errorf("%w: connector and treasure matrices disagree", ErrBadEncoding)
	}
	grid := make([][]board.Tile, len(wb.Connectors))
	for r := range wb.Connectors {
		if len(wb.Connectors[r]) != len(wb.Treasures[r]) {
			return nil, fmt.Errorf("%w: row %d is ragged", ErrBadEncoding, r)
		}
		grid[r] = make([]board.Tile, len(wb.Connectors[r]))
		for c := range wb.Connectors[r] {
			conn, err := ParseConnector(wb.Connectors[r][c])
			if err != nil {
				return nil, err
			}
			gems := wb.Treasures[r][c]
			if len(gems) != 2 {
				return nil, fmt.Errorf("%w: treasure at %d,%d is not a pair", ErrBadEncoding, r, c)
			}
			grid[r][c] = board.Tile{
				Connector: conn,
				Gems:      [2]board.Gem{board.Gem(gems[0]), board.Gem(gems[1])},
			}
		}
	}
	sp, err := DecodeTile(spare)
	if err != nil {
		return nil, err
	}
	return board.New(grid, sp)
}

// Coord converts a position to its wire coordinate.
func Coord(p board.Position) Coordinate {
	return Coordinate{Row: p.Row, Column: p.Col}
}

// Pos converts a wire coordinate back.
func Pos(c Coordinate) board.Position {
	return board.Position{Row: c.Row, Col: c.Column}
}

var directionNames = map[board.Direction]string{
	board.North: "UP",
	board.South: "DOWN",
	board.East:  "RIGHT",
	board.West:  "LEFT",
}

// DirectionName encodes a slide direction.
func DirectionName(d board.Direction) string { return directionNames[d] }

// ParseDirection decodes a slide direction.
func ParseDirection(s string) (board.Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: direction %q", ErrBadEncoding, s)
}

func encodeLast(s *board.Slide) *LastAction {
	if s == nil {
		return nil
	}
	return &LastAction{Index: s.Index, Direction: DirectionName(s.Direction)}
}

// EncodeView encodes the public projection of a state: goals and progress
// stay private.
func EncodeView(v game.View) State {
	players := make([]Player, len(v.Players))
	for i, p := range v.Players {
		players[i] = Player{
			Current: Coord(p.Position),
			Home:    Coord(p.Home),
			Color:   p.Color,
			Name:    p.Name,
		}
	}
	return State{
		Board: EncodeBoard(v.Board),
		Spare: EncodeTile(v.Board.Spare()),
		Plmt:  players,
		Last:  encodeLast(v.LastSlide),
	}
}

// EncodeState encodes the full referee state, private fields included, for
// fixtures and match injection.
func EncodeState(st *game.State) State {
	recs := st.Players()
	players := make([]Player, len(recs))
	for i := range recs {
		rec := recs[(st.ActiveIndex()+i)%len(recs)]
		goal := Coord(rec.Goal)
		players[i] = Player{
			Current:   Coord(rec.Position),
			Home:      Coord(rec.Home),
			Goto:      &goal,
			Color:     rec.Color,
			Name:      rec.Name,
			Goals:     rec.GoalsReached,
			GoingHome: rec.HeadingHome,
		}
	}
	var last *LastAction
	if prev, ok := st.PrevSlide(); ok {
		last = encodeLast(&prev)
	}
	return State{
		Board: EncodeBoard(st.Board()),
		Spare: EncodeTile(st.Board().Spare()),
		Plmt:  players,
		Last:  last,
	}
}

// DecodeState rebuilds a full game state from its wire form. goalQueue seeds
// the remaining shared goals.
func DecodeState(ws State, goalQueue []board.Position) (*game.State, error) {
	b, err := DecodeBoard(ws.Board, ws.Spare)
	if err != nil {
		return nil, err
	}
	records := make([]*game.PlayerRecord, len(ws.Plmt))
	for i, p := range ws.Plmt {
		if p.Goto == nil {
			return nil, fmt.Errorf("%w: player %q is missing its goal", ErrBadEncoding, p.Name)
		}
		records[i] = &game.PlayerRecord{
			Name:         p.Name,
			Color:        p.Color,
			Home:         Pos(p.Home),
			Goal:         Pos(*p.Goto),
			Position:     Pos(p.Current),
			GoalsReached: p.Goals,
			HeadingHome:  p.GoingHome,
		}
	}
	st, err := game.NewState(b, records, goalQueue)
	if err != nil {
		return nil, err
	}
	if ws.Last != nil {
		d, err := ParseDirection(ws.Last.Direction)
		if err != nil {
			return nil, err
		}
		st.SetPrevSlide(board.Slide{Index: ws.Last.Index, Direction: d})
	}
	return st, nil
}

// EncodeMove converts a move (nil means pass) to its wire frame.
func EncodeMove(mv *game.Move) ClientMessage {
	if mv == nil {
		return ClientMessage{Type: MsgPass}
	}
	dest := Coord(mv.Destination)
	return ClientMessage{
		Type:        MsgMove,
		Index:       mv.Slide.Index,
		Direction:   DirectionName(mv.Slide.Direction),
		Degree:      (mv.Rotations % 4) * 90,
		Destination: &dest,
	}
}

// DecodeMove converts a wire frame claiming to be a turn answer back into a
// move; a pass frame yields nil.
func DecodeMove(m ClientMessage) (*game.Move, error) {
	switch m.Type {
	case MsgPass:
		return nil, nil
	case MsgMove:
		d, err := ParseDirection(m.Direction)
		if err != nil {
			return nil, err
		}
		if m.Degree%90 != 0 || m.Degree < 0 || m.Degree > 270 {
			return nil, fmt.Errorf("%w: degree %d", ErrBadEncoding, m.Degree)
		}
		if m.Destination == nil {
			return nil, fmt.Errorf("%w: move without destination", ErrBadEncoding)
		}
		return &game.Move{
			Slide:       board.Slide{Index: m.Index, Direction: d},
			Rotations:   m.Degree / 90,
			Destination: Pos(*m.Destination),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q is not a turn answer", ErrBadEncoding, m.Type)
	}
}
