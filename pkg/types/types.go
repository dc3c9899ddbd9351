// Package types holds the wire shapes shared by the server, remote players,
// observers and test fixtures. Every message is a self-describing JSON object
// naming its operation; requests and replies are matched in order on each
// connection.
package types

import (
	"encoding/json"
	"fmt"
)

// Coordinate addresses a board cell on the wire.
type Coordinate struct {
	Row    int `json:"row#"`
	Column int `json:"column#"`
}

// Tile is the wire form of one tile: a connector rune and its two gems.
type Tile struct {
	Tilekey string `json:"tilekey"`
	Image1  string `json:"1-image"`
	Image2  string `json:"2-image"`
}

// Board is the structural encoding of a grid: a matrix of connector runes
// (│ ─ └ ┌ ┐ ┘ ┴ ├ ┬ ┤ ┼) and a matrix of gem-name pairs.
type Board struct {
	Connectors [][]string   `json:"connectors"`
	Treasures  [][][]string `json:"treasures"`
}

// Player is one participant record. Goto, Goals and GoingHome are the
// private fields; public views omit them.
type Player struct {
	Current   Coordinate  `json:"current"`
	Home      Coordinate  `json:"home"`
	Goto      *Coordinate `json:"goto,omitempty"`
	Color     string      `json:"color"`
	Name      string      `json:"name"`
	Goals     int         `json:"goals,omitempty"`
	GoingHome bool        `json:"going-home,omitempty"`
}

// LastAction is the most recent slide, encoded as [index, direction]. A nil
// *LastAction encodes as JSON null: no slide has happened yet.
type LastAction struct {
	Index     int
	Direction string
}

func (a LastAction) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{a.Index, a.Direction})
}

func (a *LastAction) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("last action must be [index, direction]: %w", err)
	}
	if err := json.Unmarshal(raw[0], &a.Index); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &a.Direction)
}

// State describes a board, its spare tile, the players in turn order (the
// active player first), and the last slide. Round-tripping a State loses
// nothing that future legality decisions depend on.
type State struct {
	Board Board       `json:"board"`
	Spare Tile        `json:"spare"`
	Plmt  []Player    `json:"plmt"`
	Last  *LastAction `json:"last"`
}

// ServerMessage is a frame from referee to participant or observer.
//
//	setup:     state? (null after the first), home, goal
//	take-turn: state; expects a move or pass reply
//	win:       won
//	state:     observer snapshot
//	game-over: observer terminal signal
type ServerMessage struct {
	Type  string      `json:"type"`
	State *State      `json:"state,omitempty"`
	Home  *Coordinate `json:"home,omitempty"`
	Goal  *Coordinate `json:"goal,omitempty"`
	Won   *bool       `json:"won,omitempty"`
}

// ClientMessage is a frame from participant to referee.
//
//	move: index, direction (LEFT|RIGHT|UP|DOWN), degree (ccw: 0|90|180|270),
//	      destination
//	pass: no arguments
//	ack:  reply to setup and win
type ClientMessage struct {
	Type        string      `json:"type"`
	Index       int         `json:"index"`
	Direction   string      `json:"direction,omitempty"`
	Degree      int         `json:"degree"`
	Destination *Coordinate `json:"destination,omitempty"`
}

// Message type tags.
const (
	MsgSetup    = "setup"
	MsgTakeTurn = "take-turn"
	MsgWin      = "win"
	MsgState    = "state"
	MsgGameOver = "game-over"
	MsgMove     = "move"
	MsgPass     = "pass"
	MsgAck      = "ack"
)
