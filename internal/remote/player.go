package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mazelabs/maze-referee/internal/board"
	"github.com/mazelabs/maze-referee/internal/game"
	"github.com/mazelabs/maze-referee/internal/referee"
	"github.com/mazelabs/maze-referee/pkg/types"
)

// Player proxies a remote participant behind the PlayerChannel capability.
// Each call writes one request frame and reads exactly one reply frame, so
// replies match requests in order. Anything undecodable is ErrProtocol; a
// decodable reply answering the wrong operation is ErrOutOfTurn. The referee
// bounds every call with a deadline, so the proxy never sets its own.
type Player struct {
	name string
	conn Conn
}

func NewPlayer(name string, conn Conn) *Player {
	return &Player{name: name, conn: conn}
}

func (p *Player) Name() string { return p.name }

func (p *Player) Setup(ctx context.Context, view *game.View, home, goal board.Position) error {
	h, g := types.Coord(home), types.Coord(goal)
	msg := types.ServerMessage{Type: types.MsgSetup, Home: &h, Goal: &g}
	if view != nil {
		st := types.EncodeView(*view)
		msg.State = &st
	}
	return p.callForAck(ctx, msg)
}

func (p *Player) RequestMove(ctx context.Context, view game.View) (*game.Move, error) {
	st := types.EncodeView(view)
	reply, err := p.call(ctx, types.ServerMessage{Type: types.MsgTakeTurn, State: &st})
	if err != nil {
		return nil, err
	}
	switch reply.Type {
	case types.MsgMove, types.MsgPass:
		mv, err := types.DecodeMove(reply)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", referee.ErrProtocol, err)
		}
		return mv, nil
	case types.MsgAck:
		return nil, fmt.Errorf("%w: ack while a move was due", referee.ErrOutOfTurn)
	default:
		return nil, fmt.Errorf("%w: unexpected frame %q", referee.ErrProtocol, reply.Type)
	}
}

func (p *Player) NotifyOutcome(ctx context.Context, won bool) error {
	return p.callForAck(ctx, types.ServerMessage{Type: types.MsgWin, Won: &won})
}

func (p *Player) call(ctx context.Context, msg types.ServerMessage) (types.ClientMessage, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return types.ClientMessage{}, fmt.Errorf("%w: %v", referee.ErrProtocol, err)
	}
	if err := p.conn.Write(ctx, payload); err != nil {
		return types.ClientMessage{}, fmt.Errorf("%w: write: %v", referee.ErrProtocol, err)
	}
	data, err := p.conn.Read(ctx)
	if err != nil {
		return types.ClientMessage{}, fmt.Errorf("%w: read: %v", referee.ErrProtocol, err)
	}
	var reply types.ClientMessage
	if err := json.Unmarshal(data, &reply); err != nil {
		return types.ClientMessage{}, fmt.Errorf("%w: %v", referee.ErrProtocol, err)
	}
	return reply, nil
}

func (p *Player) callForAck(ctx context.Context, msg types.ServerMessage) error {
	reply, err := p.call(ctx, msg)
	if err != nil {
		return err
	}
	switch reply.Type {
	case types.MsgAck:
		return nil
	case types.MsgMove, types.MsgPass:
		return fmt.Errorf("%w: move while an ack was due", referee.ErrOutOfTurn)
	default:
		return fmt.Errorf("%w: unexpected frame %q", referee.ErrProtocol, reply.Type)
	}
}
