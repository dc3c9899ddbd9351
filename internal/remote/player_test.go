package remote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mazelabs/maze-referee/internal/board"
	"github.com/mazelabs/maze-referee/internal/game"
	"github.com/mazelabs/maze-referee/internal/referee"
	"github.com/mazelabs/maze-referee/pkg/types"
)

// fakeConn replays scripted replies and records everything written to it.
type fakeConn struct {
	replies [][]byte
	writes  [][]byte
	readErr error
}

func (c *fakeConn) Write(_ context.Context, data []byte) error {
	c.writes = append(c.writes, data)
	return nil
}

func (c *fakeConn) Read(context.Context) ([]byte, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	if len(c.replies) == 0 {
		return nil, errors.New("no scripted reply")
	}
	data := c.replies[0]
	c.replies = c.replies[1:]
	return data, nil
}

func reply(t *testing.T, msg types.ClientMessage) []byte {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return data
}

func testView(t *testing.T) game.View {
	t.Helper()
	grid := [][]board.Tile{
		{board.TileFromNum(0), board.TileFromNum(1)},
		{board.TileFromNum(2), board.TileFromNum(3)},
	}
	b, err := board.New(grid, board.TileFromNum(4))
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	return game.View{Board: b, Players: []game.PublicPlayer{{Name: "ada", Color: "red"}}}
}

func TestPlayerRequestMove(t *testing.T) {
	dest := types.Coordinate{Row: 1, Column: 1}

	cases := []struct {
		name     string
		reply    types.ClientMessage
		wantMove *game.Move
		wantErr  error
	}{
		{
			name:  "move reply decodes",
			reply: types.ClientMessage{Type: types.MsgMove, Index: 2, Direction: "LEFT", Degree: 90, Destination: &dest},
			wantMove: &game.Move{
				Slide:       board.Slide{Index: 2, Direction: board.West},
				Rotations:   1,
				Destination: board.Position{Row: 1, Col: 1},
			},
		},
		{
			name:     "pass reply is a nil move",
			reply:    types.ClientMessage{Type: types.MsgPass},
			wantMove: nil,
		},
		{
			name:    "ack is an answer to the wrong request",
			reply:   types.ClientMessage{Type: types.MsgAck},
			wantErr: referee.ErrOutOfTurn,
		},
		{
			name:    "unknown frame",
			reply:   types.ClientMessage{Type: "shrug"},
			wantErr: referee.ErrProtocol,
		},
		{
			name:    "bad direction",
			reply:   types.ClientMessage{Type: types.MsgMove, Direction: "SIDEWAYS", Destination: &dest},
			wantErr: referee.ErrProtocol,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := &fakeConn{replies: [][]byte{reply(t, tc.reply)}}
			p := NewPlayer("ada", conn)

			mv, err := p.RequestMove(context.Background(), testView(t))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RequestMove: %v", err)
			}
			if tc.wantMove == nil {
				if mv != nil {
					t.Fatalf("want pass, got %+v", mv)
				}
				return
			}
			if mv == nil || *mv != *tc.wantMove {
				t.Fatalf("want %+v, got %+v", tc.wantMove, mv)
			}

			// The request frame must be a take-turn carrying the view.
			var sent types.ServerMessage
			if err := json.Unmarshal(conn.writes[0], &sent); err != nil {
				t.Fatalf("unmarshal request: %v", err)
			}
			if sent.Type != types.MsgTakeTurn || sent.State == nil {
				t.Fatalf("unexpected request frame: %+v", sent)
			}
		})
	}
}

func TestPlayerSetupAndOutcomeWantAcks(t *testing.T) {
	home := board.Position{Row: 1, Col: 1}
	view := testView(t)

	t.Run("setup acked", func(t *testing.T) {
		conn := &fakeConn{replies: [][]byte{reply(t, types.ClientMessage{Type: types.MsgAck})}}
		p := NewPlayer("ada", conn)
		if err := p.Setup(context.Background(), &view, home, home); err != nil {
			t.Fatalf("Setup: %v", err)
		}
		var sent types.ServerMessage
		if err := json.Unmarshal(conn.writes[0], &sent); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		if sent.Type != types.MsgSetup || sent.Home == nil || sent.Goal == nil || sent.State == nil {
			t.Fatalf("unexpected setup frame: %+v", sent)
		}
	})

	t.Run("goal re-announcement carries no state", func(t *testing.T) {
		conn := &fakeConn{replies: [][]byte{reply(t, types.ClientMessage{Type: types.MsgAck})}}
		p := NewPlayer("ada", conn)
		if err := p.Setup(context.Background(), nil, home, home); err != nil {
			t.Fatalf("Setup: %v", err)
		}
		var sent types.ServerMessage
		if err := json.Unmarshal(conn.writes[0], &sent); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		if sent.State != nil {
			t.Fatalf("re-announcement must not carry a state")
		}
	})

	t.Run("move instead of ack", func(t *testing.T) {
		conn := &fakeConn{replies: [][]byte{reply(t, types.ClientMessage{Type: types.MsgPass})}}
		p := NewPlayer("ada", conn)
		if err := p.Setup(context.Background(), &view, home, home); !errors.Is(err, referee.ErrOutOfTurn) {
			t.Fatalf("want ErrOutOfTurn, got %v", err)
		}
	})

	t.Run("outcome", func(t *testing.T) {
		conn := &fakeConn{replies: [][]byte{reply(t, types.ClientMessage{Type: types.MsgAck})}}
		p := NewPlayer("ada", conn)
		if err := p.NotifyOutcome(context.Background(), true); err != nil {
			t.Fatalf("NotifyOutcome: %v", err)
		}
		var sent types.ServerMessage
		if err := json.Unmarshal(conn.writes[0], &sent); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		if sent.Type != types.MsgWin || sent.Won == nil || !*sent.Won {
			t.Fatalf("unexpected win frame: %+v", sent)
		}
	})
}

func TestPlayerTransportFailureIsProtocolError(t *testing.T) {
	conn := &fakeConn{readErr: errors.New("peer gone")}
	p := NewPlayer("ada", conn)
	_, err := p.RequestMove(context.Background(), testView(t))
	if !errors.Is(err, referee.ErrProtocol) {
		t.Fatalf("want ErrProtocol, got %v", err)
	}

	conn = &fakeConn{replies: [][]byte{[]byte("not json")}}
	p = NewPlayer("ada", conn)
	_, err = p.RequestMove(context.Background(), testView(t))
	if !errors.Is(err, referee.ErrProtocol) {
		t.Fatalf("want ErrProtocol, got %v", err)
	}
}

// chanConn forwards writes to a channel so the test can watch the observer
// stream in order.
type chanConn struct {
	frames chan []byte
}

func (c *chanConn) Write(_ context.Context, data []byte) error {
	c.frames <- data
	return nil
}

func (c *chanConn) Read(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func recvFrame(t *testing.T, ch <-chan []byte, within time.Duration) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(within):
		t.Fatalf("timed out waiting for observer frame")
		return nil // unreachable
	}
}

func TestObserverSinkStreamsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := &chanConn{frames: make(chan []byte, 4)}
	sink := NewObserverSink(ctx, conn, zap.NewNop().Sugar())

	sink.OnState(testView(t))
	sink.OnGameOver()

	var first types.ServerMessage
	if err := json.Unmarshal(recvFrame(t, conn.frames, time.Second), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first.Type != types.MsgState || first.State == nil {
		t.Fatalf("first frame should be a snapshot: %+v", first)
	}

	var last types.ServerMessage
	if err := json.Unmarshal(recvFrame(t, conn.frames, time.Second), &last); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if last.Type != types.MsgGameOver {
		t.Fatalf("last frame should be game-over: %+v", last)
	}
}
