package remote

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/mazelabs/maze-referee/internal/game"
	"github.com/mazelabs/maze-referee/pkg/types"
)

const observerWriteTimeout = 3 * time.Second

// ObserverSink streams snapshots to one observer connection. The turn loop
// hands frames over a buffered channel and a writer goroutine drains it, so
// a slow observer can never block or reorder the match: when the buffer
// fills, frames for that observer are dropped.
type ObserverSink struct {
	frames chan types.ServerMessage
	log    *zap.SugaredLogger
}

// NewObserverSink starts the writer goroutine for conn. The sink shuts
// itself down after the game-over frame or when ctx ends.
func NewObserverSink(ctx context.Context, conn Conn, log *zap.SugaredLogger) *ObserverSink {
	s := &ObserverSink{frames: make(chan types.ServerMessage, 16), log: log}
	go s.writeLoop(ctx, conn)
	return s
}

func (s *ObserverSink) OnState(view game.View) {
	st := types.EncodeView(view)
	s.enqueue(types.ServerMessage{Type: types.MsgState, State: &st})
}

func (s *ObserverSink) OnGameOver() {
	s.enqueue(types.ServerMessage{Type: types.MsgGameOver})
	close(s.frames)
}

func (s *ObserverSink) enqueue(msg types.ServerMessage) {
	select {
	case s.frames <- msg:
	default:
		s.log.Debugw("observer too slow, dropping frame", "type", msg.Type)
	}
}

func (s *ObserverSink) writeLoop(ctx context.Context, conn Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.frames:
			if !ok {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				s.log.Warnw("observer frame marshal failed", "error", err)
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, observerWriteTimeout)
			err = conn.Write(wctx, payload)
			cancel()
			if err != nil {
				s.log.Debugw("observer write failed, stopping stream", "error", err)
				return
			}
		}
	}
}
