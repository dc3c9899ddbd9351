// Package remote realizes the referee's capabilities over a websocket:
// synchronous request/reply frames for players, a one-way frame stream for
// observers. Frames are the JSON shapes in pkg/types.
package remote

import (
	"context"

	"github.com/coder/websocket"
)

// Conn is the ordered byte-frame transport under a proxy. *websocket.Conn
// satisfies it through wsConn; tests substitute an in-memory pair.
type Conn interface {
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context) ([]byte, error)
}

type wsConn struct {
	c *websocket.Conn
}

// Wrap adapts a websocket connection to the Conn transport.
func Wrap(c *websocket.Conn) Conn {
	return wsConn{c: c}
}

func (w wsConn) Write(ctx context.Context, data []byte) error {
	return w.c.Write(ctx, websocket.MessageText, data)
}

func (w wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.c.Read(ctx)
	return data, err
}
