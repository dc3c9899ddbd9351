package hub

import (
	"context"
	"testing"
	"time"

	"github.com/mazelabs/maze-referee/internal/session"
)

func recvSession(t *testing.T, ch <-chan *session.Session) *session.Session {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for hub reply")
		return nil // unreachable
	}
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, Deps{})
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateMatch{Code: "ZED123", Players: 2, Reply: reply}
	s1 := recvSession(t, reply)

	h.Inbox() <- GetMatch{Code: "ZED123", Reply: reply}
	s2 := recvSession(t, reply)

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}
}

func TestHub_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, Deps{})
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateMatch{Code: "ZED123", Players: 2, Reply: reply}
	s1 := recvSession(t, reply)

	h.Inbox() <- CreateMatch{Code: "ZED123", Players: 4, Reply: reply}
	s2 := recvSession(t, reply)

	if s1 != s2 {
		t.Fatalf("creating an existing code must return the existing session")
	}
}

func TestHub_GetMissingIsNil(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, Deps{})
	reply := make(chan *session.Session, 1)

	h.Inbox() <- GetMatch{Code: "NOPE", Reply: reply}
	if s := recvSession(t, reply); s != nil {
		t.Fatalf("expected nil for an unknown code, got %+v", s)
	}
}

func TestHub_RemoveMatch(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, Deps{})
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateMatch{Code: "ZED123", Players: 2, Reply: reply}
	recvSession(t, reply)

	h.Inbox() <- RemoveMatch{Code: "ZED123"}

	h.Inbox() <- GetMatch{Code: "ZED123", Reply: reply}
	if s := recvSession(t, reply); s != nil {
		t.Fatalf("expected the match to be gone")
	}
}
