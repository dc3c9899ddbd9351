package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mazelabs/maze-referee/internal/referee"
)

// deafConn accepts writes and never answers reads: a joined peer that goes
// silent. Every referee call against it times out.
type deafConn struct{}

func (deafConn) Write(context.Context, []byte) error { return nil }

func (deafConn) Read(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type savedResult struct {
	code   string
	result referee.GameResult
}

type fakeStore struct {
	saved chan savedResult
}

func (f *fakeStore) SaveResult(_ context.Context, code string, result referee.GameResult) error {
	f.saved <- savedResult{code: code, result: result}
	return nil
}

// helper: receive one error with a timeout so tests never hang
func recvErr(t *testing.T, ch <-chan error, within time.Duration) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(within):
		t.Fatalf("timed out waiting for join reply")
		return nil // unreachable
	}
}

func recvStatus(t *testing.T, s *Session, within time.Duration) Status {
	t.Helper()
	reply := make(chan Status, 1)
	s.Inbox() <- GetStatus{Reply: reply}
	select {
	case st := <-reply:
		return st
	case <-time.After(within):
		t.Fatalf("timed out waiting for status")
		return Status{} // unreachable
	}
}

func waitClosed(t *testing.T, ch <-chan struct{}, within time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(within):
		t.Fatalf("timed out waiting for the match to finish")
	}
}

func testSession(t *testing.T, store ResultSink) *Session {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, Config{
		Code:        "TEST42",
		PlayersWant: 2,
		Referee: referee.Config{
			Rows: 7, Cols: 7,
			MoveTimeout: 20 * time.Millisecond,
		},
		Store: store,
	})
}

func join(s *Session, name string) (chan error, chan struct{}) {
	errCh := make(chan error, 1)
	done := make(chan struct{})
	s.Inbox() <- JoinPlayer{Name: name, Conn: deafConn{}, Err: errCh, Done: done}
	return errCh, done
}

func TestSessionRunsMatchWhenFull(t *testing.T) {
	store := &fakeStore{saved: make(chan savedResult, 1)}
	s := testSession(t, store)

	errCh, done1 := join(s, "ada")
	if err := recvErr(t, errCh, time.Second); err != nil {
		t.Fatalf("first join: %v", err)
	}

	st := recvStatus(t, s, time.Second)
	if st.Phase != Waiting || len(st.Players) != 1 || st.Players[0] != "ada" {
		t.Fatalf("after one join: %+v", st)
	}

	errCh, done2 := join(s, "bob")
	if err := recvErr(t, errCh, time.Second); err != nil {
		t.Fatalf("second join: %v", err)
	}

	// Both peers are silent, so setup times out, everyone is kicked and the
	// match finishes on its own.
	waitClosed(t, done1, 5*time.Second)
	waitClosed(t, done2, 5*time.Second)

	st = recvStatus(t, s, time.Second)
	if st.Phase != Done {
		t.Fatalf("phase after finish: %v", st.Phase)
	}
	if st.Result == nil || len(st.Result.Cheaters) != 2 {
		t.Fatalf("result after finish: %+v", st.Result)
	}

	select {
	case saved := <-store.saved:
		if saved.code != "TEST42" || len(saved.result.Cheaters) != 2 {
			t.Fatalf("persisted: %+v", saved)
		}
	case <-time.After(time.Second):
		t.Fatalf("result was never persisted")
	}
}

func TestSessionRejectsDuplicateName(t *testing.T) {
	s := testSession(t, nil)

	errCh, _ := join(s, "ada")
	if err := recvErr(t, errCh, time.Second); err != nil {
		t.Fatalf("first join: %v", err)
	}

	errCh, _ = join(s, "ada")
	if err := recvErr(t, errCh, time.Second); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("want ErrNameTaken, got %v", err)
	}
}

func TestSessionRejectsLateJoiners(t *testing.T) {
	s := testSession(t, nil)

	errCh, done1 := join(s, "ada")
	recvErr(t, errCh, time.Second)
	errCh, _ = join(s, "bob")
	recvErr(t, errCh, time.Second)

	// The match is running (or already done); either way joining is over.
	errCh, _ = join(s, "eve")
	if err := recvErr(t, errCh, time.Second); !errors.Is(err, ErrMatchStarted) {
		t.Fatalf("want ErrMatchStarted, got %v", err)
	}

	waitClosed(t, done1, 5*time.Second)
}

func TestSessionObserversOnlyBeforeStart(t *testing.T) {
	s := testSession(t, nil)

	errCh := make(chan error, 1)
	s.Inbox() <- JoinObserver{Conn: deafConn{}, Err: errCh}
	if err := recvErr(t, errCh, time.Second); err != nil {
		t.Fatalf("observer join: %v", err)
	}

	e1, _ := join(s, "ada")
	recvErr(t, e1, time.Second)
	e2, _ := join(s, "bob")
	recvErr(t, e2, time.Second)

	errCh = make(chan error, 1)
	s.Inbox() <- JoinObserver{Conn: deafConn{}, Err: errCh}
	if err := recvErr(t, errCh, time.Second); !errors.Is(err, ErrMatchStarted) {
		t.Fatalf("want ErrMatchStarted, got %v", err)
	}
}

func TestSessionShutdownReleasesPlayers(t *testing.T) {
	s := testSession(t, nil)

	errCh, done := join(s, "ada")
	recvErr(t, errCh, time.Second)

	s.Inbox() <- Shutdown{}
	waitClosed(t, done, time.Second)
}
