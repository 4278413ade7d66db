package room

import (
	"testing"
	"time"

	"pong/game"
	"pong/protocol"
)

type fakeConn struct {
	sendCh chan []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{sendCh: make(chan []byte, 256)}
}

func (f *fakeConn) Send(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	select {
	case f.sendCh <- cp:
	default: // drop when the buffer is full, like a slow client
	}
	return nil
}

func (f *fakeConn) Close() error { return nil }

func join(t *testing.T, r *Room, id string, fc *fakeConn) JoinResult {
	t.Helper()
	reply := make(chan JoinResult, 1)
	r.Inbox <- Join{ConnID: id, Conn: fc, Reply: reply}
	select {
	case res := <-reply:
		return res
	case <-time.After(2 * time.Second):
		t.Fatalf("join %q timed out", id)
	}
	return JoinResult{}
}

// waitFor drains fc until a message of the wanted type arrives and returns
// its decoded payload.
func waitFor[T any](t *testing.T, fc *fakeConn, msgType string) T {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case b := <-fc.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.T != msgType {
				continue
			}
			payload, err := protocol.DecodePayload[T](env)
			if err != nil {
				t.Fatalf("decode %s payload: %v", msgType, err)
			}
			return payload
		case <-timeout:
			t.Fatalf("timed out waiting for %q", msgType)
		}
	}
}

// assertNo fails if a message of the given type shows up within the window.
func assertNo(t *testing.T, fc *fakeConn, msgType string, window time.Duration) {
	t.Helper()
	deadline := time.After(window)
	for {
		select {
		case b := <-fc.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.T == msgType {
				t.Fatalf("unexpected %q message", msgType)
			}
		case <-deadline:
			return
		}
	}
}

func TestJoinAssignsLeftThenRightThenSpectator(t *testing.T) {
	r := New("r1")
	go r.Run()
	defer r.Stop()

	a, b, c := newFakeConn(), newFakeConn(), newFakeConn()

	if res := join(t, r, "a", a); res.Side != game.SideLeft {
		t.Fatalf("first join side = %q, want left", res.Side)
	}
	pa := waitFor[protocol.PaddleAssignment](t, a, protocol.MsgPaddleAssignment)
	if pa.Side != "left" || pa.TickHz != protocol.SimTickHz {
		t.Fatalf("assignment = %+v, want left at %d Hz", pa, protocol.SimTickHz)
	}
	st := waitFor[protocol.State](t, a, protocol.MsgGameState)
	if st.Active {
		t.Fatalf("room active with one player")
	}
	if len(st.Players) != 1 || st.Players[0] != "a" {
		t.Fatalf("players = %v, want [a]", st.Players)
	}
	// One player means Waiting: no periodic broadcasts yet.
	assertNo(t, a, protocol.MsgGameState, 100*time.Millisecond)

	if res := join(t, r, "b", b); res.Side != game.SideRight {
		t.Fatalf("second join side = %q, want right", res.Side)
	}
	if res := join(t, r, "c", c); res.Side != "" {
		t.Fatalf("third join side = %q, want spectator", res.Side)
	}
	// Spectators never get an assignment but do get the snapshot.
	assertNo(t, c, protocol.MsgPaddleAssignment, 50*time.Millisecond)
}

func TestSecondJoinStartsMatch(t *testing.T) {
	r := New("r1")
	go r.Run()
	defer r.Stop()

	a, b := newFakeConn(), newFakeConn()
	join(t, r, "a", a)
	join(t, r, "b", b)

	waitFor[protocol.Event](t, a, protocol.MsgGameStart)
	waitFor[protocol.Event](t, b, protocol.MsgGameStart)

	for {
		st := waitFor[protocol.State](t, a, protocol.MsgGameState)
		if !st.Active {
			continue
		}
		if !st.Paddles.Left.Owned || !st.Paddles.Right.Owned {
			t.Fatalf("active snapshot with unowned slot: %+v", st.Paddles)
		}
		if st.Tick == 0 {
			t.Fatalf("active snapshot before any tick")
		}
		return
	}
}

func TestMoveBroadcastsPaddleUpdateOutOfBand(t *testing.T) {
	r := New("r1")
	go r.Run()
	defer r.Stop()

	a := newFakeConn()
	join(t, r, "a", a)

	// Moves apply in Waiting too, without any tick running.
	r.Inbox <- Move{ConnID: "a", Direction: game.DirUp}
	up := waitFor[protocol.PaddleUpdate](t, a, protocol.MsgPaddleUpdate)
	if up.Side != "left" {
		t.Fatalf("update side = %q, want left", up.Side)
	}
	want := (game.BoardHeight-game.PaddleHeight)/2 - game.PaddleStep
	if up.Y != want {
		t.Fatalf("update y = %f, want %f", up.Y, want)
	}

	// A connection without a paddle can't move one.
	r.Inbox <- Move{ConnID: "ghost", Direction: game.DirDown}
	assertNo(t, a, protocol.MsgPaddleUpdate, 100*time.Millisecond)
}

func TestDisconnectMidMatch(t *testing.T) {
	r := New("r1")
	go r.Run()
	defer r.Stop()

	a, b := newFakeConn(), newFakeConn()
	join(t, r, "a", a)
	join(t, r, "b", b)
	waitFor[protocol.Event](t, b, protocol.MsgGameStart)

	// Park the surviving paddle somewhere recognizable.
	r.Inbox <- Move{ConnID: "b", Direction: game.DirDown}
	waitFor[protocol.PaddleUpdate](t, b, protocol.MsgPaddleUpdate)

	r.Inbox <- Leave{ConnID: "a"}
	waitFor[protocol.Event](t, b, protocol.MsgPlayerDisconnected)
	// Active→Waiting stops the tick: nothing more after the event.
	assertNo(t, b, protocol.MsgGameState, 150*time.Millisecond)

	// The vacated slot goes to the next joiner; the survivor keeps slot and
	// position.
	c := newFakeConn()
	if res := join(t, r, "c", c); res.Side != game.SideLeft {
		t.Fatalf("rejoin side = %q, want left", res.Side)
	}
	st := waitFor[protocol.State](t, c, protocol.MsgGameState)
	if !st.Paddles.Right.Owned {
		t.Fatalf("survivor lost its slot")
	}
	wantY := (game.BoardHeight-game.PaddleHeight)/2 + game.PaddleStep
	if st.Paddles.Right.Y != wantY {
		t.Fatalf("survivor paddle y = %f, want %f", st.Paddles.Right.Y, wantY)
	}
}

func TestStoppedRoomEmitsNothing(t *testing.T) {
	r := New("r1")
	go r.Run()

	a, b := newFakeConn(), newFakeConn()
	join(t, r, "a", a)
	join(t, r, "b", b)
	waitFor[protocol.Event](t, a, protocol.MsgGameStart)

	r.Stop()
	time.Sleep(50 * time.Millisecond)
	for drained := false; !drained; {
		select {
		case <-a.sendCh:
		default:
			drained = true
		}
	}

	r.Inbox <- Move{ConnID: "a", Direction: game.DirUp}
	select {
	case msg := <-a.sendCh:
		t.Fatalf("message after stop: %s", msg)
	case <-time.After(150 * time.Millisecond):
	}
}
