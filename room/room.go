package room

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"pong/game"
	"pong/metrics"
	"pong/protocol"
)

// Room owns the authoritative state for one match. Every mutation and the
// simulation tick run on the single Run goroutine, so the state needs no
// locking and a broadcast can never observe a torn write.
type Room struct {
	Inbox   chan any
	tickHz  int
	state   game.State
	clients map[string]Conn
	rng     *rand.Rand
	quit    chan struct{}

	nplayers atomic.Int32 // mirrors len(clients) for the room list
	active   atomic.Bool  // mirrors state.Active for the room list

	Code    string
	OnEmpty func(code string) // called when the last member leaves
}

func New(code string) *Room {
	return &Room{
		Inbox:   make(chan any, 256),
		tickHz:  protocol.SimTickHz,
		state:   game.NewState(),
		clients: make(map[string]Conn),
		rng:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		quit:    make(chan struct{}),
		Code:    code,
	}
}

// Stop halts the room. Run exits before handling any further command or
// tick, so a stopped room never emits state.
func (r *Room) Stop() {
	close(r.quit)
}

// Done is closed once the room has been stopped.
func (r *Room) Done() <-chan struct{} { return r.quit }

// NumPlayers returns the current number of connected members.
func (r *Room) NumPlayers() int { return int(r.nplayers.Load()) }

// Active reports whether a match is ticking.
func (r *Room) Active() bool { return r.active.Load() }

func (r *Room) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			if r.stopped() {
				return
			}
			r.handleCommand(cmd)
		case <-ticker.C:
			if r.stopped() {
				return
			}
			if !r.state.Active {
				continue
			}
			before := r.state.Score
			game.Step(&r.state, r.rng)
			metrics.TicksTotal.Inc()
			if r.state.Score != before {
				metrics.GoalsTotal.Inc()
			}
			r.broadcastState()
		}
	}
}

func (r *Room) stopped() bool {
	select {
	case <-r.quit:
		return true
	default:
		return false
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		r.handleJoin(c)
	case Move:
		r.handleMove(c)
	case Leave:
		r.handleLeave(c.ConnID)
	}
}

func (r *Room) handleJoin(c Join) {
	if _, ok := r.clients[c.ConnID]; ok {
		// Already a member; a second join changes nothing.
		r.sendTo(c.Conn, protocol.MsgGameState, r.snapshot())
		c.Reply <- JoinResult{Side: r.sideOf(c.ConnID)}
		return
	}

	r.clients[c.ConnID] = c.Conn
	r.state.Players = append(r.state.Players, c.ConnID)
	r.nplayers.Store(int32(len(r.clients)))

	var side game.Side
	switch {
	case r.state.Left.Owner == "":
		r.state.Left.Owner = c.ConnID
		side = game.SideLeft
	case r.state.Right.Owner == "":
		r.state.Right.Owner = c.ConnID
		side = game.SideRight
	}

	if side != "" {
		r.sendTo(c.Conn, protocol.MsgPaddleAssignment, protocol.PaddleAssignment{
			Side:   string(side),
			TickHz: r.tickHz,
		})
	}
	r.sendTo(c.Conn, protocol.MsgGameState, r.snapshot())

	if !r.state.Active && r.state.Left.Owner != "" && r.state.Right.Owner != "" {
		r.state.Active = true
		r.active.Store(true)
		r.broadcast(protocol.MsgGameStart, protocol.Event{})
		logrus.WithField("room", r.Code).Info("match started")
	}

	c.Reply <- JoinResult{Side: side}
}

func (r *Room) handleMove(c Move) {
	side := r.sideOf(c.ConnID)
	if side == "" {
		return
	}
	y := game.MovePaddle(&r.state, side, c.Direction)
	r.broadcast(protocol.MsgPaddleUpdate, protocol.PaddleUpdate{
		Side: string(side),
		Y:    y,
	})
}

func (r *Room) handleLeave(connID string) {
	c, ok := r.clients[connID]
	if !ok {
		return
	}
	delete(r.clients, connID)
	r.state.Players = removeID(r.state.Players, connID)
	r.nplayers.Store(int32(len(r.clients)))
	_ = c.Close()

	switch r.sideOf(connID) {
	case game.SideLeft:
		r.state.Left.Owner = ""
	case game.SideRight:
		r.state.Right.Owner = ""
	}

	wasActive := r.state.Active
	r.state.Active = r.state.Left.Owner != "" && r.state.Right.Owner != ""
	r.active.Store(r.state.Active)
	if wasActive && !r.state.Active {
		r.broadcast(protocol.MsgPlayerDisconnected, protocol.Event{})
		logrus.WithFields(logrus.Fields{"room": r.Code, "conn": connID}).Info("player left mid-match")
	}

	if len(r.clients) == 0 && r.OnEmpty != nil {
		r.OnEmpty(r.Code)
	}
}

func (r *Room) sideOf(connID string) game.Side {
	if connID == "" {
		return ""
	}
	if r.state.Left.Owner == connID {
		return game.SideLeft
	}
	if r.state.Right.Owner == connID {
		return game.SideRight
	}
	return ""
}

func (r *Room) broadcastState() {
	r.broadcast(protocol.MsgGameState, r.snapshot())
}

func (r *Room) broadcast(t string, payload any) {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		return
	}
	for _, c := range r.clients {
		// Delivery failures are the transport's problem; cleanup arrives
		// as an explicit Leave.
		_ = c.Send(b)
	}
}

func (r *Room) sendTo(c Conn, t string, payload any) {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		return
	}
	_ = c.Send(b)
}

func (r *Room) snapshot() protocol.State {
	players := make([]string, len(r.state.Players))
	copy(players, r.state.Players)
	return protocol.State{
		Tick: r.state.Tick,
		Ball: protocol.BallSnapshot{
			X:  r.state.Ball.X,
			Y:  r.state.Ball.Y,
			DX: r.state.Ball.DX,
			DY: r.state.Ball.DY,
		},
		Paddles: protocol.PaddleSnapshots{
			Left:  protocol.PaddleSnapshot{Y: r.state.Left.Y, Owned: r.state.Left.Owner != ""},
			Right: protocol.PaddleSnapshot{Y: r.state.Right.Y, Owned: r.state.Right.Owner != ""},
		},
		Score:   protocol.ScoreSnapshot{Left: r.state.Score.Left, Right: r.state.Score.Right},
		Active:  r.state.Active,
		Players: players,
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
