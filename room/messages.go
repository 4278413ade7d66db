package room

import "pong/game"

// Conn is the transport-facing send primitive. Sends are fire-and-forget:
// the room never retries and never blocks on a slow client.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Join registers a connection. Reply carries the paddle assignment; Side is
// empty when both slots were taken and the connection joined as a spectator.
type Join struct {
	ConnID string
	Conn   Conn
	Reply  chan<- JoinResult
}

type JoinResult struct {
	Side game.Side
}

// Move nudges the paddle owned by ConnID. No-op for spectators.
type Move struct {
	ConnID    string
	Direction game.Direction
}

// Leave is issued by the transport when a connection goes away.
type Leave struct {
	ConnID string
}
