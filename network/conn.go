package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// client wraps one websocket connection behind the room.Conn interface.
// Outbound frames go through a buffered channel drained by writeLoop, so a
// slow client can never stall a room's tick; a full buffer drops the frame.
type client struct {
	id  string
	ws  *websocket.Conn
	out chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id string, ws *websocket.Conn) *client {
	return &client{
		id:   id,
		ws:   ws,
		out:  make(chan []byte, 256),
		done: make(chan struct{}),
	}
}

// Send enqueues a frame without blocking. Delivery reliability is the
// transport's concern, not the simulation's.
func (c *client) Send(b []byte) error {
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	case c.out <- b:
		return nil
	default:
		return nil
	}
}

func (c *client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
	return nil
}

// writeLoop owns all writes on the socket: queued frames plus periodic
// pings. Exits on write failure or Close.
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
