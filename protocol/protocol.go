package protocol

import (
	"encoding/json"
)

const (
	// inbound
	MsgJoin       = "join"
	MsgMovePaddle = "movePaddle"

	// outbound
	MsgPaddleAssignment   = "paddleAssignment"
	MsgGameState          = "gameState"
	MsgPaddleUpdate       = "paddleUpdate"
	MsgGameStart          = "gameStart"
	MsgPlayerDisconnected = "playerDisconnected"
)

// SimTickHz is the fixed simulation rate while a match is active. The full
// state snapshot goes out once per tick.
const SimTickHz = 60

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}
