package protocol

// Messages coming in from the client.

type Join struct {
	Room string `json:"room,omitempty"` // empty selects the default room
}

type MovePaddle struct {
	Direction string `json:"direction"` // "up" or "down"
}
