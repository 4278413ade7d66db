package game

// Board geometry and speeds. Clients render against the same numbers, so
// changing any of these is a protocol-visible change.
const (
	BoardWidth   = 800.0
	BoardHeight  = 400.0
	PaddleWidth  = 10.0
	PaddleHeight = 80.0
	BallSize     = 10.0
	BallSpeed    = 4.0 // fixed velocity magnitude per axis
	PaddleStep   = 8.0 // offset change per move request
)
