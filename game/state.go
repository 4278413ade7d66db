package game

// Internal truth: authoritative match state. The owning room is the only
// writer.

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

type Direction string

const (
	DirUp   Direction = "up"
	DirDown Direction = "down"
)

type State struct {
	Tick    int
	Ball    Ball
	Left    Paddle
	Right   Paddle
	Score   Score
	Active  bool
	Players []string // connection ids in join order, paddle owners and spectators
}

type Ball struct {
	X, Y   float64
	DX, DY float64
}

// Paddle is one slot: a vertical offset plus the connection id holding it,
// empty while vacant.
type Paddle struct {
	Y     float64
	Owner string
}

type Score struct {
	Left  int
	Right int
}

func NewState() State {
	mid := (BoardHeight - PaddleHeight) / 2
	return State{
		Ball:  Ball{X: BoardWidth / 2, Y: BoardHeight / 2, DX: BallSpeed, DY: BallSpeed},
		Left:  Paddle{Y: mid},
		Right: Paddle{Y: mid},
	}
}
