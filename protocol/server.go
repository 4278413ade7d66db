package protocol

// PaddleAssignment goes to the joining connection only, and only when a
// slot was granted.
type PaddleAssignment struct {
	Side   string `json:"side"`
	TickHz int    `json:"tickHz"`
}

// State is the full authoritative snapshot broadcast every tick while a
// match is active, and sent directly to a connection when it joins.
type State struct {
	Tick    int             `json:"tick"`
	Ball    BallSnapshot    `json:"ball"`
	Paddles PaddleSnapshots `json:"paddles"`
	Score   ScoreSnapshot   `json:"score"`
	Active  bool            `json:"active"`
	Players []string        `json:"players"`
}

type BallSnapshot struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type PaddleSnapshots struct {
	Left  PaddleSnapshot `json:"left"`
	Right PaddleSnapshot `json:"right"`
}

type PaddleSnapshot struct {
	Y     float64 `json:"y"`
	Owned bool    `json:"owned"`
}

type ScoreSnapshot struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// PaddleUpdate is broadcast immediately after a processed move, independent
// of the tick cadence.
type PaddleUpdate struct {
	Side string  `json:"side"`
	Y    float64 `json:"y"`
}

// Event is the empty payload for gameStart and playerDisconnected.
type Event struct{}
