package game

import "golang.org/x/exp/rand"

// Step advances the match by one tick. Deterministic apart from rng, which
// only feeds ball resets. Collisions are checked in a fixed order per tick:
// walls, left paddle, right paddle, out of bounds. No sub-stepping.
func Step(s *State, rng *rand.Rand) {
	s.Tick++

	b := &s.Ball
	b.X += b.DX
	b.Y += b.DY

	// Wall reflection without a position clamp: the ball may overlap the
	// wall by up to one tick's travel.
	if b.Y <= 0 || b.Y >= BoardHeight-BallSize {
		b.DY = -b.DY
	}

	// A slow ball can sit inside a trigger region for several ticks and
	// re-trigger. The forced sign keeps it moving away from the paddle
	// regardless of how often that happens.
	if b.X <= PaddleWidth && withinPaddle(b.Y, s.Left.Y) {
		b.DX = abs(b.DX)
		b.DY = strikeDY(b.Y, s.Left.Y)
	}
	if b.X+BallSize >= BoardWidth-PaddleWidth && withinPaddle(b.Y, s.Right.Y) {
		b.DX = -abs(b.DX)
		b.DY = strikeDY(b.Y, s.Right.Y)
	}

	if b.X < 0 {
		s.Score.Right++
		resetBall(b, rng)
	} else if b.X > BoardWidth {
		s.Score.Left++
		resetBall(b, rng)
	}
}

// MovePaddle shifts one paddle by the fixed step, clamped to the board, and
// returns the resulting offset.
func MovePaddle(s *State, side Side, dir Direction) float64 {
	var p *Paddle
	switch side {
	case SideLeft:
		p = &s.Left
	case SideRight:
		p = &s.Right
	default:
		return 0
	}

	switch dir {
	case DirUp:
		p.Y -= PaddleStep
	case DirDown:
		p.Y += PaddleStep
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y > BoardHeight-PaddleHeight {
		p.Y = BoardHeight - PaddleHeight
	}
	return p.Y
}

func withinPaddle(ballY, paddleY float64) bool {
	return ballY >= paddleY && ballY <= paddleY+PaddleHeight
}

// strikeDY maps where the ball struck the paddle to a vertical speed:
// center hits go straight, edge hits go steep.
func strikeDY(ballY, paddleY float64) float64 {
	rel := (ballY - paddleY) / PaddleHeight
	return (rel - 0.5) * BallSpeed * 2
}

// resetBall re-centers after a goal. Magnitude stays at BallSpeed on both
// axes; only the signs are random.
func resetBall(b *Ball, rng *rand.Rand) {
	b.X = BoardWidth / 2
	b.Y = BoardHeight / 2
	b.DX = BallSpeed * randSign(rng)
	b.DY = BallSpeed * randSign(rng)
}

func randSign(rng *rand.Rand) float64 {
	return float64(rng.Intn(2)*2 - 1)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
