// Package sim is the entity model shared by the authoritative server and the
// client's offline fallback: bodies, the player motion step, the enemy state
// machine, collectibles and the interaction rules that tie them together.
package sim

import "github.com/imdvls/Pixelknight/shared/gamemath"

// Body holds the fields every simulated entity has.
type Body struct {
	X, Y        float64
	VX, VY      float64
	W, H        float64
	FacingRight bool

	Frame      int
	FrameTimer float64
}

func (b *Body) Rect() gamemath.Rect {
	return gamemath.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// Feet is the Y coordinate of the bottom edge.
func (b *Body) Feet() float64 {
	return b.Y + b.H
}

// Animate toggles between the two animation frames every frameDuration seconds.
func (b *Body) Animate(dt, frameDuration float64) {
	b.FrameTimer += dt
	for b.FrameTimer >= frameDuration {
		b.FrameTimer -= frameDuration
		b.Frame = (b.Frame + 1) % 2
	}
}

func (b *Body) resetAnimation() {
	b.Frame = 0
	b.FrameTimer = 0
}
