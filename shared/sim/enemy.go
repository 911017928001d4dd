package sim

import (
	"math/rand"

	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/collision"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/netconfig"
)

// Enemy patrols between two bounds until it is defeated, then waits out its
// respawn timer and reappears at its origin.
type Enemy struct {
	Body
	Kind       netconfig.EnemyKind
	LeftBound  float64
	RightBound float64

	Defeated     bool
	RespawnTimer float64

	OriginX, OriginY float64
	Speed            float64
}

// NewEnemy builds an enemy from its spawn with a random initial direction.
func NewEnemy(spawn leveldata.EnemySpawn, rng *rand.Rand) *Enemy {
	cfg := config.EnemyType(spawn.Kind)
	left, right := spawn.LeftBound, spawn.RightBound
	if right < left {
		left, right = right, left
	}
	x := min(max(spawn.X, left), right)

	e := &Enemy{
		Body: Body{
			X: x,
			Y: spawn.Y,
			W: float64(cfg.Width),
			H: float64(cfg.Height),
		},
		Kind:       cfg.Kind,
		LeftBound:  left,
		RightBound: right,
		OriginX:    x,
		OriginY:    spawn.Y,
		Speed:      cfg.PatrolSpeed,
	}
	e.randomizeDirection(rng)
	return e
}

func (e *Enemy) randomizeDirection(rng *rand.Rand) {
	e.FacingRight = rng == nil || rng.Intn(2) == 0
	if e.FacingRight {
		e.VX = e.Speed
	} else {
		e.VX = -e.Speed
	}
}

// Update advances the state machine by dt seconds.
func (e *Enemy) Update(dt float64, rng *rand.Rand) {
	if e.Defeated {
		e.RespawnTimer -= dt
		if e.RespawnTimer <= 0 {
			e.Respawn(rng)
		}
		return
	}

	e.X += e.VX * dt
	if e.X >= e.RightBound {
		e.X = e.RightBound
		e.VX = -e.Speed
		e.FacingRight = false
	} else if e.X <= e.LeftBound {
		e.X = e.LeftBound
		e.VX = e.Speed
		e.FacingRight = true
	}
	e.Animate(dt, config.Enemy.FrameDuration)
}

// Defeat switches to the defeated state. Defeating an already defeated enemy
// does nothing and reports false.
func (e *Enemy) Defeat() bool {
	if e.Defeated {
		return false
	}
	e.Defeated = true
	e.RespawnTimer = config.Enemy.RespawnTime
	e.VX, e.VY = 0, 0
	return true
}

// Respawn returns the enemy to its origin, patrolling in a random direction.
func (e *Enemy) Respawn(rng *rand.Rand) {
	e.X, e.Y = e.OriginX, e.OriginY
	e.VY = 0
	e.Defeated = false
	e.RespawnTimer = 0
	e.resetAnimation()
	e.randomizeDirection(rng)
}

// Placed positions the current frame's mask in the world.
func (e *Enemy) Placed() collision.Placed {
	return collision.Placed{Box: e.Rect(), Mask: EnemyMask(e.Kind, e.Frame), FacingLeft: !e.FacingRight}
}
