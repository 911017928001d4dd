package sim

import (
	"math"

	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/collision"
	"github.com/imdvls/Pixelknight/shared/gamemath"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/netconfig"
)

// Keys is one held-key snapshot.
type Keys struct {
	Left   bool
	Right  bool
	Jump   bool
	Attack bool
}

// PlayerMotion is the per-player state the motion step needs besides the body.
type PlayerMotion struct {
	OnGround     bool
	JumpCooldown float64
	JumpHeld     bool // previous step's jump key, for edge detection
}

// NewPlayerBody places a player box at the spawn point, facing right.
func NewPlayerBody(spawn leveldata.SpawnPoint) Body {
	return Body{
		X:           spawn.X,
		Y:           spawn.Y,
		W:           netconfig.PlayerWidth,
		H:           netconfig.PlayerHeight,
		FacingRight: true,
	}
}

// horizontal sets VX straight from the keys; there is no acceleration.
func horizontal(b *Body, keys Keys) {
	switch {
	case keys.Left && !keys.Right:
		b.VX = -netconfig.MoveSpeed
		b.FacingRight = false
	case keys.Right && !keys.Left:
		b.VX = netconfig.MoveSpeed
		b.FacingRight = true
	default:
		b.VX = 0
	}
}

// jump starts a jump on a fresh press while grounded, and cuts a rising jump
// short once the key is released.
func jump(b *Body, m *PlayerMotion, keys Keys) {
	if keys.Jump && !m.JumpHeld && m.OnGround && m.JumpCooldown <= 0 {
		b.VY = netconfig.JumpSpeed
		m.OnGround = false
		m.JumpCooldown = netconfig.JumpCooldown
	}
	if !keys.Jump && b.VY < netconfig.MinJumpVelocity {
		b.VY = netconfig.MinJumpVelocity
	}
	m.JumpHeld = keys.Jump
}

// StepPlayer advances a player by dt with full collision against g. The
// server and the client's prediction both run exactly this.
func StepPlayer(g collision.Grid, b *Body, m *PlayerMotion, keys Keys, dt float64) collision.Result {
	m.JumpCooldown = math.Max(0, m.JumpCooldown-dt)
	horizontal(b, keys)
	jump(b, m, keys)

	dy, vy := gamemath.Integrate(b.VY, netconfig.Gravity, dt)
	vy = gamemath.ClampSpeed(vy, netconfig.MaxFallSpeed)
	res := collision.Move(g, b.Rect(), b.VX, vy, b.VX*dt, dy)

	b.X, b.Y = res.X, res.Y
	b.VX, b.VY = res.VX, res.VY
	m.OnGround = res.OnGround

	if m.OnGround && b.VX != 0 {
		b.Animate(dt, config.Player.FrameDuration)
	} else {
		b.resetAnimation()
	}
	return res
}

// ReplaySimple re-applies one input without collision. Reconciliation uses it
// to replay unacknowledged inputs on top of the server state; grounded bodies
// do not accumulate gravity so standing players don't sink.
func ReplaySimple(b *Body, m *PlayerMotion, keys Keys, dt float64) {
	m.JumpCooldown = math.Max(0, m.JumpCooldown-dt)
	horizontal(b, keys)
	jump(b, m, keys)

	b.X += b.VX * dt
	if m.OnGround {
		return
	}
	dy, vy := gamemath.Integrate(b.VY, netconfig.Gravity, dt)
	b.Y += dy
	b.VY = gamemath.ClampSpeed(vy, netconfig.MaxFallSpeed)
}

// ResetPlayer puts a body back at spawn at rest.
func ResetPlayer(b *Body, m *PlayerMotion, spawn leveldata.SpawnPoint) {
	b.X, b.Y = spawn.X, spawn.Y
	b.VX, b.VY = 0, 0
	b.resetAnimation()
	*m = PlayerMotion{}
}
