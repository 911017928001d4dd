package core

import (
	"math"
	"time"

	"github.com/imdvls/Pixelknight/shared/sim"
	"github.com/solarlune/resolv"
)

// PlayerPhysics holds per-player simulation state on the server. This is not
// a donburi component: it exists only on the server and is never synced.
type PlayerPhysics struct {
	Probe  *resolv.Object // broadphase box in the sim.World space
	Motion sim.PlayerMotion

	// Latest input snapshot, overwritten by every input command and read by
	// the physics tick. Last input wins between ticks.
	Keys         sim.Keys
	LastInputSeq uint32

	// Attack state: attacking while AttackTimer > 0, idle otherwise.
	// AttackCooldown gates the next swing.
	AttackTimer    float64
	AttackCooldown float64

	// HitCooldown is the remaining invulnerability after a hit.
	HitCooldown float64

	// LastSeen is refreshed by every frame from the client.
	LastSeen time.Time

	// Vertical state before the last physics step, for stomp detection.
	prevFeet float64
	prevVY   float64
}

func newPlayerPhysics(w *sim.World, body *sim.Body, id string, now time.Time) *PlayerPhysics {
	return &PlayerPhysics{
		Probe:    w.AddProbe(body, id),
		LastSeen: now,
		prevFeet: body.Feet(),
	}
}

func removePlayerPhysics(w *sim.World, pp *PlayerPhysics) {
	w.RemoveProbe(pp.Probe)
}

// tickTimers counts down the per-player cooldowns.
func (pp *PlayerPhysics) tickTimers(dt float64) {
	pp.AttackTimer = math.Max(0, pp.AttackTimer-dt)
	pp.AttackCooldown = math.Max(0, pp.AttackCooldown-dt)
	pp.HitCooldown = math.Max(0, pp.HitCooldown-dt)
}

func (pp *PlayerPhysics) Attacking() bool {
	return pp.AttackTimer > 0
}
