package systems

import (
	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/sim"
	"github.com/solarlune/resolv"
)

// OfflineWorld runs the whole simulation locally while no server is
// reachable. It applies the same rules as the server loop for one player.
type OfflineWorld struct {
	World  *sim.World
	Body   sim.Body
	Motion sim.PlayerMotion

	probe          *resolv.Object
	hitCooldown    float64
	attackCooldown float64
}

// OfflineEvents is what happened to the local player during one step.
type OfflineEvents struct {
	sim.Contacts
	Swung     []int // enemies defeated by a sword swing this step
	Hit       bool
	FellOut   bool
	Collected int // total value picked up
}

func NewOfflineWorld(level *leveldata.Level, seed int64) *OfflineWorld {
	w := sim.NewWorld(level, seed)
	o := &OfflineWorld{
		World: w,
		Body:  sim.NewPlayerBody(level.Spawn),
	}
	o.probe = w.AddProbe(&o.Body, "offline")
	return o
}

// Step advances the local player and the world by dt.
func (o *OfflineWorld) Step(keys sim.Keys, dt float64) OfflineEvents {
	o.hitCooldown = max(0, o.hitCooldown-dt)
	o.attackCooldown = max(0, o.attackCooldown-dt)

	prevFeet, prevVY := o.Body.Feet(), o.Body.VY
	res := sim.StepPlayer(o.World.Grid, &o.Body, &o.Motion, keys, dt)

	ev := OfflineEvents{Contacts: sim.Contacts{HitBy: -1}}
	if res.FellOut {
		sim.ResetPlayer(&o.Body, &o.Motion, o.World.Level.Spawn)
		ev.FellOut = true
		ev.Hit = true
		prevFeet, prevVY = o.Body.Feet(), 0
	}

	if keys.Attack && o.attackCooldown <= 0 {
		o.attackCooldown = config.Combat.AttackCooldown
		ev.Swung = o.World.SwordHits(sim.SwordBox(&o.Body))
	}

	o.World.Step(dt)

	ev.Contacts = o.World.Interact(o.probe, &o.Body, prevFeet, prevVY, o.hitCooldown <= 0)

	if ev.HitBy >= 0 {
		o.hitCooldown = config.Combat.HitCooldown
		ev.Hit = true
	}
	for _, i := range ev.Picked {
		ev.Collected += o.World.Collectibles[i].Value
	}
	return ev
}
