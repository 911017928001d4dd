package core

import (
	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/imdvls/Pixelknight/shared/netcomponents"
	"github.com/imdvls/Pixelknight/shared/sim"
)

// stepPlayers runs one physics step for every player in join order with
// their latest keys. Clients predict with the same sim.StepPlayer, so the
// only server-side extras are cooldowns and falling out of the world.
func (ws *WorldState) stepPlayers(dt float64) {
	for _, id := range ws.order {
		entry, pp, ok := ws.player(id)
		if !ok {
			continue
		}
		body := netcomponents.NetBody.Get(entry)
		state := netcomponents.NetPlayerState.Get(entry)

		pp.tickTimers(dt)
		pp.prevFeet, pp.prevVY = body.Feet(), body.VY

		res := sim.StepPlayer(ws.Level.Grid, body, &pp.Motion, pp.Keys, dt)
		if res.FellOut {
			sim.ResetPlayer(body, &pp.Motion, ws.Level.Spawn)
			pp.prevFeet, pp.prevVY = body.Feet(), 0
			ws.emit(messages.NewPlayerHit(id, config.Combat.HitDamage, true))
		}

		state.LastProcessedInputSeq = pp.LastInputSeq
		state.OnGround = pp.Motion.OnGround
		state.Attacking = pp.Attacking()
	}
}

// resolveContacts runs the player interaction rules after enemies have
// moved: stomps, side hits and pickups.
func (ws *WorldState) resolveContacts() {
	for _, id := range ws.order {
		entry, pp, ok := ws.player(id)
		if !ok {
			continue
		}
		body := netcomponents.NetBody.Get(entry)

		c := ws.Sim.Interact(pp.Probe, body, pp.prevFeet, pp.prevVY, pp.HitCooldown <= 0)
		for _, i := range c.Stomped {
			ws.emit(messages.NewEnemyDefeated(i, id))
		}
		if c.HitBy >= 0 {
			pp.HitCooldown = config.Combat.HitCooldown
			ws.emit(messages.NewPlayerHit(id, config.Combat.HitDamage, false))
		}
	}
}

// Step advances the whole world by dt: players, then enemies and pickups,
// then contacts.
func (ws *WorldState) Step(dt float64) {
	ws.stepPlayers(dt)
	ws.Sim.Step(dt)
	ws.resolveContacts()
	ws.tick++
}
