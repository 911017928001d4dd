package core

import (
	"time"

	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/gamemath"
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/imdvls/Pixelknight/shared/netcomponents"
	"github.com/imdvls/Pixelknight/shared/sim"
)

type CommandKind int

const (
	CommandJoin CommandKind = iota
	CommandLeave
	CommandMessage
)

// Command is one unit of work handed from a session to the loop.
type Command struct {
	Kind     CommandKind
	PlayerID string
	Msg      messages.ClientMessage // set for CommandMessage
}

// Touch records activity from a player.
func (ws *WorldState) Touch(id string, now time.Time) {
	if _, pp, ok := ws.player(id); ok {
		pp.LastSeen = now
	}
}

// ApplyInput stores the keys of an input newer than any seen so far. Older
// or repeated sequence numbers are ignored.
func (ws *WorldState) ApplyInput(id string, in *messages.Input) bool {
	_, pp, ok := ws.player(id)
	if !ok || in.Sequence <= pp.LastInputSeq {
		return false
	}
	pp.Keys = sim.Keys{
		Left:   in.Keys.Left,
		Right:  in.Keys.Right,
		Jump:   in.Keys.Jump,
		Attack: in.Keys.Attack,
	}
	pp.LastInputSeq = in.Sequence
	return true
}

// CollectCoin handles a client-reported pickup. The player must be near the
// coin; out-of-range indices and repeats are ignored.
func (ws *WorldState) CollectCoin(id string, index int) bool {
	entry, _, ok := ws.player(id)
	if !ok {
		return false
	}
	body := netcomponents.NetBody.Get(entry)
	_, collected := ws.Sim.CollectNear(index, body, config.Collectible.CollectSlack)
	return collected
}

// SwordAttack validates a reported swing, relays it and defeats every enemy
// it touches.
func (ws *WorldState) SwordAttack(id string, m *messages.SwordAttack) bool {
	entry, pp, ok := ws.player(id)
	if !ok || pp.AttackCooldown > 0 {
		return false
	}
	body := netcomponents.NetBody.Get(entry)
	box := gamemath.Rect{X: m.SwordX, Y: m.SwordY, W: m.SwordWidth, H: m.SwordHeight}
	if !sim.SwordInReach(body, box) {
		return false
	}

	pp.AttackTimer = config.Combat.AttackDuration
	pp.AttackCooldown = config.Combat.AttackCooldown
	ws.emit(messages.NewPlayerSwordAttack(id, m.Sword))
	for _, i := range ws.Sim.SwordHits(box) {
		ws.emit(messages.NewEnemyDefeated(i, id))
	}
	return true
}
