package core

import (
	"time"

	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/imdvls/Pixelknight/shared/netcomponents"
	"github.com/imdvls/Pixelknight/shared/netconfig"
	"github.com/imdvls/Pixelknight/shared/sim"
	"github.com/yohamta/donburi"
)

// WorldState is everything the authoritative loop owns. Only the loop
// goroutine touches it.
type WorldState struct {
	Level *leveldata.Level
	Sim   *sim.World

	// Players live in a donburi arena and are addressed by id through the
	// players table. order keeps join order for deterministic stepping.
	ecs     donburi.World
	players map[string]donburi.Entity
	physics map[donburi.Entity]*PlayerPhysics
	order   []string

	mapRows []string
	seed    int64
	tick    uint64

	// events raised during the current tick, broadcast before the snapshot
	events []messages.ServerMessage
}

func NewWorldState(level *leveldata.Level, seed int64) *WorldState {
	return &WorldState{
		Level:   level,
		Sim:     sim.NewWorld(level, seed),
		ecs:     donburi.NewWorld(),
		players: make(map[string]donburi.Entity),
		physics: make(map[donburi.Entity]*PlayerPhysics),
		mapRows: leveldata.EncodeRows(level.Grid),
		seed:    seed,
	}
}

// AddPlayer spawns a player at the level spawn. Adding an id twice returns
// the existing player unchanged.
func (ws *WorldState) AddPlayer(id string, now time.Time) messages.PlayerState {
	if _, ok := ws.players[id]; ok {
		return ws.playerState(id)
	}

	body := sim.NewPlayerBody(ws.Level.Spawn)
	entity := ws.ecs.Create(netcomponents.NetBody, netcomponents.NetPlayerState)
	entry := ws.ecs.Entry(entity)
	netcomponents.NetBody.Set(entry, &body)
	netcomponents.NetPlayerState.Set(entry, &netcomponents.NetPlayerStateData{ID: id})

	ws.players[id] = entity
	ws.physics[entity] = newPlayerPhysics(ws.Sim, netcomponents.NetBody.Get(entry), id, now)
	ws.order = append(ws.order, id)
	return ws.playerState(id)
}

// RemovePlayer deletes a player, reporting false if it was not present.
func (ws *WorldState) RemovePlayer(id string) bool {
	entity, ok := ws.players[id]
	if !ok {
		return false
	}
	if pp := ws.physics[entity]; pp != nil {
		removePlayerPhysics(ws.Sim, pp)
	}
	delete(ws.physics, entity)
	delete(ws.players, id)
	if ws.ecs.Valid(entity) {
		ws.ecs.Remove(entity)
	}
	for i, pid := range ws.order {
		if pid == id {
			ws.order = append(ws.order[:i], ws.order[i+1:]...)
			break
		}
	}
	return true
}

func (ws *WorldState) HasPlayer(id string) bool {
	_, ok := ws.players[id]
	return ok
}

func (ws *WorldState) PlayerCount() int {
	return len(ws.players)
}

func (ws *WorldState) Tick() uint64 {
	return ws.tick
}

// player resolves an id to its arena entry and server-side physics.
func (ws *WorldState) player(id string) (*donburi.Entry, *PlayerPhysics, bool) {
	entity, ok := ws.players[id]
	if !ok || !ws.ecs.Valid(entity) {
		return nil, nil, false
	}
	return ws.ecs.Entry(entity), ws.physics[entity], true
}

// Body returns a copy of a player's body.
func (ws *WorldState) Body(id string) (sim.Body, bool) {
	entry, _, ok := ws.player(id)
	if !ok {
		return sim.Body{}, false
	}
	return *netcomponents.NetBody.Get(entry), true
}

// Stale lists players whose last frame arrived more than timeout before now,
// in join order.
func (ws *WorldState) Stale(now time.Time, timeout time.Duration) []string {
	var stale []string
	for _, id := range ws.order {
		if _, pp, ok := ws.player(id); ok && now.Sub(pp.LastSeen) > timeout {
			stale = append(stale, id)
		}
	}
	return stale
}

func (ws *WorldState) emit(m messages.ServerMessage) {
	ws.events = append(ws.events, m)
}

// DrainEvents returns and clears the events raised since the last drain.
func (ws *WorldState) DrainEvents() []messages.ServerMessage {
	events := ws.events
	ws.events = nil
	return events
}

// Handshake builds the welcome message for a freshly joined player.
func (ws *WorldState) Handshake(id string, now time.Time, tickPeriod time.Duration) *messages.Handshake {
	props := messages.CharacterProperties{
		Gravity:         netconfig.Gravity,
		JumpSpeed:       netconfig.JumpSpeed,
		MinJumpVelocity: netconfig.MinJumpVelocity,
		MoveSpeed:       netconfig.MoveSpeed,
		MaxFallSpeed:    netconfig.MaxFallSpeed,
		Width:           netconfig.PlayerWidth,
		Height:          netconfig.PlayerHeight,
		TileSize:        ws.Level.Grid.TileSize,
	}
	spawn := messages.Vec{X: ws.Level.Spawn.X, Y: ws.Level.Spawn.Y}
	return messages.NewHandshake(id, ws.mapRows, ws.enemyStates(), ws.collectibleStates(),
		props, spawn, now.UnixMilli(), tickPeriod.Milliseconds(), ws.seed)
}

// Snapshot builds the gameState for the current tick. It shares no memory
// with the live state.
func (ws *WorldState) Snapshot(now time.Time) *messages.GameState {
	players := make(map[string]messages.PlayerState, len(ws.players))
	for _, id := range ws.order {
		players[id] = ws.playerState(id)
	}
	return messages.NewGameState(players, ws.enemyStates(), ws.collectibleStates(), now.UnixMilli(), ws.tick)
}

func (ws *WorldState) playerState(id string) messages.PlayerState {
	entry, pp, ok := ws.player(id)
	if !ok {
		return messages.PlayerState{ID: id}
	}
	body := netcomponents.NetBody.Get(entry)
	state := netcomponents.NetPlayerState.Get(entry)
	return messages.PlayerState{
		ID:                    id,
		X:                     body.X,
		Y:                     body.Y,
		VX:                    body.VX,
		VY:                    body.VY,
		Width:                 body.W,
		Height:                body.H,
		FacingRight:           body.FacingRight,
		OnGround:              state.OnGround,
		Attacking:             pp.Attacking(),
		Frame:                 body.Frame,
		LastProcessedInputSeq: state.LastProcessedInputSeq,
	}
}

func (ws *WorldState) enemyStates() []messages.EnemyState {
	out := make([]messages.EnemyState, len(ws.Sim.Enemies))
	for i, e := range ws.Sim.Enemies {
		out[i] = messages.EnemyState{
			Kind:         string(e.Kind),
			X:            e.X,
			Y:            e.Y,
			VX:           e.VX,
			Width:        e.W,
			Height:       e.H,
			LeftBound:    e.LeftBound,
			RightBound:   e.RightBound,
			FacingRight:  e.FacingRight,
			Defeated:     e.Defeated,
			RespawnTimer: e.RespawnTimer,
			Frame:        e.Frame,
		}
	}
	return out
}

func (ws *WorldState) collectibleStates() []messages.CollectibleState {
	out := make([]messages.CollectibleState, len(ws.Sim.Collectibles))
	for i, c := range ws.Sim.Collectibles {
		out[i] = messages.CollectibleState{
			Kind:      string(c.Kind),
			X:         c.X,
			Y:         c.Y,
			Width:     c.W,
			Height:    c.H,
			Value:     c.Value,
			Collected: c.Collected,
			Frame:     c.Frame,
		}
	}
	return out
}
