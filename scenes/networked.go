package scenes

import (
	"log"
	"time"

	"github.com/imdvls/Pixelknight/components"
	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/imdvls/Pixelknight/shared/netcomponents"
	"github.com/imdvls/Pixelknight/shared/netconfig"
	"github.com/imdvls/Pixelknight/shared/sim"
	"github.com/imdvls/Pixelknight/systems"
	"github.com/imdvls/Pixelknight/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// How long remote swings and hit flashes stay visible.
const (
	swordShowTime = 0.2
	hitFlashTime  = 0.5
)

// claimTime is how long a collectible we reported stays ours locally, so a
// snapshot sent before the server saw the pickup doesn't score it twice.
const claimTime = 1.0

var remotePlayers = donburi.NewQuery(filter.Contains(tags.RemotePlayer))

// Transport is what the scene needs from the network client.
type Transport interface {
	State() netconfig.ClientState
	Drain() []messages.ServerMessage
	Send(m messages.ClientMessage) error
}

type SceneOptions struct {
	Server  string // shown in the saved profile
	Store   systems.ProfileStore
	Offline bool // simulate locally while no server is reachable
}

// NetworkedScene runs one client session: it applies server messages,
// predicts the local player, interpolates everyone else and keeps the
// client-only score and lives.
type NetworkedScene struct {
	net  Transport
	opts SceneOptions

	// Player shadows. The local player carries tags.LocalPlayer, others
	// tags.RemotePlayer with interpolation state.
	ecs     donburi.World
	players map[string]donburi.Entity
	localID string
	joined  bool

	level       *leveldata.Level
	world       *sim.World
	enemyInterp []components.NetInterpData
	claimed     map[int]float64 // collectible index to seconds left
	window      float64

	prediction *systems.NetPrediction
	input      systems.InputSequencer
	offline    *systems.OfflineWorld

	attackHeld     bool
	attackTimer    float64
	attackCooldown float64
	hitFlash       float64
	tick           uint64

	Profile Profile
	saved   systems.SavedProfile

	now func() time.Time
}

func NewNetworkedScene(t Transport, opts SceneOptions) *NetworkedScene {
	ns := &NetworkedScene{
		net:        t,
		opts:       opts,
		ecs:        donburi.NewWorld(),
		players:    make(map[string]donburi.Entity),
		claimed:    make(map[int]float64),
		window:     netconfig.InterpolationWindow.Seconds(),
		prediction: systems.NewNetPrediction(nil),
		Profile:    NewProfile(),
		saved:      systems.LoadProfile(opts.Store),
		now:        time.Now,
	}
	ns.Profile.Best = ns.saved.BestScore
	return ns
}

// Update runs one client frame: drain the inbox, then simulate.
func (ns *NetworkedScene) Update(keys sim.Keys, dt float64) {
	for _, msg := range ns.net.Drain() {
		ns.apply(msg)
	}

	if ns.joined && ns.net.State() != netconfig.StateConnected {
		log.Println("[networked] connection lost")
		ns.leaveSession()
	}

	ns.tickTimers(dt)
	switch {
	case ns.joined:
		ns.updateOnline(keys, dt)
	case ns.opts.Offline && (ns.offline != nil || ns.net.State() == netconfig.StateDisconnected):
		// Keeps playing through reconnect attempts until a handshake arrives.
		ns.updateOffline(keys, dt)
	}
	ns.attackHeld = keys.Attack
}

func (ns *NetworkedScene) mode() Mode {
	switch {
	case ns.joined:
		return ModeOnline
	case ns.offline != nil:
		return ModeOffline
	default:
		return ModeConnecting
	}
}

// LocalID is the server-assigned id of this client's player, or "".
func (ns *NetworkedScene) LocalID() string {
	return ns.localID
}

func (ns *NetworkedScene) tickTimers(dt float64) {
	ns.attackTimer = max(0, ns.attackTimer-dt)
	ns.attackCooldown = max(0, ns.attackCooldown-dt)
	ns.hitFlash = max(0, ns.hitFlash-dt)
	for i, left := range ns.claimed {
		if left -= dt; left <= 0 {
			delete(ns.claimed, i)
		} else {
			ns.claimed[i] = left
		}
	}

	components.RemotePlayer.Each(ns.ecs, func(entry *donburi.Entry) {
		rp := components.RemotePlayer.Get(entry)
		rp.SwordTimer = max(0, rp.SwordTimer-dt)
		rp.HitFlash = max(0, rp.HitFlash-dt)
	})
}

func (ns *NetworkedScene) updateOnline(keys sim.Keys, dt float64) {
	entry, ok := ns.localEntry()
	if !ok {
		return
	}
	body := netcomponents.NetBody.Get(entry)
	ts := ns.now().UnixMilli()

	in, seq := ns.input.Update(keys, ts, dt)
	if in != nil {
		ns.send(in)
	}
	ns.prediction.PredictStep(body, keys, seq, ts, dt)
	netcomponents.NetPlayerState.Get(entry).OnGround = ns.prediction.Motion.OnGround

	if keys.Attack && !ns.attackHeld && ns.attackCooldown <= 0 {
		ns.swing(body)
	}
	ns.collectTouching(body, ts)

	systems.UpdateRemoteInterpolation(ns.ecs, dt)
	for i, e := range ns.world.Enemies {
		if i < len(ns.enemyInterp) && ns.enemyInterp[i].Initialized {
			e.X, e.Y = systems.StepInterp(&ns.enemyInterp[i], dt)
		}
	}
	ns.world.Sync()
}

func (ns *NetworkedScene) updateOffline(keys sim.Keys, dt float64) {
	if ns.offline == nil {
		log.Println("[networked] no server, starting offline world")
		ns.offline = systems.NewOfflineWorld(leveldata.Generate(netconfig.DefaultWorldSeed), netconfig.DefaultWorldSeed)
	}
	if keys.Attack && !ns.attackHeld && ns.attackCooldown <= 0 {
		ns.attackTimer = config.Combat.AttackDuration
		ns.attackCooldown = config.Combat.AttackCooldown
	}

	ev := ns.offline.Step(sim.Keys{Left: keys.Left, Right: keys.Right, Jump: keys.Jump, Attack: keys.Attack && !ns.attackHeld}, dt)
	ns.Profile.Score += ev.Collected
	ns.Profile.Score += (len(ev.Stomped) + len(ev.Swung)) * config.Player.DefeatScore
	if ev.Hit {
		ns.loseLife()
	}
}

// swing applies a sword attack optimistically and reports it.
func (ns *NetworkedScene) swing(body *sim.Body) {
	ns.attackTimer = config.Combat.AttackDuration
	ns.attackCooldown = config.Combat.AttackCooldown

	box := sim.SwordBox(body)
	ns.world.Sync()
	ns.world.SwordHits(box)
	ns.send(messages.NewSwordAttack(ns.localID, messages.Sword{
		SwordX:      box.X,
		SwordY:      box.Y,
		SwordWidth:  box.W,
		SwordHeight: box.H,
		FacingRight: body.FacingRight,
	}))
}

// collectTouching picks up every visible collectible the predicted body
// overlaps and reports each one.
func (ns *NetworkedScene) collectTouching(body *sim.Body, ts int64) {
	for i, c := range ns.world.Collectibles {
		if c.Collected || ns.claimed[i] > 0 || !body.Rect().Overlaps(c.Rect()) {
			continue
		}
		if _, ok := ns.world.Collect(i); ok {
			ns.claimed[i] = claimTime
			ns.Profile.Score += c.Value
			ns.send(messages.NewCollectCoin(i, ts))
		}
	}
}

func (ns *NetworkedScene) send(m messages.ClientMessage) {
	if err := ns.net.Send(m); err != nil {
		log.Printf("[networked] send %s: %v", m.MessageType(), err)
	}
}

func (ns *NetworkedScene) apply(msg messages.ServerMessage) {
	switch m := msg.(type) {
	case *messages.Handshake:
		ns.applyHandshake(m)
	case *messages.GameState:
		if ns.joined {
			ns.applyGameState(m)
		}
	case *messages.PlayerJoined:
		if ns.joined && m.PlayerID != ns.localID {
			ns.ensureRemote(m.PlayerID)
			if m.Player != nil {
				ns.applyRemote(*m.Player)
			}
		}
	case *messages.PlayerDisconnected:
		ns.removePlayer(m.PlayerID)
	case *messages.PlayerSwordAttack:
		ns.applySwordAttack(m)
	case *messages.EnemyDefeated:
		ns.applyEnemyDefeated(m)
	case *messages.PlayerHit:
		ns.applyPlayerHit(m)
	}
}

func (ns *NetworkedScene) applyHandshake(hs *messages.Handshake) {
	ns.leaveSession()
	ns.offline = nil

	ns.level = levelFromHandshake(hs)
	ns.world = sim.NewWorld(ns.level, hs.WorldSeed)
	ns.enemyInterp = make([]components.NetInterpData, len(ns.world.Enemies))
	clear(ns.claimed)
	if hs.TickPeriodMs > 0 {
		ns.window = float64(hs.TickPeriodMs) / 1000
	}
	if len(hs.EnemiesData) == len(ns.world.Enemies) {
		ns.applyEnemies(hs.EnemiesData)
	}
	if len(hs.CollectiblesData) == len(ns.world.Collectibles) {
		ns.applyCollectibles(hs.CollectiblesData)
	}

	ns.localID = hs.PlayerID
	ns.prediction.Reset(ns.level.Grid)
	ns.input.Reset()

	body := sim.NewPlayerBody(ns.level.Spawn)
	entity := ns.ecs.Create(tags.LocalPlayer, netcomponents.NetBody, netcomponents.NetPlayerState)
	entry := ns.ecs.Entry(entity)
	netcomponents.NetBody.Set(entry, &body)
	netcomponents.NetPlayerState.Set(entry, &netcomponents.NetPlayerStateData{ID: hs.PlayerID, IsLocal: true})
	ns.players[hs.PlayerID] = entity
	ns.joined = true

	log.Printf("[networked] joined as %s: %dx%d world, %d enemies, %d collectibles",
		hs.PlayerID, ns.level.Grid.Cols, ns.level.Grid.Rows, len(ns.world.Enemies), len(ns.world.Collectibles))
}

// levelFromHandshake rebuilds the server's level. Only an unusable map makes
// the client fall back to the default generated world; a level without
// enemies or collectibles is taken as sent.
func levelFromHandshake(hs *messages.Handshake) *leveldata.Level {
	tileSize := hs.CharacterProperties.TileSize
	if tileSize <= 0 {
		tileSize = netconfig.TileSize
	}
	grid, err := leveldata.DecodeRows(hs.MapData, tileSize)
	if err != nil {
		log.Printf("[networked] handshake map unusable (%v), regenerating default world", err)
		return leveldata.Generate(netconfig.DefaultWorldSeed)
	}

	level := &leveldata.Level{
		Name:  "server",
		Grid:  grid,
		Spawn: leveldata.SpawnPoint{X: hs.Spawn.X, Y: hs.Spawn.Y},
	}
	for _, e := range hs.EnemiesData {
		level.Enemies = append(level.Enemies, leveldata.EnemySpawn{
			Kind:       netconfig.EnemyKind(e.Kind),
			X:          e.X,
			Y:          e.Y,
			LeftBound:  e.LeftBound,
			RightBound: e.RightBound,
		})
	}
	for _, c := range hs.CollectiblesData {
		level.Collectibles = append(level.Collectibles, leveldata.CollectibleSpawn{
			Kind: netconfig.CollectibleKind(c.Kind),
			X:    c.X,
			Y:    c.Y,
		})
	}
	return level
}

// leaveSession drops every player shadow and the online world.
func (ns *NetworkedScene) leaveSession() {
	for id := range ns.players {
		ns.removePlayer(id)
	}
	ns.localID = ""
	ns.joined = false
}

func (ns *NetworkedScene) localEntry() (*donburi.Entry, bool) {
	entity, ok := ns.players[ns.localID]
	if !ok || !ns.ecs.Valid(entity) {
		return nil, false
	}
	return ns.ecs.Entry(entity), true
}

func (ns *NetworkedScene) applyGameState(gs *messages.GameState) {
	ns.tick = gs.Tick

	for id, ps := range gs.Players {
		if id == ns.localID {
			ns.reconcileLocal(ps)
			continue
		}
		ns.ensureRemote(id)
		ns.applyRemote(ps)
	}
	for id := range ns.players {
		if _, ok := gs.Players[id]; !ok && id != ns.localID {
			ns.removePlayer(id)
		}
	}

	if len(gs.Enemies) == len(ns.world.Enemies) {
		ns.applyEnemies(gs.Enemies)
	}
	if len(gs.Collectibles) == len(ns.world.Collectibles) {
		ns.applyCollectibles(gs.Collectibles)
	}
	ns.world.Sync()
}

// reconcileLocal handles server state for the local player: acknowledged
// inputs are dropped and the rest replayed on top of the server position.
func (ns *NetworkedScene) reconcileLocal(ps messages.PlayerState) {
	entry, ok := ns.localEntry()
	if !ok {
		return
	}
	body := netcomponents.NetBody.Get(entry)
	ns.prediction.Reconcile(body, ps)

	state := netcomponents.NetPlayerState.Get(entry)
	state.LastProcessedInputSeq = ps.LastProcessedInputSeq
	state.OnGround = ns.prediction.Motion.OnGround
	state.Attacking = ps.Attacking
}

func (ns *NetworkedScene) ensureRemote(id string) *donburi.Entry {
	if entity, ok := ns.players[id]; ok && ns.ecs.Valid(entity) {
		return ns.ecs.Entry(entity)
	}
	entity := ns.ecs.Create(tags.RemotePlayer, netcomponents.NetBody, netcomponents.NetPlayerState,
		components.NetInterp, components.RemotePlayer)
	entry := ns.ecs.Entry(entity)
	netcomponents.NetPlayerState.Set(entry, &netcomponents.NetPlayerStateData{ID: id})
	ns.players[id] = entity
	log.Printf("[networked] player %s appeared", id)
	return entry
}

func (ns *NetworkedScene) applyRemote(ps messages.PlayerState) {
	entry := ns.ensureRemote(ps.ID)
	body := netcomponents.NetBody.Get(entry)
	body.VX, body.VY = ps.VX, ps.VY
	body.W, body.H = ps.Width, ps.Height
	body.FacingRight = ps.FacingRight
	body.Frame = ps.Frame

	interp := components.NetInterp.Get(entry)
	systems.SetInterpTarget(interp, ps.X, ps.Y, ns.window)
	body.X, body.Y = systems.InterpPosition(interp)

	state := netcomponents.NetPlayerState.Get(entry)
	state.OnGround = ps.OnGround
	state.Attacking = ps.Attacking
	state.LastProcessedInputSeq = ps.LastProcessedInputSeq
	components.RemotePlayer.Get(entry).LastUpdated = ns.tick
}

func (ns *NetworkedScene) removePlayer(id string) {
	entity, ok := ns.players[id]
	if !ok {
		return
	}
	delete(ns.players, id)
	if ns.ecs.Valid(entity) {
		ns.ecs.Remove(entity)
	}
}

func (ns *NetworkedScene) applyEnemies(states []messages.EnemyState) {
	for i, es := range states {
		e := ns.world.Enemies[i]
		e.VX = es.VX
		e.W, e.H = es.Width, es.Height
		e.FacingRight = es.FacingRight
		e.Defeated = es.Defeated
		e.RespawnTimer = es.RespawnTimer
		e.Frame = es.Frame
		e.LeftBound, e.RightBound = es.LeftBound, es.RightBound

		systems.SetInterpTarget(&ns.enemyInterp[i], es.X, es.Y, ns.window)
		e.X, e.Y = systems.InterpPosition(&ns.enemyInterp[i])
	}
}

func (ns *NetworkedScene) applyCollectibles(states []messages.CollectibleState) {
	for i, cs := range states {
		c := ns.world.Collectibles[i]
		c.X, c.Y = cs.X, cs.Y
		c.Collected = cs.Collected || ns.claimed[i] > 0
		c.Value = cs.Value
		c.Frame = cs.Frame
	}
}

func (ns *NetworkedScene) applySwordAttack(m *messages.PlayerSwordAttack) {
	if m.PlayerID == ns.localID {
		return
	}
	entity, ok := ns.players[m.PlayerID]
	if !ok || !ns.ecs.Valid(entity) {
		return
	}
	entry := ns.ecs.Entry(entity)
	if !entry.HasComponent(components.RemotePlayer) {
		return
	}
	rp := components.RemotePlayer.Get(entry)
	sword := m.Sword
	rp.LastSword = &sword
	rp.SwordTimer = swordShowTime
	netcomponents.NetPlayerState.Get(entry).Attacking = true
}

func (ns *NetworkedScene) applyEnemyDefeated(m *messages.EnemyDefeated) {
	if !ns.joined {
		return
	}
	e, ok := ns.world.Enemy(m.EnemyIndex)
	if !ok {
		return
	}
	e.Defeat()
	if m.PlayerID == ns.localID {
		ns.Profile.Score += config.Player.DefeatScore
	}
}

func (ns *NetworkedScene) applyPlayerHit(m *messages.PlayerHit) {
	if m.ID != ns.localID {
		if entity, ok := ns.players[m.ID]; ok && ns.ecs.Valid(entity) {
			entry := ns.ecs.Entry(entity)
			if entry.HasComponent(components.RemotePlayer) {
				components.RemotePlayer.Get(entry).HitFlash = hitFlashTime
			}
		}
		return
	}

	ns.hitFlash = hitFlashTime
	if m.Respawned {
		if entry, ok := ns.localEntry(); ok {
			sim.ResetPlayer(netcomponents.NetBody.Get(entry), &ns.prediction.Motion, ns.level.Spawn)
		}
	}
	for i := 0; i < max(m.Damage, 1); i++ {
		ns.loseLife()
	}
}

// loseLife takes a life; the last one ends the run, records the score and
// starts over.
func (ns *NetworkedScene) loseLife() {
	if !ns.Profile.LoseLife() {
		return
	}
	log.Printf("[networked] game over with score %d", ns.Profile.Score)
	ns.recordScore()
	ns.Profile.Restart()
}

func (ns *NetworkedScene) recordScore() {
	if ns.saved.RecordScore(ns.Profile.Score, ns.opts.Server) {
		log.Printf("[networked] new best score %d", ns.saved.BestScore)
	}
	ns.Profile.Best = ns.saved.BestScore
	if err := systems.SaveProfile(ns.opts.Store, ns.saved); err != nil {
		log.Printf("[networked] %v", err)
	}
}

// Close records the running score and drops the session. Telling the server
// is the transport's job.
func (ns *NetworkedScene) Close() {
	ns.recordScore()
	ns.leaveSession()
}
