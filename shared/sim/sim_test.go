package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/gamemath"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/netconfig"
)

const eps = 1e-9

// flatLevel is a cols x rows grid with a solid bottom row.
func flatLevel(cols, rows int) *leveldata.Level {
	g := leveldata.NewGrid(cols, rows, netconfig.TileSize)
	for c := 0; c < cols; c++ {
		g.Set(c, rows-1, netconfig.TileGround)
	}
	return &leveldata.Level{
		Name:  "flat",
		Grid:  g,
		Spawn: leveldata.SpawnPoint{X: 16, Y: float64((rows-1)*netconfig.TileSize) - netconfig.PlayerHeight},
	}
}

func TestStepPlayerMovementScenario(t *testing.T) {
	g := leveldata.NewGrid(40, 40, netconfig.TileSize)
	b := NewPlayerBody(leveldata.SpawnPoint{X: 50, Y: 100})
	var m PlayerMotion

	res := StepPlayer(g, &b, &m, Keys{Right: true}, 0.1)
	if math.Abs(b.X-65) > eps || math.Abs(b.Y-104) > eps {
		t.Fatalf("expected (65, 104), got (%v, %v)", b.X, b.Y)
	}
	if math.Abs(b.VY-80) > eps {
		t.Fatalf("expected vy=80, got %v", b.VY)
	}
	if res.OnGround || m.OnGround {
		t.Fatalf("player in open air must not be grounded")
	}
	if !b.FacingRight {
		t.Fatalf("expected player to face right")
	}
}

func TestStepPlayerJumpIsEdgeTriggered(t *testing.T) {
	level := flatLevel(20, 12)
	b := NewPlayerBody(level.Spawn)
	var m PlayerMotion

	StepPlayer(level.Grid, &b, &m, Keys{}, 0.016)
	if !m.OnGround {
		t.Fatalf("expected player to start grounded")
	}

	StepPlayer(level.Grid, &b, &m, Keys{Jump: true}, 0.016)
	if b.VY >= 0 || m.OnGround {
		t.Fatalf("expected jump to start, vy=%v", b.VY)
	}

	// Hold jump until landing; holding must not trigger a second jump.
	for i := 0; i < 200 && !m.OnGround; i++ {
		StepPlayer(level.Grid, &b, &m, Keys{Jump: true}, 0.016)
	}
	if !m.OnGround {
		t.Fatalf("expected to land again")
	}
	StepPlayer(level.Grid, &b, &m, Keys{Jump: true}, 0.016)
	if !m.OnGround {
		t.Fatalf("held jump key must not re-jump")
	}
}

func TestStepPlayerEarlyReleaseCapsRise(t *testing.T) {
	level := flatLevel(20, 12)
	b := NewPlayerBody(level.Spawn)
	var m PlayerMotion
	StepPlayer(level.Grid, &b, &m, Keys{}, 0.016)

	StepPlayer(level.Grid, &b, &m, Keys{Jump: true}, 0.016)
	StepPlayer(level.Grid, &b, &m, Keys{}, 0.016)
	// Released this step: clamped to the minimum jump velocity, then gravity.
	want := netconfig.MinJumpVelocity + netconfig.Gravity*0.016
	if math.Abs(b.VY-want) > 1e-6 {
		t.Fatalf("expected vy %v after early release, got %v", want, b.VY)
	}
}

func TestReplaySimple(t *testing.T) {
	b := NewPlayerBody(leveldata.SpawnPoint{X: 50, Y: 100})
	m := PlayerMotion{OnGround: true}

	ReplaySimple(&b, &m, Keys{Left: true}, 0.1)
	if math.Abs(b.X-35) > eps || b.Y != 100 {
		t.Fatalf("grounded replay should only move horizontally, got (%v, %v)", b.X, b.Y)
	}

	m.OnGround = false
	ReplaySimple(&b, &m, Keys{}, 0.1)
	if math.Abs(b.Y-104) > eps || b.X != 35 {
		t.Fatalf("airborne replay should fall, got (%v, %v)", b.X, b.Y)
	}
}

func TestFallSpeedIsCapped(t *testing.T) {
	g := leveldata.NewGrid(10, 400, netconfig.TileSize)
	b := NewPlayerBody(leveldata.SpawnPoint{X: 50, Y: 0})
	b.VY = netconfig.MaxFallSpeed - 10
	var m PlayerMotion

	StepPlayer(g, &b, &m, Keys{}, 0.1)
	if b.VY != netconfig.MaxFallSpeed {
		t.Fatalf("expected vy capped at %v, got %v", netconfig.MaxFallSpeed, b.VY)
	}

	r := NewPlayerBody(leveldata.SpawnPoint{X: 50, Y: 0})
	r.VY = netconfig.MaxFallSpeed
	ReplaySimple(&r, &PlayerMotion{}, Keys{}, 0.1)
	if r.VY != netconfig.MaxFallSpeed {
		t.Fatalf("replay must cap vy at %v, got %v", netconfig.MaxFallSpeed, r.VY)
	}
}

func TestEnemyContainment(t *testing.T) {
	level := leveldata.GenerateWithSize(300, 60, 3)
	w := NewWorld(level, 11)
	if len(w.Enemies) == 0 {
		t.Fatalf("test level has no enemies")
	}

	rng := rand.New(rand.NewSource(99))
	for tick := 0; tick < 3000; tick++ {
		w.Step(0.01 + rng.Float64()*0.3)
		if tick%97 == 0 {
			w.DefeatEnemy(rng.Intn(len(w.Enemies)))
		}
		for i, e := range w.Enemies {
			if e.X < e.LeftBound || e.X > e.RightBound {
				t.Fatalf("tick %d: enemy %d at x=%v outside [%v, %v]", tick, i, e.X, e.LeftBound, e.RightBound)
			}
		}
	}
	if len(w.Enemies) != len(level.Enemies) {
		t.Fatalf("enemy slice changed length")
	}
}

func TestEnemyRespawnFidelity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e := NewEnemy(leveldata.EnemySpawn{
		Kind: netconfig.EnemyRobot, X: 100, Y: 50, LeftBound: 60, RightBound: 160,
	}, rng)
	for i := 0; i < 7; i++ {
		e.Update(0.1, rng)
	}
	if e.X == e.OriginX {
		t.Fatalf("test setup: enemy should have moved")
	}

	if !e.Defeat() {
		t.Fatalf("expected first defeat to succeed")
	}
	if e.Defeat() {
		t.Fatalf("defeating a defeated enemy must be a no-op")
	}
	if e.RespawnTimer != config.Enemy.RespawnTime || e.VX != 0 {
		t.Fatalf("unexpected defeated state %+v", e)
	}

	for i := 0; i < 4; i++ {
		e.Update(1.0, rng)
	}
	if !e.Defeated {
		t.Fatalf("enemy respawned early")
	}
	e.Update(1.0, rng)
	if e.Defeated {
		t.Fatalf("expected respawn after timer elapsed")
	}
	if e.X != 100 || e.Y != 50 {
		t.Fatalf("expected respawn at origin (100, 50), got (%v, %v)", e.X, e.Y)
	}
	if math.Abs(e.VX) != e.Speed {
		t.Fatalf("expected patrol speed after respawn, got %v", e.VX)
	}
}

func TestCollectIsIdempotent(t *testing.T) {
	level := flatLevel(20, 12)
	level.Collectibles = []leveldata.CollectibleSpawn{{Kind: netconfig.CollectibleGem, X: 40, Y: 100}}
	w := NewWorld(level, 1)

	c, ok := w.Collect(0)
	if !ok || !c.Collected || c.Value != 50 {
		t.Fatalf("expected first collect to succeed, got %+v %v", c, ok)
	}
	timer := c.RespawnTimer
	if _, ok := w.Collect(0); ok {
		t.Fatalf("second collect must be a no-op")
	}
	if c.RespawnTimer != timer {
		t.Fatalf("second collect changed the respawn timer")
	}
	if _, ok := w.Collect(5); ok {
		t.Fatalf("out-of-range index must be ignored")
	}
	if _, ok := w.Collect(-1); ok {
		t.Fatalf("negative index must be ignored")
	}

	w.Step(config.Collectible.RespawnTime)
	if c.Collected {
		t.Fatalf("expected collectible to respawn")
	}
}

func TestCollectNearRequiresProximity(t *testing.T) {
	level := flatLevel(40, 12)
	level.Collectibles = []leveldata.CollectibleSpawn{{Kind: netconfig.CollectibleCoin, X: 200, Y: 100}}
	w := NewWorld(level, 1)

	b := NewPlayerBody(leveldata.SpawnPoint{X: 20, Y: 100})
	if _, ok := w.CollectNear(0, &b, config.Collectible.CollectSlack); ok {
		t.Fatalf("far collect must be rejected")
	}
	b.X = 175 // 13 units short of the coin, inside the slack
	if _, ok := w.CollectNear(0, &b, config.Collectible.CollectSlack); !ok {
		t.Fatalf("near collect should succeed")
	}
}

func stompWorld() *World {
	level := flatLevel(20, 15)
	level.Enemies = []leveldata.EnemySpawn{{
		Kind: netconfig.EnemySlime, X: 100, Y: 188, LeftBound: 100, RightBound: 100,
	}}
	return NewWorld(level, 1)
}

func TestStompScenario(t *testing.T) {
	w := stompWorld()
	e := w.Enemies[0]

	b := NewPlayerBody(leveldata.SpawnPoint{X: 102, Y: 173}) // feet at 189, enemy top at 188
	b.VY = 200
	probe := w.AddProbe(&b, "p1")

	c := w.Interact(probe, &b, 185, b.VY, true)
	if len(c.Stomped) != 1 || c.Stomped[0] != 0 {
		t.Fatalf("expected enemy 0 stomped, got %+v", c)
	}
	if !e.Defeated || e.RespawnTimer != 5 {
		t.Fatalf("expected defeated with timer 5, got defeated=%v timer=%v", e.Defeated, e.RespawnTimer)
	}
	want := netconfig.JumpSpeed * 0.7
	if math.Abs(b.VY-want) > eps {
		t.Fatalf("expected bounce vy=%v, got %v", want, b.VY)
	}
	if c.HitBy != -1 {
		t.Fatalf("a stomp is not a hit")
	}
}

func TestStompNeedsEdgeMargin(t *testing.T) {
	w := stompWorld()

	// Only 2 units of horizontal overlap on the enemy's left edge.
	b := NewPlayerBody(leveldata.SpawnPoint{X: 90, Y: 173})
	b.VY = 200
	probe := w.AddProbe(&b, "p1")

	c := w.Interact(probe, &b, 185, b.VY, true)
	if len(c.Stomped) != 0 || w.Enemies[0].Defeated {
		t.Fatalf("edge graze must not stomp, got %+v", c)
	}
}

func TestIsStompRejectsRisingAndDeepContact(t *testing.T) {
	enemy := gamemath.Rect{X: 100, Y: 188, W: 16, H: 12}
	player := gamemath.Rect{X: 102, Y: 173, W: 12, H: 16} // feet 1 unit below the top

	if !IsStomp(player, 100, enemy.Y-3, enemy) {
		t.Fatalf("expected stomp")
	}
	if IsStomp(player, -100, enemy.Y-3, enemy) {
		t.Fatalf("rising player must not stomp")
	}
	player.Y = enemy.Y - 6 // feet deep in the enemy, and were already last step
	if IsStomp(player, 100, enemy.Y+9, enemy) {
		t.Fatalf("side contact must not count as a stomp")
	}
}

func TestSideContactIsHit(t *testing.T) {
	w := stompWorld()

	b := NewPlayerBody(leveldata.SpawnPoint{X: 104, Y: 184})
	probe := w.AddProbe(&b, "p1")

	if c := w.Interact(probe, &b, b.Feet(), 0, false); c.HitBy != -1 {
		t.Fatalf("hit cooldown must suppress contact, got %+v", c)
	}
	c := w.Interact(probe, &b, b.Feet(), 0, true)
	if c.HitBy != 0 {
		t.Fatalf("expected hit by enemy 0, got %+v", c)
	}
	if w.Enemies[0].Defeated {
		t.Fatalf("side contact must not defeat the enemy")
	}
}

func TestPickupFirstTouchWins(t *testing.T) {
	level := flatLevel(20, 12)
	level.Collectibles = []leveldata.CollectibleSpawn{{Kind: netconfig.CollectibleCoin, X: 60, Y: 150}}
	w := NewWorld(level, 1)

	a := NewPlayerBody(leveldata.SpawnPoint{X: 56, Y: 144})
	b := NewPlayerBody(leveldata.SpawnPoint{X: 58, Y: 144})
	pa := w.AddProbe(&a, "a")
	pb := w.AddProbe(&b, "b")

	if c := w.Interact(pa, &a, a.Feet(), 0, true); len(c.Picked) != 1 {
		t.Fatalf("expected first player to pick up, got %+v", c)
	}
	if c := w.Interact(pb, &b, b.Feet(), 0, true); len(c.Picked) != 0 {
		t.Fatalf("second player must not pick up the same coin, got %+v", c)
	}
}

func TestSwordHits(t *testing.T) {
	w := stompWorld()

	b := NewPlayerBody(leveldata.SpawnPoint{X: 86, Y: 184})
	sword := SwordBox(&b)
	if !SwordInReach(&b, sword) {
		t.Fatalf("own sword box must be in reach")
	}

	far := sword
	far.X += 40
	if SwordInReach(&b, far) {
		t.Fatalf("distant sword must be rejected")
	}
	huge := sword
	huge.W = 200
	if SwordInReach(&b, huge) {
		t.Fatalf("oversized sword must be rejected")
	}

	hits := w.SwordHits(sword)
	if len(hits) != 1 || hits[0] != 0 {
		t.Fatalf("expected sword to hit enemy 0, got %v", hits)
	}
	if !w.Enemies[0].Defeated {
		t.Fatalf("expected enemy defeated")
	}
	if again := w.SwordHits(sword); len(again) != 0 {
		t.Fatalf("defeated enemy hit again: %v", again)
	}
}
