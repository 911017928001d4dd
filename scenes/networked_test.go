package scenes

import (
	"math"
	"testing"

	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/imdvls/Pixelknight/shared/netconfig"
	"github.com/imdvls/Pixelknight/shared/sim"
	"github.com/imdvls/Pixelknight/systems"
)

const frame = 1.0 / 60

type fakeTransport struct {
	state netconfig.ClientState
	inbox []messages.ServerMessage
	sent  []messages.ClientMessage
}

func (f *fakeTransport) State() netconfig.ClientState { return f.state }

func (f *fakeTransport) Drain() []messages.ServerMessage {
	out := f.inbox
	f.inbox = nil
	return out
}

func (f *fakeTransport) Send(m messages.ClientMessage) error {
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeTransport) sentOfType(t string) []messages.ClientMessage {
	var out []messages.ClientMessage
	for _, m := range f.sent {
		if m.MessageType() == t {
			out = append(out, m)
		}
	}
	return out
}

// spawnY puts a player on the floor row of floorRows.
const spawnY = 19*netconfig.TileSize - netconfig.PlayerHeight

func floorRows() []string {
	g := leveldata.NewGrid(40, 20, netconfig.TileSize)
	for c := 0; c < g.Cols; c++ {
		g.Set(c, g.Rows-1, netconfig.TileGround)
	}
	return leveldata.EncodeRows(g)
}

func slimeAt(x float64) messages.EnemyState {
	return messages.EnemyState{
		Kind: string(netconfig.EnemySlime), X: x, Y: 292, VX: 30,
		Width: 16, Height: 12, LeftBound: x - 20, RightBound: x + 20, FacingRight: true,
	}
}

func coinAt(x, y float64) messages.CollectibleState {
	return messages.CollectibleState{Kind: string(netconfig.CollectibleCoin), X: x, Y: y, Width: 8, Height: 8, Value: 10}
}

func handshake(id string, coins ...messages.CollectibleState) *messages.Handshake {
	if len(coins) == 0 {
		coins = []messages.CollectibleState{coinAt(400, 290)}
	}
	return messages.NewHandshake(id, floorRows(),
		[]messages.EnemyState{slimeAt(300)},
		coins,
		messages.CharacterProperties{TileSize: netconfig.TileSize},
		messages.Vec{X: 16, Y: spawnY},
		0, 100, 1)
}

func joinedScene(t *testing.T, coins ...messages.CollectibleState) (*NetworkedScene, *fakeTransport) {
	t.Helper()
	tr := &fakeTransport{state: netconfig.StateConnected}
	ns := NewNetworkedScene(tr, SceneOptions{Server: "test", Store: systems.MemoryStore{}, Offline: true})
	tr.inbox = append(tr.inbox, handshake("me", coins...))
	ns.Update(sim.Keys{}, frame)
	if ns.mode() != ModeOnline {
		t.Fatalf("expected to be online after the handshake, got %v", ns.mode())
	}
	return ns, tr
}

func snapshot(tick uint64, players ...messages.PlayerState) *messages.GameState {
	m := make(map[string]messages.PlayerState, len(players))
	for _, p := range players {
		m[p.ID] = p
	}
	return messages.NewGameState(m, []messages.EnemyState{slimeAt(300)},
		[]messages.CollectibleState{coinAt(400, 290)}, 0, tick)
}

func remote(id string, x float64) messages.PlayerState {
	return messages.PlayerState{ID: id, X: x, Y: spawnY, Width: 12, Height: 16, OnGround: true}
}

func TestHandshakeBuildsWorld(t *testing.T) {
	ns, _ := joinedScene(t)

	v := ns.View()
	if v.Local == nil || v.Local.ID != "me" {
		t.Fatalf("expected local player 'me', got %+v", v.Local)
	}
	if v.Grid == nil || v.Grid.Cols != 40 || v.Grid.Rows != 20 {
		t.Fatalf("expected the server's 40x20 grid, got %+v", v.Grid)
	}
	if len(v.Enemies) != 1 || len(v.Collectibles) != 1 {
		t.Fatalf("expected 1 enemy and 1 collectible, got %d and %d", len(v.Enemies), len(v.Collectibles))
	}
	if v.Local.Box.Y != spawnY {
		t.Fatalf("standing player should stay at y=%d, got %v", spawnY, v.Local.Box.Y)
	}
}

func TestHandshakeWithoutMapRegeneratesDefaultWorld(t *testing.T) {
	tr := &fakeTransport{state: netconfig.StateConnected}
	ns := NewNetworkedScene(tr, SceneOptions{})
	hs := handshake("me")
	hs.MapData = nil
	tr.inbox = append(tr.inbox, hs)
	ns.Update(sim.Keys{}, frame)

	want := leveldata.Generate(netconfig.DefaultWorldSeed)
	if ns.level.Grid.Cols != want.Grid.Cols || ns.level.Grid.Rows != want.Grid.Rows {
		t.Fatalf("expected the default %dx%d world, got %dx%d",
			want.Grid.Cols, want.Grid.Rows, ns.level.Grid.Cols, ns.level.Grid.Rows)
	}
	if len(ns.world.Enemies) != len(want.Enemies) {
		t.Fatalf("expected %d generated enemies, got %d", len(want.Enemies), len(ns.world.Enemies))
	}
}

func TestHandshakeKeepsMapWithoutCollectibles(t *testing.T) {
	tr := &fakeTransport{state: netconfig.StateConnected}
	ns := NewNetworkedScene(tr, SceneOptions{})
	tr.inbox = append(tr.inbox, messages.NewHandshake("me", floorRows(),
		[]messages.EnemyState{slimeAt(300)},
		nil,
		messages.CharacterProperties{TileSize: netconfig.TileSize},
		messages.Vec{X: 16, Y: spawnY},
		0, 100, 1))
	ns.Update(sim.Keys{}, frame)

	v := ns.View()
	if v.Grid == nil || v.Grid.Cols != 40 || v.Grid.Rows != 20 {
		t.Fatalf("expected the server's 40x20 grid, got %+v", v.Grid)
	}
	if len(v.Enemies) != 1 || len(v.Collectibles) != 0 {
		t.Fatalf("expected 1 enemy and no collectibles, got %d and %d", len(v.Enemies), len(v.Collectibles))
	}
	if v.Local == nil || v.Local.Box.Y != spawnY {
		t.Fatalf("player should spawn on the server's floor, got %+v", v.Local)
	}
}

func TestInputIsSentOnChangeAndPredicted(t *testing.T) {
	ns, tr := joinedScene(t)

	ns.Update(sim.Keys{Right: true}, frame)
	ns.Update(sim.Keys{Right: true}, frame)

	inputs := tr.sentOfType(messages.TypeInput)
	if len(inputs) != 1 {
		t.Fatalf("expected one input message for one key change, got %d", len(inputs))
	}
	if in := inputs[0].(*messages.Input); in.Sequence != 1 || !in.Keys.Right {
		t.Fatalf("unexpected input %+v", in)
	}
	if x := ns.View().Local.Box.X; x <= 16 {
		t.Fatalf("local player should move right before the server answers, x=%v", x)
	}
}

func TestSnapshotReconcilesLocalPlayer(t *testing.T) {
	ns, tr := joinedScene(t)
	ns.Update(sim.Keys{Right: true}, frame)

	server := remote("me", 100)
	server.LastProcessedInputSeq = 1
	tr.inbox = append(tr.inbox, snapshot(1, server))
	ns.Update(sim.Keys{Right: true}, frame)

	// seq 1 acknowledged, then this frame's prediction runs from the server position
	want := 100 + netconfig.MoveSpeed*frame
	if x := ns.View().Local.Box.X; math.Abs(x-want) > 1e-6 {
		t.Fatalf("expected x=%v after reconciliation, got %v", want, x)
	}
	if ns.prediction.Pending.Len() != 1 {
		t.Fatalf("expected only the newest frame pending, got %d", ns.prediction.Pending.Len())
	}
}

func TestRemotePlayerInterpolates(t *testing.T) {
	ns, tr := joinedScene(t)

	tr.inbox = append(tr.inbox, snapshot(1, remote("me", 16), remote("other", 100)))
	ns.Update(sim.Keys{}, 0.05)
	if v := ns.View(); len(v.Remote) != 1 || v.Remote[0].Box.X != 100 {
		t.Fatalf("first snapshot should place the remote player at 100, got %+v", v.Remote)
	}

	tr.inbox = append(tr.inbox, snapshot(2, remote("me", 16), remote("other", 110)))
	ns.Update(sim.Keys{}, 0.05)
	if x := ns.View().Remote[0].Box.X; math.Abs(x-105) > 0.1 {
		t.Fatalf("halfway through the window the remote player should be near 105, got %v", x)
	}

	ns.Update(sim.Keys{}, 0.1)
	if x := ns.View().Remote[0].Box.X; math.Abs(x-110) > 1e-3 {
		t.Fatalf("after the window the remote player should hold at 110, got %v", x)
	}

	tr.inbox = append(tr.inbox, snapshot(3, remote("me", 16)))
	ns.Update(sim.Keys{}, frame)
	if v := ns.View(); len(v.Remote) != 0 {
		t.Fatalf("players missing from the snapshot must be removed, got %+v", v.Remote)
	}
}

func TestJoinAndDisconnectEvents(t *testing.T) {
	ns, tr := joinedScene(t)

	p := remote("other", 50)
	tr.inbox = append(tr.inbox, messages.NewPlayerJoined("other", &p))
	ns.Update(sim.Keys{}, frame)
	if len(ns.View().Remote) != 1 {
		t.Fatalf("expected the joined player to appear")
	}

	tr.inbox = append(tr.inbox, messages.NewPlayerSwordAttack("other", messages.Sword{SwordX: 62, SwordY: 291, SwordWidth: 14, SwordHeight: 10}))
	ns.Update(sim.Keys{}, frame)
	if v := ns.View(); v.Remote[0].Sword == nil || !v.Remote[0].Attacking {
		t.Fatalf("expected the remote swing to be visible, got %+v", v.Remote[0])
	}

	tr.inbox = append(tr.inbox, messages.NewPlayerDisconnected("other"))
	ns.Update(sim.Keys{}, frame)
	if len(ns.View().Remote) != 0 {
		t.Fatalf("expected the player to be removed")
	}
}

func TestEnemyDefeatedScoresForLocalPlayer(t *testing.T) {
	ns, tr := joinedScene(t)

	tr.inbox = append(tr.inbox,
		messages.NewEnemyDefeated(0, "someone-else"),
		messages.NewEnemyDefeated(7, "me"),
	)
	ns.Update(sim.Keys{}, frame)
	if !ns.View().Enemies[0].Defeated {
		t.Fatalf("enemy 0 should be shown defeated")
	}
	if ns.Profile.Score != 0 {
		t.Fatalf("other players' kills and unknown indices must not score, got %d", ns.Profile.Score)
	}

	ns.world.Enemies[0].Defeated = false
	tr.inbox = append(tr.inbox, messages.NewEnemyDefeated(0, "me"))
	ns.Update(sim.Keys{}, frame)
	if ns.Profile.Score != 100 {
		t.Fatalf("expected 100 points, got %d", ns.Profile.Score)
	}
}

func TestLosingAllLivesRecordsBestScore(t *testing.T) {
	store := systems.MemoryStore{}
	tr := &fakeTransport{state: netconfig.StateConnected}
	ns := NewNetworkedScene(tr, SceneOptions{Server: "localhost:7373", Store: store})
	tr.inbox = append(tr.inbox, handshake("me"), messages.NewEnemyDefeated(0, "me"))
	ns.Update(sim.Keys{}, frame)

	for i := 0; i < 2; i++ {
		tr.inbox = append(tr.inbox, messages.NewPlayerHit("me", 1, false))
		ns.Update(sim.Keys{}, frame)
	}
	if ns.Profile.Lives != 1 || !ns.View().Local.Hit {
		t.Fatalf("expected 1 life left and a hit flash, got %+v", ns.Profile)
	}

	tr.inbox = append(tr.inbox, messages.NewPlayerHit("me", 1, true))
	ns.Update(sim.Keys{}, frame)
	if ns.Profile.Lives != 3 || ns.Profile.Score != 0 || ns.Profile.GameOver != 1 {
		t.Fatalf("expected a fresh run after game over, got %+v", ns.Profile)
	}
	if ns.Profile.Best != 100 {
		t.Fatalf("expected best score 100, got %d", ns.Profile.Best)
	}
	saved := systems.LoadProfile(store)
	if saved.BestScore != 100 || saved.LastServer != "localhost:7373" || saved.GamesTotal != 1 {
		t.Fatalf("unexpected saved profile %+v", saved)
	}
}

func TestTouchingCoinCollectsOnce(t *testing.T) {
	ns, tr := joinedScene(t, coinAt(18, spawnY+2))

	ns.Update(sim.Keys{}, frame)
	if ns.Profile.Score != 10 {
		t.Fatalf("expected 10 points for the coin, got %d", ns.Profile.Score)
	}
	collects := tr.sentOfType(messages.TypeCollectCoin)
	if len(collects) != 1 || collects[0].(*messages.CollectCoin).CoinIndex != 0 {
		t.Fatalf("expected one collectCoin for index 0, got %+v", collects)
	}

	// The server hasn't seen the pickup yet.
	stale := snapshot(1, remote("me", 16))
	stale.Collectibles = []messages.CollectibleState{coinAt(18, spawnY+2)}
	tr.inbox = append(tr.inbox, stale)
	ns.Update(sim.Keys{}, frame)
	if ns.Profile.Score != 10 || len(tr.sentOfType(messages.TypeCollectCoin)) != 1 {
		t.Fatalf("a stale snapshot must not let the coin be collected twice, score %d", ns.Profile.Score)
	}
	if len(ns.View().Collectibles) != 0 {
		t.Fatalf("the claimed coin should stay hidden")
	}
}

func TestSwordSwingIsReported(t *testing.T) {
	ns, tr := joinedScene(t)

	ns.Update(sim.Keys{Attack: true}, frame)
	ns.Update(sim.Keys{Attack: true}, frame)

	swings := tr.sentOfType(messages.TypeSwordAttack)
	if len(swings) != 1 {
		t.Fatalf("holding attack should swing once, got %d", len(swings))
	}
	sw := swings[0].(*messages.SwordAttack)
	if sw.SwordWidth != 14 || sw.SwordHeight != 10 || !sw.FacingRight {
		t.Fatalf("unexpected sword %+v", sw.Sword)
	}
	if v := ns.View(); !v.Local.Attacking || v.Local.Sword == nil {
		t.Fatalf("local swing should be visible")
	}
}

func TestConnectionLossFallsBackOffline(t *testing.T) {
	ns, tr := joinedScene(t)
	tr.inbox = append(tr.inbox, snapshot(1, remote("me", 16), remote("other", 100)))
	ns.Update(sim.Keys{}, frame)

	tr.state = netconfig.StateDisconnected
	ns.Update(sim.Keys{}, frame)

	v := ns.View()
	if v.Mode != ModeOffline {
		t.Fatalf("expected offline mode, got %v", v.Mode)
	}
	if len(v.Remote) != 0 || ns.LocalID() != "" {
		t.Fatalf("session state must be cleared, remote %+v id %q", v.Remote, ns.LocalID())
	}
	if v.Local == nil || v.Grid == nil {
		t.Fatalf("offline world should be shown")
	}

	tr.state = netconfig.StateConnected
	tr.inbox = append(tr.inbox, handshake("me-again"))
	ns.Update(sim.Keys{}, frame)
	if ns.mode() != ModeOnline || ns.LocalID() != "me-again" {
		t.Fatalf("a new handshake should bring the scene back online")
	}
}
