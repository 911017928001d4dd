package sim

import (
	"math/rand"
	"sort"

	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/collision"
	"github.com/imdvls/Pixelknight/shared/gamemath"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/netconfig"
	"github.com/solarlune/resolv"
)

// Resolv tags for the broadphase space.
const (
	TagEnemy       = "enemy"
	TagCollectible = "collectible"
	TagPlayer      = "player"
	TagSword       = "sword"
)

// Broadphase cells span two tiles; every entity is smaller than that.
const broadphaseCell = netconfig.TileSize * 2

// World owns the non-player entities of one level. Enemy and collectible
// slices are built once and never reordered or resized.
type World struct {
	Level        *leveldata.Level
	Grid         *leveldata.Grid
	Enemies      []*Enemy
	Collectibles []*Collectible

	// Space is the broadphase. Enemy and collectible objects carry their
	// slice index in Data; player probes carry whatever the caller set.
	Space *resolv.Space

	rng                *rand.Rand
	enemyObjects       []*resolv.Object
	collectibleObjects []*resolv.Object
	swordMask          *collision.Mask
}

// NewWorld builds the entity set for level. seed drives enemy directions.
func NewWorld(level *leveldata.Level, seed int64) *World {
	rng := rand.New(rand.NewSource(seed))
	worldW, worldH := level.Grid.Size()

	w := &World{
		Level:     level,
		Grid:      level.Grid,
		Space:     resolv.NewSpace(int(worldW), int(worldH), broadphaseCell, broadphaseCell),
		rng:       rng,
		swordMask: collision.SolidMask(int(config.Combat.SwordWidth), int(config.Combat.SwordHeight)),
	}

	for i, spawn := range level.Enemies {
		e := NewEnemy(spawn, rng)
		obj := newObject(&e.Body, TagEnemy)
		obj.Data = i
		w.Space.Add(obj)
		w.Enemies = append(w.Enemies, e)
		w.enemyObjects = append(w.enemyObjects, obj)
	}
	for i, spawn := range level.Collectibles {
		c := NewCollectible(spawn)
		obj := newObject(&c.Body, TagCollectible)
		obj.Data = i
		w.Space.Add(obj)
		w.Collectibles = append(w.Collectibles, c)
		w.collectibleObjects = append(w.collectibleObjects, obj)
	}
	return w
}

func newObject(b *Body, tags ...string) *resolv.Object {
	obj := resolv.NewObject(b.X, b.Y, b.W, b.H, tags...)
	obj.SetShape(resolv.NewRectangle(0, 0, b.W, b.H))
	return obj
}

func syncObject(obj *resolv.Object, b *Body) {
	obj.X, obj.Y = b.X, b.Y
	obj.Update()
}

// Step advances every enemy state machine and collectible respawn timer.
func (w *World) Step(dt float64) {
	for i, e := range w.Enemies {
		e.Update(dt, w.rng)
		syncObject(w.enemyObjects[i], &e.Body)
	}
	for _, c := range w.Collectibles {
		c.Update(dt)
	}
}

// Sync pushes entity positions into the broadphase after they were set
// outside Step, as the client does when applying snapshots.
func (w *World) Sync() {
	for i, e := range w.Enemies {
		syncObject(w.enemyObjects[i], &e.Body)
	}
	for i, c := range w.Collectibles {
		syncObject(w.collectibleObjects[i], &c.Body)
	}
}

// Enemy returns enemy i, or false for an out-of-range index.
func (w *World) Enemy(i int) (*Enemy, bool) {
	if i < 0 || i >= len(w.Enemies) {
		return nil, false
	}
	return w.Enemies[i], true
}

// Collectible returns collectible i, or false for an out-of-range index.
func (w *World) Collectible(i int) (*Collectible, bool) {
	if i < 0 || i >= len(w.Collectibles) {
		return nil, false
	}
	return w.Collectibles[i], true
}

// Collect marks pickup i collected. Out-of-range indices and repeated
// collection are no-ops reporting false.
func (w *World) Collect(i int) (*Collectible, bool) {
	c, ok := w.Collectible(i)
	if !ok || !c.Collect() {
		return c, false
	}
	return c, true
}

// CollectNear collects pickup i only when b, widened by slack on every side,
// overlaps it.
func (w *World) CollectNear(i int, b *Body, slack float64) (*Collectible, bool) {
	c, ok := w.Collectible(i)
	if !ok || c.Collected || !b.Rect().Inflate(slack).Overlaps(c.Rect()) {
		return c, false
	}
	return w.Collect(i)
}

// DefeatEnemy defeats enemy i, reporting false for bad indices or enemies
// that are already down.
func (w *World) DefeatEnemy(i int) bool {
	e, ok := w.Enemy(i)
	return ok && e.Defeat()
}

// AddProbe registers a player box in the broadphase.
func (w *World) AddProbe(b *Body, data any) *resolv.Object {
	obj := newObject(b, TagPlayer)
	obj.Data = data
	w.Space.Add(obj)
	return obj
}

func (w *World) RemoveProbe(obj *resolv.Object) {
	if obj != nil {
		w.Space.Remove(obj)
	}
}

// Contacts is what one player ran into during a tick.
type Contacts struct {
	Stomped []int // enemies defeated by landing on them
	HitBy   int   // enemy touching the player from the side, -1 if none
	Picked  []int // collectibles picked up
}

// IsStomp decides whether a falling player lands on an enemy: moving down,
// feet within tolerance of the enemy's top at some point this step, and
// overlapping horizontally by at least the edge margin on both sides.
func IsStomp(player gamemath.Rect, vy, prevFeet float64, enemy gamemath.Rect) bool {
	if vy <= 0 {
		return false
	}
	tol := config.Combat.StompTolerance
	feet := player.Bottom()
	if feet < enemy.Y-tol || min(prevFeet, feet) > enemy.Y+tol {
		return false
	}
	margin := config.Combat.StompEdgeMargin
	return player.Right() > enemy.X+margin && player.X < enemy.Right()-margin
}

// Interact resolves one player against enemies and pickups. prevFeet and
// prevVY are the player's feet and vertical velocity before this tick's
// motion: a player that landed during the step has already had VY zeroed by
// the solver, so either velocity moving down counts as falling. With
// canBeHit false the side contact test is skipped.
func (w *World) Interact(probe *resolv.Object, b *Body, prevFeet, prevVY float64, canBeHit bool) Contacts {
	c := Contacts{HitBy: -1}
	syncObject(probe, b)

	check := probe.Check(0, config.Combat.StompTolerance, TagEnemy, TagCollectible)
	if check == nil {
		return c
	}

	falling := max(prevVY, b.VY)
	for _, i := range indices(check.ObjectsByTags(TagEnemy), len(w.Enemies)) {
		e := w.Enemies[i]
		if e.Defeated {
			continue
		}
		pr := b.Rect()
		if IsStomp(pr, falling, prevFeet, e.Rect()) {
			if e.Defeat() {
				b.VY = netconfig.JumpSpeed * config.Combat.StompBounceScale
				c.Stomped = append(c.Stomped, i)
			}
			continue
		}
		if canBeHit && c.HitBy < 0 && pr.Overlaps(e.Rect()) &&
			collision.PixelOverlap(PlacedPlayer(b), e.Placed()) {
			c.HitBy = i
		}
	}

	for _, i := range indices(check.ObjectsByTags(TagCollectible), len(w.Collectibles)) {
		col := w.Collectibles[i]
		if b.Rect().Overlaps(col.Rect()) && col.Collect() {
			c.Picked = append(c.Picked, i)
		}
	}
	return c
}

// SwordBox places a swing in front of b at mid height.
func SwordBox(b *Body) gamemath.Rect {
	sw, sh := config.Combat.SwordWidth, config.Combat.SwordHeight
	x := b.X - sw
	if b.FacingRight {
		x = b.X + b.W
	}
	return gamemath.Rect{X: x, Y: b.Y + (b.H-sh)/2, W: sw, H: sh}
}

// SwordInReach validates a client-reported swing against the attacker's box.
func SwordInReach(b *Body, sword gamemath.Rect) bool {
	if sword.W <= 0 || sword.H <= 0 ||
		sword.W > config.Combat.SwordWidth || sword.H > config.Combat.SwordHeight {
		return false
	}
	return b.Rect().Gap(sword) <= config.Combat.SwordReach
}

// SwordHits defeats every live enemy the swing touches, pixel exact, and
// returns their indices in ascending order.
func (w *World) SwordHits(sword gamemath.Rect) []int {
	obj := resolv.NewObject(sword.X, sword.Y, sword.W, sword.H, TagSword)
	w.Space.Add(obj)
	defer w.Space.Remove(obj)

	check := obj.Check(0, 0, TagEnemy)
	if check == nil {
		return nil
	}

	placed := collision.Placed{Box: sword, Mask: w.swordMask}
	var hits []int
	for _, i := range indices(check.ObjectsByTags(TagEnemy), len(w.Enemies)) {
		e := w.Enemies[i]
		if e.Defeated || !sword.Overlaps(e.Rect()) {
			continue
		}
		if collision.PixelOverlap(placed, e.Placed()) && e.Defeat() {
			hits = append(hits, i)
		}
	}
	return hits
}

// indices extracts the slice indices stored in object Data, deduplicated and
// sorted so results don't depend on broadphase cell order.
func indices(objs []*resolv.Object, n int) []int {
	seen := make(map[int]bool, len(objs))
	out := make([]int, 0, len(objs))
	for _, obj := range objs {
		i, ok := obj.Data.(int)
		if !ok || i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
