package systems

import (
	"math"
	"math/rand"

	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/gamemath"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/sim"
)

// BotState is the pilot's current intent.
type BotState int

const (
	BotStateIdle BotState = iota
	BotStateChase
	BotStateAttack
	BotStateWander
)

func (s BotState) String() string {
	switch s {
	case BotStateChase:
		return "chase"
	case BotStateAttack:
		return "attack"
	case BotStateWander:
		return "wander"
	default:
		return "idle"
	}
}

// botArriveDistance is how close to a target's center counts as there.
const botArriveDistance = 4.0

// BotSight is what a bot gets to look at each frame.
type BotSight struct {
	Self         gamemath.Rect
	Grid         *leveldata.Grid
	Enemies      []gamemath.Rect // live enemies only
	Collectibles []gamemath.Rect // visible pickups only
}

// Bot drives a player with generated keys, for load testing a server and for
// the headless client. It chases pickups, swings at enemies in range and
// jumps over walls and gaps.
type Bot struct {
	State  BotState
	tuning config.BotDifficultyConfig

	TargetX, TargetY float64
	hasTarget        bool

	decisionTimer float64
	jumpCooldown  float64
	wanderTimer   float64
	wanderRight   bool
	swung         bool

	rng *rand.Rand
}

// NewBot seeds the bot's random choices so runs can be replayed.
func NewBot(seed int64, difficulty config.BotDifficulty) *Bot {
	return &Bot{
		tuning:      config.BotTuning(difficulty),
		rng:         rand.New(rand.NewSource(seed)),
		wanderRight: true,
	}
}

// Update decides the keys for one frame.
func (b *Bot) Update(sight BotSight, dt float64) sim.Keys {
	b.decisionTimer -= dt
	b.jumpCooldown = max(0, b.jumpCooldown-dt)
	b.wanderTimer = max(0, b.wanderTimer-dt)

	x := sight.Self.X + sight.Self.W/2
	y := sight.Self.Y + sight.Self.H/2

	if b.decisionTimer <= 0 {
		b.decide(sight, x, y)
		b.decisionTimer = b.tuning.ReactionDelay
	}

	var keys sim.Keys
	switch b.State {
	case BotStateAttack:
		b.face(&keys, x)
		// Release between swings so every press is a fresh attack.
		keys.Attack = !b.swung
		b.swung = !b.swung
	case BotStateChase:
		if math.Abs(b.TargetX-x) > botArriveDistance {
			b.face(&keys, x)
		}
		if b.TargetY < sight.Self.Y-sight.Self.H && b.jumpCooldown <= 0 {
			keys.Jump = true
			b.jumpCooldown = b.tuning.JumpCooldown
		}
	case BotStateWander:
		keys.Right = b.wanderRight
		keys.Left = !b.wanderRight
	}

	if (keys.Left || keys.Right) && b.jumpCooldown <= 0 && sight.Grid != nil &&
		(wallAhead(sight.Grid, sight.Self, keys.Right) || gapAhead(sight.Grid, sight.Self, keys.Right, config.Bot.GapDepth)) {
		keys.Jump = true
		b.jumpCooldown = b.tuning.JumpCooldown
	}
	return keys
}

func (b *Bot) decide(sight BotSight, x, y float64) {
	if e, d, ok := nearest(sight.Enemies, x, y); ok && d < b.tuning.AttackRange {
		b.State = BotStateAttack
		b.setTarget(e)
		return
	}
	if c, d, ok := nearest(sight.Collectibles, x, y); ok && d < b.tuning.ChaseRange {
		b.State = BotStateChase
		b.setTarget(c)
		return
	}
	if e, d, ok := nearest(sight.Enemies, x, y); ok && d < b.tuning.ChaseRange {
		b.State = BotStateChase
		b.setTarget(e)
		return
	}

	b.hasTarget = false
	if b.State != BotStateWander || b.wanderTimer <= 0 {
		b.State = BotStateWander
		b.wanderRight = b.rng.Intn(2) == 0
		b.wanderTimer = config.Bot.WanderTime * (0.5 + b.rng.Float64())
	}
}

func (b *Bot) setTarget(r gamemath.Rect) {
	b.TargetX, b.TargetY = r.X+r.W/2, r.Y+r.H/2
	b.hasTarget = true
}

func (b *Bot) face(keys *sim.Keys, x float64) {
	if !b.hasTarget {
		return
	}
	keys.Right = b.TargetX > x
	keys.Left = !keys.Right
}

func nearest(rects []gamemath.Rect, x, y float64) (gamemath.Rect, float64, bool) {
	best := math.MaxFloat64
	var found gamemath.Rect
	for _, r := range rects {
		d := math.Hypot(r.X+r.W/2-x, r.Y+r.H/2-y)
		if d < best {
			best, found = d, r
		}
	}
	return found, best, best < math.MaxFloat64
}

// wallAhead reports a solid tile right in front of the body at mid height.
func wallAhead(g *leveldata.Grid, self gamemath.Rect, right bool) bool {
	cell := g.CellSize()
	x := self.X - 1
	if right {
		x = self.X + self.W + 1
	}
	return g.SolidAt(int(math.Floor(x/cell)), int(math.Floor((self.Y+self.H/2)/cell)))
}

// gapAhead reports no ground within depth tiles below the next column.
func gapAhead(g *leveldata.Grid, self gamemath.Rect, right bool, depth int) bool {
	cell := g.CellSize()
	x := self.X - cell/2
	if right {
		x = self.X + self.W + cell/2
	}
	col := int(math.Floor(x / cell))
	feetRow := int(math.Floor((self.Y + self.H) / cell))
	if !g.InBounds(col, feetRow) {
		return false
	}
	for row := feetRow; row < feetRow+depth; row++ {
		if g.SolidAt(col, row) {
			return false
		}
	}
	return true
}
