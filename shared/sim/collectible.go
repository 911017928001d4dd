package sim

import (
	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/netconfig"
)

// Collectible is a pickup. Once collected it stays hidden until its respawn
// timer runs out.
type Collectible struct {
	Body
	Kind  netconfig.CollectibleKind
	Value int

	Collected    bool
	RespawnTimer float64
}

func NewCollectible(spawn leveldata.CollectibleSpawn) *Collectible {
	cfg := config.CollectibleType(spawn.Kind)
	return &Collectible{
		Body: Body{
			X: spawn.X,
			Y: spawn.Y,
			W: float64(cfg.Width),
			H: float64(cfg.Height),
		},
		Kind:  cfg.Kind,
		Value: cfg.Value,
	}
}

// Collect marks the pickup collected. It reports false when it already was,
// so a second collection has no effect.
func (c *Collectible) Collect() bool {
	if c.Collected {
		return false
	}
	c.Collected = true
	c.RespawnTimer = config.Collectible.RespawnTime
	return true
}

func (c *Collectible) Update(dt float64) {
	if c.Collected {
		c.RespawnTimer -= dt
		if c.RespawnTimer <= 0 {
			c.Collected = false
			c.RespawnTimer = 0
		}
		return
	}
	c.Animate(dt, config.Collectible.FrameDuration)
}
