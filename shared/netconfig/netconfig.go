// Package netconfig defines the world constants and lightweight enums shared
// between client and server. Both sides must simulate with exactly these
// values or prediction drifts away from the server. It has no dependencies so
// the dedicated server binary stays headless.
package netconfig

import "time"

// World geometry.
const (
	TileSize  = 16
	WorldCols = 1000
	WorldRows = 240

	WorldWidth  = WorldCols * TileSize
	WorldHeight = WorldRows * TileSize

	// DefaultWorldSeed drives the default world generator. Clients that miss
	// the handshake map regenerate the same world from it.
	DefaultWorldSeed int64 = 7331
)

// Timing.
const (
	TickPeriod          = 100 * time.Millisecond
	InactivityTimeout   = 30 * time.Second
	ReconnectDelay      = 5 * time.Second
	HeartbeatInterval   = 5 * time.Second
	InterpolationWindow = TickPeriod
)

// Player physics, in world units and seconds. Negative Y is up.
const (
	Gravity         = 800.0
	JumpSpeed       = -400.0
	MinJumpVelocity = -150.0
	MoveSpeed       = 150.0
	MaxFallSpeed    = 600.0
	JumpCooldown    = 0.25

	PlayerWidth  = 12
	PlayerHeight = 16
)

// TileKind identifies the material of a grid cell.
type TileKind int

const (
	TileEmpty TileKind = iota
	TileGround
	TileGrass
	TilePlatform
)

var tileKindNames = map[TileKind]string{
	TileEmpty:    "empty",
	TileGround:   "ground",
	TileGrass:    "grass",
	TilePlatform: "platform",
}

func (k TileKind) String() string {
	if name, ok := tileKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseTileKind maps a TMX "kind" property to a TileKind. Unknown names are
// treated as ground so hand-drawn maps without properties stay solid.
func ParseTileKind(name string) TileKind {
	for k, n := range tileKindNames {
		if n == name {
			return k
		}
	}
	return TileGround
}

// EnemyKind selects an enemy's mask set and tuning.
type EnemyKind string

const (
	EnemySlime EnemyKind = "slime"
	EnemyRobot EnemyKind = "robot"
	EnemyBat   EnemyKind = "bat"
)

// EnemyKinds lists every enemy kind in generation order.
var EnemyKinds = []EnemyKind{EnemySlime, EnemyRobot, EnemyBat}

// CollectibleKind identifies a pickup type.
type CollectibleKind string

const (
	CollectibleCoin CollectibleKind = "coin"
	CollectibleGem  CollectibleKind = "gem"
)

// ClientState is the client connection state machine.
type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
)

func (s ClientState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}
