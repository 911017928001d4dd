package config

import "github.com/imdvls/Pixelknight/shared/netconfig"

// EnemyTypeConfig contains configuration for a specific enemy type.
type EnemyTypeConfig struct {
	Kind        netconfig.EnemyKind
	PatrolSpeed float64 // world units per second
	Flying      bool    // bats hover above the ground instead of walking on it
	HoverHeight float64 // distance above the ground surface for flying types

	// Dimensions match the sprite frames in spritedata
	Width  int
	Height int

	// Default patrol half-range used by the world generator
	PatrolRange float64
}

// EnemyConfig contains enemy system configuration.
type EnemyConfig struct {
	Types map[netconfig.EnemyKind]EnemyTypeConfig

	RespawnTime   float64 // seconds a defeated enemy stays down
	FrameDuration float64 // seconds per animation frame
}

// CombatConfig contains combat-related configuration values.
type CombatConfig struct {
	// Stomp detection
	StompTolerance   float64 // max distance between feet and enemy top
	StompEdgeMargin  float64 // required horizontal overlap inside each enemy edge
	StompBounceScale float64 // bounce velocity as a fraction of JumpSpeed

	// Sword
	SwordWidth     float64
	SwordHeight    float64
	SwordReach     float64 // max gap between player box and sword box
	AttackDuration float64 // seconds the attacking state lasts
	AttackCooldown float64 // seconds before another swing is accepted

	// Damage taken
	HitDamage   int
	HitCooldown float64 // seconds of invulnerability after a hit
}

// CollectibleTypeConfig describes one pickup type.
type CollectibleTypeConfig struct {
	Kind   netconfig.CollectibleKind
	Value  int
	Width  int
	Height int
}

// CollectibleConfig contains pickup configuration.
type CollectibleConfig struct {
	Types         map[netconfig.CollectibleKind]CollectibleTypeConfig
	RespawnTime   float64
	FrameDuration float64
	// CollectSlack widens the server's overlap test for client-initiated
	// pickups to absorb prediction lead.
	CollectSlack float64
}

// PlayerConfig contains client-side presentation values the server never tracks.
type PlayerConfig struct {
	StartingLives int
	FrameDuration float64
	DefeatScore   int // awarded for each enemy this player defeats
}

var Enemy EnemyConfig
var Combat CombatConfig
var Collectible CollectibleConfig
var Player PlayerConfig

func init() {
	Enemy = EnemyConfig{
		Types: map[netconfig.EnemyKind]EnemyTypeConfig{
			netconfig.EnemySlime: {
				Kind:        netconfig.EnemySlime,
				PatrolSpeed: 30,
				Width:       16,
				Height:      12,
				PatrolRange: 48,
			},
			netconfig.EnemyRobot: {
				Kind:        netconfig.EnemyRobot,
				PatrolSpeed: 45,
				Width:       14,
				Height:      16,
				PatrolRange: 64,
			},
			netconfig.EnemyBat: {
				Kind:        netconfig.EnemyBat,
				PatrolSpeed: 60,
				Flying:      true,
				HoverHeight: 40,
				Width:       16,
				Height:      10,
				PatrolRange: 56,
			},
		},
		RespawnTime:   5.0,
		FrameDuration: 0.2,
	}

	Combat = CombatConfig{
		StompTolerance:   2,
		StompEdgeMargin:  4,
		StompBounceScale: 0.7,

		SwordWidth:     14,
		SwordHeight:    10,
		SwordReach:     8,
		AttackDuration: 0.2,
		AttackCooldown: 0.3,

		HitDamage:   1,
		HitCooldown: 1.0,
	}

	Collectible = CollectibleConfig{
		Types: map[netconfig.CollectibleKind]CollectibleTypeConfig{
			netconfig.CollectibleCoin: {Kind: netconfig.CollectibleCoin, Value: 10, Width: 8, Height: 8},
			netconfig.CollectibleGem:  {Kind: netconfig.CollectibleGem, Value: 50, Width: 8, Height: 8},
		},
		RespawnTime:   20.0,
		FrameDuration: 0.25,
		CollectSlack:  16,
	}

	Player = PlayerConfig{
		StartingLives: 3,
		FrameDuration: 0.15,
		DefeatScore:   100,
	}
}

// EnemyType returns the configuration for kind, falling back to slime for
// unknown kinds so malformed map data still produces a valid enemy.
func EnemyType(kind netconfig.EnemyKind) EnemyTypeConfig {
	if t, ok := Enemy.Types[kind]; ok {
		return t
	}
	return Enemy.Types[netconfig.EnemySlime]
}

// CollectibleType returns the configuration for kind, falling back to coin.
func CollectibleType(kind netconfig.CollectibleKind) CollectibleTypeConfig {
	if t, ok := Collectible.Types[kind]; ok {
		return t
	}
	return Collectible.Types[netconfig.CollectibleCoin]
}
