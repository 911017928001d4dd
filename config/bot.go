package config

import "fmt"

// BotDifficulty affects reaction time and how far the bot looks
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

var botDifficultyNames = map[BotDifficulty]string{
	BotDifficultyEasy:   "easy",
	BotDifficultyNormal: "normal",
	BotDifficultyHard:   "hard",
}

func (d BotDifficulty) String() string {
	if name, ok := botDifficultyNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseBotDifficulty maps a flag value to a difficulty.
func ParseBotDifficulty(name string) (BotDifficulty, error) {
	for d, n := range botDifficultyNames {
		if n == name {
			return d, nil
		}
	}
	return BotDifficultyNormal, fmt.Errorf("unknown bot difficulty %q", name)
}

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay float64 // seconds between decisions
	AttackRange   float64 // distance to an enemy that starts a swing
	ChaseRange    float64 // targets further than this are ignored
	JumpCooldown  float64 // seconds between generated jumps
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Difficulties map[BotDifficulty]BotDifficultyConfig

	WanderTime float64 // mean seconds spent walking one way with nothing in sight
	GapDepth   int     // tiles of drop ahead that count as a gap worth jumping
}

// Bot holds bot AI configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				ReactionDelay: 0.5,
				AttackRange:   14,
				ChaseRange:    120,
				JumpCooldown:  0.6,
			},
			BotDifficultyNormal: {
				ReactionDelay: 0.25,
				AttackRange:   20,
				ChaseRange:    240,
				JumpCooldown:  0.4,
			},
			BotDifficultyHard: {
				ReactionDelay: 0.08,
				AttackRange:   24,
				ChaseRange:    400,
				JumpCooldown:  0.3,
			},
		},
		WanderTime: 2.0,
		GapDepth:   3,
	}
}

// BotTuning returns the table for d, falling back to normal.
func BotTuning(d BotDifficulty) BotDifficultyConfig {
	if t, ok := Bot.Difficulties[d]; ok {
		return t
	}
	return Bot.Difficulties[BotDifficultyNormal]
}
