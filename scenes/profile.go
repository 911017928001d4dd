package scenes

import "github.com/imdvls/Pixelknight/config"

// Profile is the client-only score and lives display. The server never
// tracks either.
type Profile struct {
	Score    int
	Lives    int
	MaxLives int
	Best     int
	GameOver int // runs that ended by losing every life
}

func NewProfile() Profile {
	return Profile{
		Lives:    config.Player.StartingLives,
		MaxLives: config.Player.StartingLives,
	}
}

// LoseLife takes one life and reports whether that was the last one.
func (p *Profile) LoseLife() bool {
	if p.Lives > 0 {
		p.Lives--
	}
	return p.Lives == 0
}

// Restart begins a new run with full lives and no score.
func (p *Profile) Restart() {
	p.GameOver++
	p.Score = 0
	p.Lives = p.MaxLives
}
