package components

import (
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/yohamta/donburi"
)

// RemotePlayerData is what the client shows for another player beyond its
// interpolated body.
type RemotePlayerData struct {
	LastSword   *messages.Sword // most recent swing seen, for rendering
	SwordTimer  float64         // seconds left to show LastSword
	HitFlash    float64         // seconds left of the hit flash
	LastUpdated uint64          // tick of the last snapshot that included this player
}

var RemotePlayer = donburi.NewComponentType[RemotePlayerData]()
