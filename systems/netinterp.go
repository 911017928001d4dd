package systems

import (
	"github.com/imdvls/Pixelknight/components"
	"github.com/imdvls/Pixelknight/shared/gamemath"
	"github.com/imdvls/Pixelknight/shared/netcomponents"
	"github.com/imdvls/Pixelknight/tags"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// SetInterpTarget starts moving from the currently displayed position
// towards (x, y) over window seconds. The first target is snapped to.
func SetInterpTarget(d *components.NetInterpData, x, y, window float64) {
	if !d.Initialized {
		d.PrevX, d.PrevY = x, y
		d.Initialized = true
	} else {
		d.PrevX, d.PrevY = InterpPosition(d)
	}
	d.TargetX, d.TargetY = x, y
	d.T = 0
	d.Progress = gween.New(0, 1, float32(window), ease.Linear)
}

// StepInterp advances the window by dt and returns the display position.
// Once the window has elapsed the target is held until the next snapshot.
func StepInterp(d *components.NetInterpData, dt float64) (x, y float64) {
	if d.Progress == nil {
		d.T = 1
	} else {
		current, _ := d.Progress.Update(float32(dt))
		d.T = gamemath.Clamp(float64(current), 0, 1)
	}
	return InterpPosition(d)
}

// InterpPosition is the display position at the current progress.
func InterpPosition(d *components.NetInterpData) (x, y float64) {
	return gamemath.Lerp(d.PrevX, d.TargetX, d.T), gamemath.Lerp(d.PrevY, d.TargetY, d.T)
}

var remoteQuery = donburi.NewQuery(filter.Contains(tags.RemotePlayer, netcomponents.NetBody, components.NetInterp))

// UpdateRemoteInterpolation moves every remote player's body along its
// interpolation window.
func UpdateRemoteInterpolation(world donburi.World, dt float64) {
	remoteQuery.Each(world, func(entry *donburi.Entry) {
		d := components.NetInterp.Get(entry)
		body := netcomponents.NetBody.Get(entry)
		body.X, body.Y = StepInterp(d, dt)
	})
}
