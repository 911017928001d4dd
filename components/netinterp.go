package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// NetInterpData stores interpolation state for smooth rendering of remote
// networked entities between server snapshots.
type NetInterpData struct {
	PrevX, PrevY     float64
	TargetX, TargetY float64
	Initialized      bool

	// Progress runs 0 to 1 over one snapshot window and then holds at 1.
	// T is its latest value.
	Progress *gween.Tween
	T        float64
}

var NetInterp = donburi.NewComponentType[NetInterpData]()
