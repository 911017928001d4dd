package netcomponents

import (
	"github.com/imdvls/Pixelknight/shared/sim"
	"github.com/yohamta/donburi"
)

// NetBody is a networked player's body: authoritative on the server, a
// predicted or interpolated shadow on the client.
var NetBody = donburi.NewComponentType[sim.Body]()
