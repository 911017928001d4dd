package netcomponents

import "github.com/yohamta/donburi"

type NetPlayerStateData struct {
	ID                    string // uuid assigned on connect
	LastProcessedInputSeq uint32 // last input sequence applied by the server (for prediction reconciliation)
	OnGround              bool
	Attacking             bool
	IsLocal               bool // client-side only, not synced
}

var NetPlayerState = donburi.NewComponentType[NetPlayerStateData]()
