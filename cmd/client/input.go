package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/imdvls/Pixelknight/shared/sim"
)

type action int

const (
	actionLeft action = iota
	actionRight
	actionJump
	actionAttack
)

// bindings maps each action to the keyboard keys that trigger it.
var bindings = map[action][]ebiten.Key{
	actionLeft:   {ebiten.KeyArrowLeft, ebiten.KeyA},
	actionRight:  {ebiten.KeyArrowRight, ebiten.KeyD},
	actionJump:   {ebiten.KeySpace, ebiten.KeyArrowUp, ebiten.KeyW},
	actionAttack: {ebiten.KeyX, ebiten.KeyJ},
}

// readKeys polls the bound keys through pressed. Edge detection for jump and
// attack happens in the simulation and the scene, so this is level only.
func readKeys(pressed func(ebiten.Key) bool) sim.Keys {
	held := func(a action) bool {
		for _, k := range bindings[a] {
			if pressed(k) {
				return true
			}
		}
		return false
	}
	return sim.Keys{
		Left:   held(actionLeft),
		Right:  held(actionRight),
		Jump:   held(actionJump),
		Attack: held(actionAttack),
	}
}
