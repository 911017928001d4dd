package sim

import (
	"github.com/imdvls/Pixelknight/shared/collision"
	"github.com/imdvls/Pixelknight/shared/netconfig"
	"github.com/imdvls/Pixelknight/shared/spritedata"
)

// EnemyMasks holds both animation frames' masks for every enemy kind. Built
// once at startup and shared read-only.
var EnemyMasks = buildEnemyMasks()

var playerMasks = buildPlayerMasks()

func buildEnemyMasks() map[netconfig.EnemyKind][2]*collision.Mask {
	masks := make(map[netconfig.EnemyKind][2]*collision.Mask, len(netconfig.EnemyKinds))
	for _, kind := range netconfig.EnemyKinds {
		s := spritedata.Enemy(kind)
		masks[kind] = [2]*collision.Mask{
			collision.MaskFromRows(s.Frames[0]),
			collision.MaskFromRows(s.Frames[1]),
		}
	}
	return masks
}

// The player's masks come from its rendered frames, opaque where alpha > 0.
func buildPlayerMasks() [2]*collision.Mask {
	return [2]*collision.Mask{
		collision.MaskFromImage(spritedata.FrameImage(spritedata.Player.Frames[0])),
		collision.MaskFromImage(spritedata.FrameImage(spritedata.Player.Frames[1])),
	}
}

// EnemyMask returns the mask for kind at frame, falling back to the slime.
func EnemyMask(kind netconfig.EnemyKind, frame int) *collision.Mask {
	set, ok := EnemyMasks[kind]
	if !ok {
		set = EnemyMasks[netconfig.EnemySlime]
	}
	return set[frame&1]
}

func PlayerMask(frame int) *collision.Mask {
	return playerMasks[frame&1]
}

// PlacedPlayer positions the player's current mask in the world.
func PlacedPlayer(b *Body) collision.Placed {
	return collision.Placed{Box: b.Rect(), Mask: PlayerMask(b.Frame), FacingLeft: !b.FacingRight}
}
