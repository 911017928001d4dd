// Package spritedata holds the static two-frame pixel art for every entity
// type. Collision masks are derived from it; the renderer may use it too.
// '.' is transparent, every other character is a palette color.
package spritedata

import (
	"image"
	"image/color"

	"github.com/imdvls/Pixelknight/shared/netconfig"
)

// Sprite is a named set of equally sized frames.
type Sprite struct {
	Name   string
	W, H   int
	Frames [][]string
}

var Player = Sprite{
	Name: "player",
	W:    12,
	H:    16,
	Frames: [][]string{
		{
			"....HHHH....",
			"...HHHHHH...",
			"...SSSSSS...",
			"...SESSES...",
			"...SSSSSS...",
			"....SSSS....",
			"..AAAAAAAA..",
			".AAAAAAAAAA.",
			".SAAAAAAAAS.",
			".SAAAAAAAAS.",
			"...BBBBBB...",
			"...LLLLLL...",
			"...LL..LL...",
			"...LL..LL...",
			"...LL..LL...",
			"..FFF..FFF..",
		},
		{
			"....HHHH....",
			"...HHHHHH...",
			"...SSSSSS...",
			"...SESSES...",
			"...SSSSSS...",
			"....SSSS....",
			"..AAAAAAAA..",
			".AAAAAAAAAA.",
			".SAAAAAAAAS.",
			".SAAAAAAAAS.",
			"...BBBBBB...",
			"...LLLLLL...",
			"..LL....LL..",
			"..LL....LL..",
			".LL......LL.",
			".FF......FF.",
		},
	},
}

var Slime = Sprite{
	Name: string(netconfig.EnemySlime),
	W:    16,
	H:    12,
	Frames: [][]string{
		{
			"................",
			"................",
			"......GGGG......",
			"....GGGGGGGG....",
			"...GGGGGGGGGG...",
			"..GGGWGGGGWGGG..",
			"..GGGKGGGGKGGG..",
			".GGGGGGGGGGGGGG.",
			".GGGGGGGGGGGGGG.",
			"GGGGGGGGGGGGGGGG",
			"GGGGGGGGGGGGGGGG",
			".GGGGGGGGGGGGGG.",
		},
		{
			"................",
			"................",
			"................",
			"................",
			".....GGGGGG.....",
			"...GGGGGGGGGG...",
			"..GGGWGGGGWGGG..",
			".GGGGKGGGGKGGGG.",
			"GGGGGGGGGGGGGGGG",
			"GGGGGGGGGGGGGGGG",
			"GGGGGGGGGGGGGGGG",
			".GGGGGGGGGGGGGG.",
		},
	},
}

var Robot = Sprite{
	Name: string(netconfig.EnemyRobot),
	W:    14,
	H:    16,
	Frames: [][]string{
		{
			"......AA......",
			"......AA......",
			"...MMMMMMMM...",
			"...MRRMMRRM...",
			"...MMMMMMMM...",
			"...MMKKKKMM...",
			"....MMMMMM....",
			"..MMMMMMMMMM..",
			".MMMMMMMMMMMM.",
			".MM.MMMMMM.MM.",
			".MM.MMMMMM.MM.",
			"....MMMMMM....",
			"....MM..MM....",
			"....MM..MM....",
			"....MM..MM....",
			"...MMM..MMM...",
		},
		{
			"......AA......",
			"......AA......",
			"...MMMMMMMM...",
			"...MRRMMRRM...",
			"...MMMMMMMM...",
			"...MMKKKKMM...",
			"....MMMMMM....",
			"..MMMMMMMMMM..",
			".MMMMMMMMMMMM.",
			".MM.MMMMMM.MM.",
			".MM.MMMMMM.MM.",
			"....MMMMMM....",
			"....MM..MM....",
			"...MM....MM...",
			"...MM....MM...",
			"..MMM....MMM..",
		},
	},
}

var Bat = Sprite{
	Name: string(netconfig.EnemyBat),
	W:    16,
	H:    10,
	Frames: [][]string{
		{
			"W..............W",
			"WW............WW",
			"WWW..PPPPPP..WWW",
			".WWWPPPPPPPPWWW.",
			"..WWPPRPPRPPWW..",
			"...WPPPPPPPPW...",
			"....PPPPPPPP....",
			".....PPPPPP.....",
			"......P..P......",
			"................",
		},
		{
			"................",
			"................",
			".....PPPPPP.....",
			"....PPPPPPPP....",
			"...WPPRPPRPPW...",
			"..WWPPPPPPPPWW..",
			".WWWPPPPPPPPWWW.",
			"WWW..PPPPPP..WWW",
			"WW....P..P....WW",
			"W..............W",
		},
	},
}

var Coin = Sprite{
	Name: string(netconfig.CollectibleCoin),
	W:    8,
	H:    8,
	Frames: [][]string{
		{
			"..YYYY..",
			".YYYYYY.",
			"YYYOOYYY",
			"YYYOOYYY",
			"YYYOOYYY",
			"YYYOOYYY",
			".YYYYYY.",
			"..YYYY..",
		},
		{
			"...YY...",
			"..YYYY..",
			"..YOOY..",
			"..YOOY..",
			"..YOOY..",
			"..YOOY..",
			"..YYYY..",
			"...YY...",
		},
	},
}

var Gem = Sprite{
	Name: string(netconfig.CollectibleGem),
	W:    8,
	H:    8,
	Frames: [][]string{
		{
			"...CC...",
			"..CCCC..",
			".CCCCCC.",
			"CCCWCCCC",
			"CCCCCCCC",
			".CCCCCC.",
			"..CCCC..",
			"...CC...",
		},
		{
			"...CC...",
			"..CCCC..",
			".CCCCCC.",
			"CCCCCCCC",
			"CCCCWCCC",
			".CCCCCC.",
			"..CCCC..",
			"...CC...",
		},
	},
}

// Enemy returns the sprite for kind, falling back to the slime.
func Enemy(kind netconfig.EnemyKind) Sprite {
	switch kind {
	case netconfig.EnemyRobot:
		return Robot
	case netconfig.EnemyBat:
		return Bat
	default:
		return Slime
	}
}

// Collectible returns the sprite for kind, falling back to the coin.
func Collectible(kind netconfig.CollectibleKind) Sprite {
	if kind == netconfig.CollectibleGem {
		return Gem
	}
	return Coin
}

var palette = map[byte]color.NRGBA{
	'H': {R: 0x8a, G: 0x8f, B: 0x9c, A: 0xff}, // helmet
	'S': {R: 0xf0, G: 0xc8, B: 0xa0, A: 0xff},
	'E': {R: 0x20, G: 0x20, B: 0x30, A: 0xff},
	'A': {R: 0x3a, G: 0x6e, B: 0xc8, A: 0xff}, // armor
	'B': {R: 0x6b, G: 0x43, B: 0x20, A: 0xff},
	'L': {R: 0x40, G: 0x40, B: 0x58, A: 0xff},
	'F': {R: 0x2a, G: 0x1c, B: 0x10, A: 0xff},
	'G': {R: 0x4c, G: 0xc0, B: 0x50, A: 0xff},
	'W': {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	'K': {R: 0x10, G: 0x10, B: 0x10, A: 0xff},
	'M': {R: 0x90, G: 0x98, B: 0xa8, A: 0xff},
	'R': {R: 0xe0, G: 0x30, B: 0x30, A: 0xff},
	'P': {R: 0x6a, G: 0x3c, B: 0x8c, A: 0xff},
	'Y': {R: 0xf8, G: 0xd0, B: 0x30, A: 0xff},
	'O': {R: 0xd0, G: 0x98, B: 0x10, A: 0xff},
	'C': {R: 0x40, G: 0xd8, B: 0xe8, A: 0xff},
}

// FrameImage paints one frame into an image. Unknown characters paint
// magenta so missing palette entries stand out.
func FrameImage(rows []string) *image.NRGBA {
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, len(rows)))
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			ch := r[x]
			if ch == '.' || ch == ' ' {
				continue
			}
			c, ok := palette[ch]
			if !ok {
				c = color.NRGBA{R: 0xff, B: 0xff, A: 0xff}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
