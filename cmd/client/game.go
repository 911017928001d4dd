package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/imdvls/Pixelknight/scenes"
	"github.com/imdvls/Pixelknight/shared/gamemath"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/netconfig"
)

// Logical screen size; ebiten scales it to the window.
const (
	screenWidth  = 320
	screenHeight = 240
)

var (
	skyColor      = color.RGBA{92, 148, 252, 255}
	groundColor   = color.RGBA{120, 72, 40, 255}
	grassColor    = color.RGBA{64, 160, 64, 255}
	platformColor = color.RGBA{150, 150, 150, 255}
	localColor    = color.RGBA{40, 200, 80, 255}
	remoteColor   = color.RGBA{40, 80, 220, 255}
	hitColor      = color.RGBA{255, 255, 255, 255}
	swordColor    = color.RGBA{220, 220, 230, 255}
	coinColor     = color.RGBA{250, 210, 40, 255}
	gemColor      = color.RGBA{200, 60, 220, 255}
	defeatedColor = color.RGBA{80, 80, 80, 120}
)

var enemyColors = map[string]color.RGBA{
	string(netconfig.EnemySlime): {90, 200, 120, 255},
	string(netconfig.EnemyRobot): {170, 170, 190, 255},
	string(netconfig.EnemyBat):   {110, 50, 140, 255},
}

// Game adapts a NetworkedScene to ebiten's update and draw callbacks.
type Game struct {
	scene *scenes.NetworkedScene
}

func NewGame(scene *scenes.NetworkedScene) *Game {
	return &Game{scene: scene}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.scene.Update(readKeys(ebiten.IsKeyPressed), 1/float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)
	v := g.scene.View()
	if v.Grid == nil {
		ebitenutil.DebugPrint(screen, "connecting...")
		return
	}

	camX := cameraX(v, screenWidth)
	drawGrid(screen, v.Grid, camX)

	for _, c := range v.Collectibles {
		col := coinColor
		if c.Kind == string(netconfig.CollectibleGem) {
			col = gemColor
		}
		fillRect(screen, c.Box, camX, col)
	}
	for _, e := range v.Enemies {
		col, ok := enemyColors[e.Kind]
		if !ok {
			col = enemyColors[string(netconfig.EnemySlime)]
		}
		if e.Defeated {
			col = defeatedColor
		}
		fillRect(screen, e.Box, camX, col)
	}
	for _, p := range v.Remote {
		drawPlayer(screen, p, camX, remoteColor)
	}
	if v.Local != nil {
		drawPlayer(screen, *v.Local, camX, localColor)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  score %d  best %d  lives %d",
		v.Mode, v.Profile.Score, v.Profile.Best, v.Profile.Lives))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// cameraX centers the local player horizontally, kept inside the world.
func cameraX(v scenes.View, width float64) float64 {
	if v.Local == nil || v.Grid == nil {
		return 0
	}
	worldW, _ := v.Grid.Size()
	center := v.Local.Box.X + v.Local.Box.W/2
	return gamemath.Clamp(center-width/2, 0, math.Max(0, worldW-width))
}

func drawGrid(screen *ebiten.Image, g *leveldata.Grid, camX float64) {
	cell := g.CellSize()
	first := int(math.Floor(camX / cell))
	last := int(math.Ceil((camX + screenWidth) / cell))
	for row := 0; row < g.Rows; row++ {
		for col := first; col <= last; col++ {
			t := g.At(col, row)
			if !t.Solid {
				continue
			}
			box := gamemath.Rect{X: float64(col) * cell, Y: float64(row) * cell, W: cell, H: cell}
			fillRect(screen, box, camX, tileColor(t.Kind))
		}
	}
}

func tileColor(kind netconfig.TileKind) color.RGBA {
	switch kind {
	case netconfig.TileGrass:
		return grassColor
	case netconfig.TilePlatform:
		return platformColor
	default:
		return groundColor
	}
}

func drawPlayer(screen *ebiten.Image, p scenes.PlayerView, camX float64, col color.RGBA) {
	if p.Hit {
		col = hitColor
	}
	fillRect(screen, p.Box, camX, col)
	if p.Sword != nil {
		fillRect(screen, *p.Sword, camX, swordColor)
	}
}

func fillRect(screen *ebiten.Image, r gamemath.Rect, camX float64, col color.Color) {
	vector.FillRect(screen, float32(r.X-camX), float32(r.Y), float32(r.W), float32(r.H), col, false)
}
