// Package leveldata holds the static World Grid and the spawn data placed on
// it. It is shared between client and server and has no dependencies on the
// simulation or transport packages: pure data only.
package leveldata

import "github.com/imdvls/Pixelknight/shared/netconfig"

// Tile is one immutable grid cell.
type Tile struct {
	Solid bool
	Kind  netconfig.TileKind
}

// Grid is a row-major tile map. It is never mutated after generation and is
// shared read-only by every simulation consumer.
type Grid struct {
	Cols     int
	Rows     int
	TileSize int
	Tiles    []Tile
}

// NewGrid returns an empty grid of the given dimensions.
func NewGrid(cols, rows, tileSize int) *Grid {
	return &Grid{
		Cols:     cols,
		Rows:     rows,
		TileSize: tileSize,
		Tiles:    make([]Tile, cols*rows),
	}
}

// InBounds reports whether (col, row) addresses a cell of the grid.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.Cols && row < g.Rows
}

// At returns the tile at (col, row); cells outside the grid are empty.
func (g *Grid) At(col, row int) Tile {
	if !g.InBounds(col, row) {
		return Tile{}
	}
	return g.Tiles[row*g.Cols+col]
}

// Set places a tile of the given kind. Everything but TileEmpty is solid.
// Only generators and loaders call it, before the grid is shared.
func (g *Grid) Set(col, row int, kind netconfig.TileKind) {
	if !g.InBounds(col, row) {
		return
	}
	g.Tiles[row*g.Cols+col] = Tile{Solid: kind != netconfig.TileEmpty, Kind: kind}
}

// SolidAt reports whether the cell is solid. Cells outside the grid are not.
func (g *Grid) SolidAt(col, row int) bool {
	return g.At(col, row).Solid
}

// CellSize returns the tile edge length in world units.
func (g *Grid) CellSize() float64 {
	return float64(g.TileSize)
}

// Size returns the grid extent in world units.
func (g *Grid) Size() (w, h float64) {
	return float64(g.Cols * g.TileSize), float64(g.Rows * g.TileSize)
}

// SurfaceRow returns the first solid row in col at or below fromRow, or -1.
func (g *Grid) SurfaceRow(col, fromRow int) int {
	for row := max(fromRow, 0); row < g.Rows; row++ {
		if g.SolidAt(col, row) {
			return row
		}
	}
	return -1
}

// EnemySpawn places one enemy with its patrol bounds (left X coordinates).
type EnemySpawn struct {
	Kind       netconfig.EnemyKind
	X, Y       float64
	LeftBound  float64
	RightBound float64
}

// CollectibleSpawn places one pickup.
type CollectibleSpawn struct {
	Kind netconfig.CollectibleKind
	X, Y float64
}

// SpawnPoint represents a player spawn location.
type SpawnPoint struct {
	X, Y float64
}

// Level bundles the grid with everything placed on it. Enemy and collectible
// order is significant: clients address them by index.
type Level struct {
	Name         string
	Grid         *Grid
	Spawn        SpawnPoint
	Enemies      []EnemySpawn
	Collectibles []CollectibleSpawn
}
