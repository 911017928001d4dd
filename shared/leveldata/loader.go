package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/netconfig"
	"github.com/lafriks/go-tiled"
)

// Layer and object group names recognised in TMX files.
const (
	tileLayerName     = "tiles"
	spawnGroupName    = "PlayerSpawn"
	enemyGroupName    = "Enemies"
	pickupGroupName   = "Collectibles"
	kindPropertyName  = "kind"
	leftPropertyName  = "leftBound"
	rightPropertyName = "rightBound"
)

// LoadTMX parses a Tiled map into a Level. It takes an fs.FS so callers can
// pass embed.FS or os.DirFS. The map's tile size must match the shared
// netconfig.TileSize or client prediction would disagree with the server.
func LoadTMX(fsys fs.FS, tmxPath string) (*Level, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if levelMap.TileWidth != netconfig.TileSize || levelMap.TileHeight != netconfig.TileSize {
		return nil, fmt.Errorf("load TMX %s: tile size %dx%d, want %d",
			tmxPath, levelMap.TileWidth, levelMap.TileHeight, netconfig.TileSize)
	}

	g := NewGrid(levelMap.Width, levelMap.Height, netconfig.TileSize)
	found := false
	for _, layer := range levelMap.Layers {
		if layer.Name != tileLayerName {
			continue
		}
		found = true
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[y*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}

				kind := netconfig.TileGround
				if tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					if name := tilesetTile.Properties.GetString(kindPropertyName); name != "" {
						kind = netconfig.ParseTileKind(name)
					}
				}
				g.Set(x, y, kind)
			}
		}
		break
	}
	if !found {
		return nil, fmt.Errorf("load TMX %s: no %q layer", tmxPath, tileLayerName)
	}

	level := &Level{
		Name: strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Grid: g,
	}

	var spawns []SpawnPoint
	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case spawnGroupName:
			for _, o := range og.Objects {
				spawns = append(spawns, SpawnPoint{X: o.X, Y: o.Y})
			}
		case enemyGroupName:
			for _, o := range og.Objects {
				kind := netconfig.EnemyKind(o.Properties.GetString(kindPropertyName))
				cfg := config.EnemyType(kind)
				left := o.Properties.GetFloat(leftPropertyName)
				right := o.Properties.GetFloat(rightPropertyName)
				if right <= left {
					left = o.X - cfg.PatrolRange
					right = o.X + cfg.PatrolRange
				}
				level.Enemies = append(level.Enemies, EnemySpawn{
					Kind:       cfg.Kind,
					X:          min(max(o.X, left), right),
					Y:          o.Y,
					LeftBound:  left,
					RightBound: right,
				})
			}
		case pickupGroupName:
			for _, o := range og.Objects {
				kind := netconfig.CollectibleKind(o.Properties.GetString(kindPropertyName))
				level.Collectibles = append(level.Collectibles, CollectibleSpawn{
					Kind: config.CollectibleType(kind).Kind,
					X:    o.X,
					Y:    o.Y,
				})
			}
		}
	}

	// Leftmost spawn wins for consistent placement
	sort.Slice(spawns, func(i, j int) bool {
		return spawns[i].X < spawns[j].X
	})
	if len(spawns) > 0 {
		level.Spawn = spawns[0]
	} else {
		level.Spawn = SpawnPoint{X: float64(netconfig.TileSize), Y: 0}
	}

	return level, nil
}
