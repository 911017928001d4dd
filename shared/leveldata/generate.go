package leveldata

import (
	"math/rand"

	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/shared/netconfig"
)

const (
	spawnSafeCols   = 24 // no pits or enemies this close to the spawn
	minSegmentLen   = 8
	maxSegmentExtra = 22
	surfaceDepth    = 40 // rows between the base surface and the grid bottom
)

type segment struct {
	start, end int // [start, end) columns
	row        int // surface row
}

// Generate builds the default world at full size. The result depends only on
// seed, so a client can regenerate the server's default world offline.
func Generate(seed int64) *Level {
	return GenerateWithSize(netconfig.WorldCols, netconfig.WorldRows, seed)
}

// GenerateWithSize builds a default-style world of arbitrary dimensions.
func GenerateWithSize(cols, rows int, seed int64) *Level {
	rng := rand.New(rand.NewSource(seed))
	g := NewGrid(cols, rows, netconfig.TileSize)
	ts := float64(netconfig.TileSize)

	base := rows - surfaceDepth
	if base < rows/2 {
		base = rows * 3 / 4
	}
	lowest := min(base+4, rows-2)
	highest := max(base-8, 4)

	surface := make([]int, cols)
	var segments []segment
	row := base
	for col := 0; col < cols; {
		if col > spawnSafeCols && rng.Intn(6) == 0 {
			w := 2 + rng.Intn(3)
			for i := 0; i < w && col < cols; i++ {
				surface[col] = -1
				col++
			}
			continue
		}
		if col > 0 {
			row += rng.Intn(5) - 2
			row = min(max(row, highest), lowest)
		}
		seg := segment{start: col, row: row}
		n := minSegmentLen + rng.Intn(maxSegmentExtra+1)
		for i := 0; i < n && col < cols; i++ {
			surface[col] = row
			col++
		}
		seg.end = col
		segments = append(segments, seg)
	}

	for col, top := range surface {
		if top < 0 {
			continue
		}
		g.Set(col, top, netconfig.TileGrass)
		for r := top + 1; r < rows; r++ {
			g.Set(col, r, netconfig.TileGround)
		}
	}

	level := &Level{Name: "default", Grid: g}

	// Floating platforms with a pickup above each.
	for col := spawnSafeCols; col < cols-10; {
		col += 12 + rng.Intn(18)
		length := 3 + rng.Intn(6)
		if col+length >= cols {
			break
		}
		top := base
		for c := col; c < col+length; c++ {
			if surface[c] >= 0 && surface[c] < top {
				top = surface[c]
			}
		}
		platRow := top - (4 + rng.Intn(3))
		if platRow < 2 {
			continue
		}
		for c := col; c < col+length; c++ {
			g.Set(c, platRow, netconfig.TilePlatform)
		}
		kind := netconfig.CollectibleCoin
		if rng.Intn(4) == 0 {
			kind = netconfig.CollectibleGem
		}
		level.Collectibles = append(level.Collectibles, placeCollectible(kind, float64(col+length/2)*ts, float64(platRow)*ts))
	}

	// Enemies patrol flat ground segments; coins line the longer ones.
	kindIdx := 0
	for _, seg := range segments {
		if seg.start < spawnSafeCols || seg.end-seg.start < minSegmentLen {
			continue
		}
		if rng.Intn(3) != 0 {
			kind := netconfig.EnemyKinds[kindIdx%len(netconfig.EnemyKinds)]
			kindIdx++
			level.Enemies = append(level.Enemies, placeEnemy(kind, seg, ts))
		}
		for c := seg.start + 2; c < seg.end-1; c += 6 {
			if rng.Intn(2) == 0 {
				level.Collectibles = append(level.Collectibles,
					placeCollectible(netconfig.CollectibleCoin, float64(c)*ts+ts/2, float64(seg.row-1)*ts))
			}
		}
	}

	spawnCol := min(3, cols-1)
	spawnRow := surface[spawnCol]
	if spawnRow < 0 {
		spawnRow = base
	}
	level.Spawn = SpawnPoint{
		X: float64(spawnCol) * ts,
		Y: float64(spawnRow)*ts - netconfig.PlayerHeight,
	}

	return level
}

// placeEnemy centers an enemy on a segment with bounds kept on the segment.
func placeEnemy(kind netconfig.EnemyKind, seg segment, ts float64) EnemySpawn {
	cfg := config.EnemyType(kind)
	w := float64(cfg.Width)
	segLeft := float64(seg.start) * ts
	segRight := float64(seg.end)*ts - w
	center := (segLeft+segRight)/2 - w/2

	left := max(segLeft, center-cfg.PatrolRange)
	right := min(segRight, center+cfg.PatrolRange)
	if right < left {
		right = left
	}

	y := float64(seg.row)*ts - float64(cfg.Height)
	if cfg.Flying {
		y -= cfg.HoverHeight
	}

	return EnemySpawn{
		Kind:       kind,
		X:          min(max(center, left), right),
		Y:          y,
		LeftBound:  left,
		RightBound: right,
	}
}

// placeCollectible puts a pickup centered on x with its bottom edge at bottom.
func placeCollectible(kind netconfig.CollectibleKind, x, bottom float64) CollectibleSpawn {
	cfg := config.CollectibleType(kind)
	return CollectibleSpawn{
		Kind: kind,
		X:    x - float64(cfg.Width)/2,
		Y:    bottom - float64(cfg.Height) - 4,
	}
}
