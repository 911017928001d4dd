package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/imdvls/Pixelknight/shared/leveldata"
)

// LoadLevel reads a Tiled map when mapPath is set and otherwise generates
// the default world from seed.
func LoadLevel(mapPath string, seed int64) (*leveldata.Level, error) {
	if mapPath == "" {
		level := leveldata.Generate(seed)
		logLevel(level)
		return level, nil
	}

	dir, base := filepath.Split(mapPath)
	if dir == "" {
		dir = "."
	}
	level, err := leveldata.LoadTMX(os.DirFS(dir), base)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	logLevel(level)
	return level, nil
}

func logLevel(level *leveldata.Level) {
	log.Printf("[level] loaded %q: %dx%d tiles, %d enemies, %d collectibles, spawn (%.0f, %.0f)",
		level.Name, level.Grid.Cols, level.Grid.Rows,
		len(level.Enemies), len(level.Collectibles), level.Spawn.X, level.Spawn.Y)
}
