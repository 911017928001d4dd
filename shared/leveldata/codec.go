package leveldata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imdvls/Pixelknight/shared/netconfig"
)

// ErrEmptyMap is returned when encoded map data carries no tiles.
var ErrEmptyMap = errors.New("empty map data")

// One character per tile keeps the 1000x240 handshake map compact.
var kindChars = map[netconfig.TileKind]byte{
	netconfig.TileEmpty:    '.',
	netconfig.TileGround:   '#',
	netconfig.TileGrass:    'g',
	netconfig.TilePlatform: '=',
}

// EncodeRows renders the grid as one string per row, top to bottom.
func EncodeRows(g *Grid) []string {
	rows := make([]string, g.Rows)
	var sb strings.Builder
	for r := 0; r < g.Rows; r++ {
		sb.Reset()
		sb.Grow(g.Cols)
		for c := 0; c < g.Cols; c++ {
			sb.WriteByte(kindChars[g.At(c, r).Kind])
		}
		rows[r] = sb.String()
	}
	return rows
}

// DecodeRows parses rows produced by EncodeRows. Unknown characters decode as
// ground; ragged or empty input is rejected.
func DecodeRows(rows []string, tileSize int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMap
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("invalid tile size %d", tileSize)
	}

	cols := len(rows[0])
	g := NewGrid(cols, len(rows), tileSize)
	for r, line := range rows {
		if len(line) != cols {
			return nil, fmt.Errorf("row %d has %d tiles, want %d", r, len(line), cols)
		}
		for c := 0; c < cols; c++ {
			g.Set(c, r, kindFromChar(line[c]))
		}
	}
	return g, nil
}

func kindFromChar(ch byte) netconfig.TileKind {
	for k, c := range kindChars {
		if c == ch {
			return k
		}
	}
	return netconfig.TileGround
}
