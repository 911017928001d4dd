package leveldata

import (
	"testing"
	"testing/fstest"

	"github.com/imdvls/Pixelknight/shared/netconfig"
)

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down" width="4" height="3" tilewidth="16" tileheight="16" infinite="0" nextlayerid="5" nextobjectid="5">
 <tileset firstgid="1" name="terrain" tilewidth="16" tileheight="16" tilecount="2" columns="2">
  <image source="terrain.png" width="32" height="16"/>
  <tile id="1">
   <properties>
    <property name="kind" value="platform"/>
   </properties>
  </tile>
 </tileset>
 <layer id="1" name="tiles" width="4" height="3">
  <data encoding="csv">
0,0,0,0,
0,2,2,0,
1,1,1,1
</data>
 </layer>
 <objectgroup id="2" name="PlayerSpawn">
  <object id="1" x="48" y="16"/>
  <object id="2" x="16" y="16"/>
 </objectgroup>
 <objectgroup id="3" name="Enemies">
  <object id="3" x="20" y="20" width="14" height="16">
   <properties>
    <property name="kind" value="robot"/>
    <property name="leftBound" type="float" value="0"/>
    <property name="rightBound" type="float" value="40"/>
   </properties>
  </object>
 </objectgroup>
 <objectgroup id="4" name="Collectibles">
  <object id="4" x="30" y="4">
   <properties>
    <property name="kind" value="gem"/>
   </properties>
  </object>
 </objectgroup>
</map>
`

func TestLoadTMX(t *testing.T) {
	fsys := fstest.MapFS{
		"maps/test.tmx": &fstest.MapFile{Data: []byte(testTMX)},
	}

	level, err := LoadTMX(fsys, "maps/test.tmx")
	if err != nil {
		t.Fatalf("LoadTMX: %v", err)
	}

	if level.Name != "test" {
		t.Fatalf("expected level name %q, got %q", "test", level.Name)
	}
	if level.Grid.Cols != 4 || level.Grid.Rows != 3 {
		t.Fatalf("unexpected grid size %dx%d", level.Grid.Cols, level.Grid.Rows)
	}
	if level.Grid.SolidAt(0, 0) {
		t.Fatalf("expected empty tile at (0,0)")
	}
	if tile := level.Grid.At(1, 1); tile.Kind != netconfig.TilePlatform || !tile.Solid {
		t.Fatalf("expected platform tile at (1,1), got %+v", tile)
	}
	if tile := level.Grid.At(0, 2); tile.Kind != netconfig.TileGround {
		t.Fatalf("tiles without a kind property should be ground, got %+v", tile)
	}

	if level.Spawn.X != 16 {
		t.Fatalf("expected leftmost spawn x=16, got %v", level.Spawn.X)
	}

	if len(level.Enemies) != 1 {
		t.Fatalf("expected 1 enemy, got %d", len(level.Enemies))
	}
	e := level.Enemies[0]
	if e.Kind != netconfig.EnemyRobot || e.LeftBound != 0 || e.RightBound != 40 || e.X != 20 {
		t.Fatalf("unexpected enemy %+v", e)
	}

	if len(level.Collectibles) != 1 || level.Collectibles[0].Kind != netconfig.CollectibleGem {
		t.Fatalf("unexpected collectibles %+v", level.Collectibles)
	}
}

func TestLoadTMXMissingFile(t *testing.T) {
	if _, err := LoadTMX(fstest.MapFS{}, "missing.tmx"); err == nil {
		t.Fatalf("expected error for missing map")
	}
}
