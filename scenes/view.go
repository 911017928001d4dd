package scenes

import (
	"sort"

	"github.com/imdvls/Pixelknight/components"
	"github.com/imdvls/Pixelknight/shared/gamemath"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/netcomponents"
	"github.com/imdvls/Pixelknight/shared/sim"
	"github.com/yohamta/donburi"
)

// Mode is what the scene is currently showing.
type Mode int

const (
	ModeConnecting Mode = iota
	ModeOnline
	ModeOffline
)

func (m Mode) String() string {
	switch m {
	case ModeOnline:
		return "online"
	case ModeOffline:
		return "offline"
	default:
		return "connecting"
	}
}

type PlayerView struct {
	ID          string
	Box         gamemath.Rect
	FacingRight bool
	Frame       int
	Attacking   bool
	Sword       *gamemath.Rect // set while a swing is visible
	Hit         bool           // hit flash active
}

type EnemyView struct {
	Kind        string
	Box         gamemath.Rect
	FacingRight bool
	Frame       int
	Defeated    bool
}

type CollectibleView struct {
	Kind  string
	Box   gamemath.Rect
	Frame int
}

// View is a read-only picture of one frame for an external renderer.
type View struct {
	Mode    Mode
	Grid    *leveldata.Grid
	Local   *PlayerView
	Remote  []PlayerView // sorted by id
	Enemies []EnemyView  // indexed like the server's enemy array

	// Collectibles lists only pickups that are currently visible
	Collectibles []CollectibleView

	Profile Profile
	Tick    uint64
}

// View builds the current frame's view.
func (ns *NetworkedScene) View() View {
	v := View{Mode: ns.mode(), Profile: ns.Profile, Tick: ns.tick}

	var world *sim.World
	switch {
	case ns.joined:
		world = ns.world
		if entry, ok := ns.localEntry(); ok {
			p := ns.playerView(entry)
			p.Attacking = ns.attackTimer > 0
			p.Hit = ns.hitFlash > 0
			if p.Attacking {
				sword := sim.SwordBox(netcomponents.NetBody.Get(entry))
				p.Sword = &sword
			}
			v.Local = &p
		}
		remotePlayers.Each(ns.ecs, func(entry *donburi.Entry) {
			v.Remote = append(v.Remote, ns.playerView(entry))
		})
		sort.Slice(v.Remote, func(i, j int) bool { return v.Remote[i].ID < v.Remote[j].ID })
	case ns.offline != nil:
		world = ns.offline.World
		body := ns.offline.Body
		v.Local = &PlayerView{
			ID:          "offline",
			Box:         body.Rect(),
			FacingRight: body.FacingRight,
			Frame:       body.Frame,
		}
	}

	if world == nil {
		return v
	}
	v.Grid = world.Grid
	for _, e := range world.Enemies {
		v.Enemies = append(v.Enemies, EnemyView{
			Kind:        string(e.Kind),
			Box:         e.Rect(),
			FacingRight: e.FacingRight,
			Frame:       e.Frame,
			Defeated:    e.Defeated,
		})
	}
	for _, c := range world.Collectibles {
		if c.Collected {
			continue
		}
		v.Collectibles = append(v.Collectibles, CollectibleView{Kind: string(c.Kind), Box: c.Rect(), Frame: c.Frame})
	}
	return v
}

func (ns *NetworkedScene) playerView(entry *donburi.Entry) PlayerView {
	body := netcomponents.NetBody.Get(entry)
	state := netcomponents.NetPlayerState.Get(entry)
	p := PlayerView{
		ID:          state.ID,
		Box:         body.Rect(),
		FacingRight: body.FacingRight,
		Frame:       body.Frame,
		Attacking:   state.Attacking,
	}
	if entry.HasComponent(components.RemotePlayer) {
		rp := components.RemotePlayer.Get(entry)
		if rp.LastSword != nil && rp.SwordTimer > 0 {
			box := gamemath.Rect{X: rp.LastSword.SwordX, Y: rp.LastSword.SwordY, W: rp.LastSword.SwordWidth, H: rp.LastSword.SwordHeight}
			p.Sword = &box
		}
		p.Hit = rp.HitFlash > 0
	}
	return p
}
