// Package collision resolves boxes against the static tile grid and tests
// fine-grained sprite contact with per-frame pixel masks.
package collision

import (
	"math"

	"github.com/imdvls/Pixelknight/shared/gamemath"
)

// Grid is the read-only solid map the solver runs against.
type Grid interface {
	SolidAt(col, row int) bool
	CellSize() float64
	Size() (w, h float64)
}

const (
	// edgeInset keeps a box that sits flush against a tile from probing it.
	edgeInset = 1e-3

	minSteps   = 5
	stepLength = 4.0
	extraSteps = 3
	minProbes  = 5
)

// Result is a corrected position plus contact flags for one move.
type Result struct {
	X, Y   float64
	VX, VY float64

	OnGround   bool
	HitWall    bool
	HitCeiling bool
	FellOut    bool // bottom edge passed the bottom of the world
}

// Steps returns how many samples the solver takes along a displacement.
// Faster movement gets proportionally more samples.
func Steps(delta float64) int {
	return max(minSteps, int(math.Ceil(math.Abs(delta)/stepLength))+extraSteps)
}

func probeCount(extent, cell float64) int {
	return max(minProbes, int(math.Ceil(extent/cell))+1)
}

// probeAt returns the i-th of n evenly spaced points across [start, start+extent],
// both edges included.
func probeAt(start, extent float64, i, n int) float64 {
	lo := start + edgeInset
	span := extent - 2*edgeInset
	return lo + span*float64(i)/float64(n-1)
}

func cellOf(v, cell float64) int {
	return int(math.Floor(v / cell))
}

// SweepX marches box horizontally by dx. On the first solid contact the box
// is snapped flush against the tile and hit is true.
func SweepX(g Grid, box gamemath.Rect, dx float64) (x float64, hit bool) {
	if dx == 0 {
		return box.X, false
	}
	cell := g.CellSize()
	steps := Steps(dx)
	n := probeCount(box.H, cell)

	for i := 1; i <= steps; i++ {
		x := box.X + dx*float64(i)/float64(steps)
		edge := x + edgeInset
		if dx > 0 {
			edge = x + box.W - edgeInset
		}
		col := cellOf(edge, cell)
		for p := 0; p < n; p++ {
			row := cellOf(probeAt(box.Y, box.H, p, n), cell)
			if !g.SolidAt(col, row) {
				continue
			}
			if dx > 0 {
				return float64(col)*cell - box.W, true
			}
			return float64(col+1) * cell, true
		}
	}

	dest := box
	dest.X += dx
	if OverlapsSolid(g, dest) {
		return box.X, true
	}
	return dest.X, false
}

// SweepY marches box vertically by dy, mirroring SweepX.
func SweepY(g Grid, box gamemath.Rect, dy float64) (y float64, hit bool) {
	if dy == 0 {
		return box.Y, false
	}
	cell := g.CellSize()
	steps := Steps(dy)
	n := probeCount(box.W, cell)

	for i := 1; i <= steps; i++ {
		y := box.Y + dy*float64(i)/float64(steps)
		edge := y + edgeInset
		if dy > 0 {
			edge = y + box.H - edgeInset
		}
		row := cellOf(edge, cell)
		for p := 0; p < n; p++ {
			col := cellOf(probeAt(box.X, box.W, p, n), cell)
			if !g.SolidAt(col, row) {
				continue
			}
			if dy > 0 {
				return float64(row)*cell - box.H, true
			}
			return float64(row+1) * cell, true
		}
	}

	dest := box
	dest.Y += dy
	if OverlapsSolid(g, dest) {
		return box.Y, true
	}
	return dest.Y, false
}

// Move resolves a full displacement, horizontal first, then vertical.
// vx and vy are the velocities that produced dx and dy; the result carries
// them with blocked components zeroed.
func Move(g Grid, box gamemath.Rect, vx, vy, dx, dy float64) Result {
	res := Result{VX: vx, VY: vy}
	worldW, worldH := g.Size()

	x, hitX := SweepX(g, box, dx)
	if clamped := gamemath.Clamp(x, 0, math.Max(0, worldW-box.W)); clamped != x {
		x = clamped
		hitX = true
	}
	if hitX {
		res.VX = 0
		res.HitWall = true
	}
	box.X = x

	y, hitY := SweepY(g, box, dy)
	if hitY {
		if dy > 0 {
			res.OnGround = true
			res.VY = 0
		} else {
			res.HitCeiling = true
			if res.VY < 0 {
				res.VY = 0
			}
		}
	}
	box.Y = y

	res.X, res.Y = box.X, box.Y
	res.FellOut = box.Bottom() > worldH
	return res
}

// OverlapsSolid reports whether any tile under the box is solid.
func OverlapsSolid(g Grid, box gamemath.Rect) bool {
	cell := g.CellSize()
	c0 := cellOf(box.X+edgeInset, cell)
	c1 := cellOf(box.Right()-edgeInset, cell)
	r0 := cellOf(box.Y+edgeInset, cell)
	r1 := cellOf(box.Bottom()-edgeInset, cell)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if g.SolidAt(col, row) {
				return true
			}
		}
	}
	return false
}
