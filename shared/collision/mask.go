package collision

import (
	"image"
	"math"

	"github.com/imdvls/Pixelknight/shared/gamemath"
)

// Mask is a per-frame opacity grid matching a sprite's pixel dimensions.
type Mask struct {
	W, H int
	Bits []bool
}

// NewMask returns an all-transparent mask.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Bits: make([]bool, w*h)}
}

// SolidMask returns a fully opaque mask, used for boxes without a sprite
// such as the sword swing.
func SolidMask(w, h int) *Mask {
	m := NewMask(w, h)
	for i := range m.Bits {
		m.Bits[i] = true
	}
	return m
}

// MaskFromRows builds a mask from pixel-art rows where '.' and ' ' are
// transparent and every other character is opaque.
func MaskFromRows(rows []string) *Mask {
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	m := NewMask(w, len(rows))
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			if r[x] != '.' && r[x] != ' ' {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// MaskFromImage marks every non-transparent pixel of img as solid.
func MaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				m.Set(x-b.Min.X, y-b.Min.Y, true)
			}
		}
	}
	return m
}

// At reports whether (x, y) is opaque; out-of-range pixels are not.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Bits[y*m.W+x]
}

// Set marks (x, y) opaque or transparent.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.Bits[y*m.W+x] = v
}

// Count returns the number of opaque pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Placed is a mask positioned in the world. A nil Mask is treated as fully
// opaque.
type Placed struct {
	Box        gamemath.Rect
	Mask       *Mask
	FacingLeft bool
}

// solidAt maps a world point into local sprite space, mirroring X for
// left-facing sprites.
func (p Placed) solidAt(wx, wy float64) bool {
	if p.Mask == nil {
		return true
	}
	lx := int(math.Floor((wx - p.Box.X) * float64(p.Mask.W) / p.Box.W))
	ly := int(math.Floor((wy - p.Box.Y) * float64(p.Mask.H) / p.Box.H))
	if p.FacingLeft {
		lx = p.Mask.W - 1 - lx
	}
	return p.Mask.At(lx, ly)
}

// PixelOverlap reports whether some pixel of the boxes' overlap is opaque in
// both masks. It never looks at the masks unless the boxes overlap.
func PixelOverlap(a, b Placed) bool {
	ov, ok := a.Box.Intersect(b.Box)
	if !ok {
		return false
	}

	// Sample the overlap at no more than one unit apart, at least once per axis.
	nx := max(1, int(math.Ceil(ov.W)))
	ny := max(1, int(math.Ceil(ov.H)))
	for j := 0; j < ny; j++ {
		wy := ov.Y + (float64(j)+0.5)*ov.H/float64(ny)
		for i := 0; i < nx; i++ {
			wx := ov.X + (float64(i)+0.5)*ov.W/float64(nx)
			if a.solidAt(wx, wy) && b.solidAt(wx, wy) {
				return true
			}
		}
	}
	return false
}
