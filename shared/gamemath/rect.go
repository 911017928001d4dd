package gamemath

import "math"

// Rect is an axis-aligned box in world units, origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps reports whether the interiors of r and o intersect. Touching edges
// do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the overlap rectangle and whether it is non-empty.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// Inflate grows r by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Gap returns the distance between r and o along the axis with the larger
// separation, zero when they overlap or touch.
func (r Rect) Gap(o Rect) float64 {
	dx := math.Max(0, math.Max(o.X-r.Right(), r.X-o.Right()))
	dy := math.Max(0, math.Max(o.Y-r.Bottom(), r.Y-o.Bottom()))
	return math.Max(dx, dy)
}
