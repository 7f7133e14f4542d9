package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Rect is a world-space rectangle. X and Y are the center.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectFromCorners builds a normalized rect spanning two arbitrary corners.
func RectFromCorners(ax, ay, bx, by float64) Rect {
	left, right := math.Min(ax, bx), math.Max(ax, bx)
	top, bottom := math.Min(ay, by), math.Max(ay, by)
	return Rect{
		X:      (left + right) / 2,
		Y:      (top + bottom) / 2,
		Width:  right - left,
		Height: bottom - top,
	}
}

// RectFromBB converts back from a bounding box.
func RectFromBB(bb cp.BB) Rect {
	return RectFromCorners(bb.L, bb.B, bb.R, bb.T)
}

// BB returns the rect as a chipmunk bounding box. B is the top edge in
// screen-down world space.
func (r Rect) BB() cp.BB {
	return cp.NewBBForExtents(cp.Vector{X: r.X, Y: r.Y}, r.Width/2, r.Height/2)
}

func (r Rect) Min() (float64, float64) { return r.X - r.Width/2, r.Y - r.Height/2 }
func (r Rect) Max() (float64, float64) { return r.X + r.Width/2, r.Y + r.Height/2 }

// ContainsPoint is inclusive on every edge.
func (r Rect) ContainsPoint(x, y float64) bool {
	return r.BB().ContainsVect(cp.Vector{X: x, Y: y})
}

// Overlaps reports a strict overlap; rects that only share an edge do not
// overlap.
func (r Rect) Overlaps(other Rect) bool {
	a, b := r.BB(), other.BB()
	return a.L < b.R && b.L < a.R && a.B < b.T && b.B < a.T
}

// Expand grows the rect so it also covers (x, y).
func (r Rect) Expand(x, y float64) Rect {
	return RectFromBB(r.BB().Expand(cp.Vector{X: x, Y: y}))
}
