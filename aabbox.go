package papercraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
)

// AABBox2D is an axis aligned box in layout space. Y grows upwards, so the
// top-left corner holds the smallest X and the largest Y.
type AABBox2D struct {
	bound orb.Bound
}

// EmptyAABBox returns a box that contains nothing and grows on Extend.
func EmptyAABBox() AABBox2D {
	return AABBox2D{bound: orb.Bound{
		Min: orb.Point{math.MaxFloat64, math.MaxFloat64},
		Max: orb.Point{-math.MaxFloat64, -math.MaxFloat64},
	}}
}

// NewAABBox builds a box from its top-left and right-down corners.
func NewAABBox(topLeft, rightDown mgl64.Vec2) AABBox2D {
	return AABBox2D{bound: orb.Bound{
		Min: orb.Point{topLeft[0], rightDown[1]},
		Max: orb.Point{rightDown[0], topLeft[1]},
	}}
}

func (b AABBox2D) Left() float64   { return b.bound.Left() }
func (b AABBox2D) Right() float64  { return b.bound.Right() }
func (b AABBox2D) Top() float64    { return b.bound.Top() }
func (b AABBox2D) Bottom() float64 { return b.bound.Bottom() }

func (b AABBox2D) Width() float64  { return b.Right() - b.Left() }
func (b AABBox2D) Height() float64 { return b.Top() - b.Bottom() }

// TopLeft is the corner persisted as toTopLeft.
func (b AABBox2D) TopLeft() mgl64.Vec2 {
	return mgl64.Vec2{b.Left(), b.Top()}
}

// RightDown is the corner persisted as toRightDown.
func (b AABBox2D) RightDown() mgl64.Vec2 {
	return mgl64.Vec2{b.Right(), b.Bottom()}
}

// IsEmpty reports whether nothing was ever added to the box.
func (b AABBox2D) IsEmpty() bool {
	return b.bound.Min[0] > b.bound.Max[0] || b.bound.Min[1] > b.bound.Max[1]
}

// Extend returns the box grown to include p.
func (b AABBox2D) Extend(p mgl64.Vec2) AABBox2D {
	if b.IsEmpty() {
		pt := orb.Point{p[0], p[1]}
		return AABBox2D{bound: orb.Bound{Min: pt, Max: pt}}
	}
	return AABBox2D{bound: b.bound.Extend(orb.Point{p[0], p[1]})}
}

// Translate shifts the box by d.
func (b AABBox2D) Translate(d mgl64.Vec2) AABBox2D {
	if b.IsEmpty() {
		return b
	}
	return AABBox2D{bound: orb.Bound{
		Min: orb.Point{b.bound.Min[0] + d[0], b.bound.Min[1] + d[1]},
		Max: orb.Point{b.bound.Max[0] + d[0], b.bound.Max[1] + d[1]},
	}}
}

// Contains reports whether p lies inside the box or on its border.
func (b AABBox2D) Contains(p mgl64.Vec2) bool {
	if b.IsEmpty() {
		return false
	}
	return b.bound.Contains(orb.Point{p[0], p[1]})
}

// Overlaps reports whether the two boxes share any point.
func (b AABBox2D) Overlaps(o AABBox2D) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.bound.Intersects(o.bound)
}

// Bound exposes the box as an orb.Bound.
func (b AABBox2D) Bound() orb.Bound {
	return b.bound
}
