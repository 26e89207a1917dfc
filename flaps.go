package papercraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HasFlap reports whether a glue tab is drawn on edge e of triangle t: the
// edge is cut, has a neighbour and the flap belongs to t's side.
func (m *Mesh) HasFlap(t, e int) bool {
	ed := m.TriangleEdge(t, e)
	if !ed.HasTwoTriangles() || ed.snapped {
		return false
	}
	switch ed.flap {
	case FlapBoth:
		return true
	case FlapLeft:
		return ed.tri[0] == t
	case FlapRight:
		return ed.tri[1] == t
	}
	return false
}

// FlapOutline returns the world polygon of the tab on edge e of t, starting
// and ending on the edge. Sharp corners get a triangular tab.
func (m *Mesh) FlapOutline(t, e int) []mgl64.Vec2 {
	tr := m.Triangle(t)
	a, b := tr.vtxRT[e], tr.vtxRT[(e+1)%3]
	n := tr.normR[e].Mul(m.settings.FlapHeight)

	if tr.flapSharp[e] {
		mid := a.Add(b).Mul(0.5)
		return []mgl64.Vec2{a, mid.Add(n), b}
	}
	dir := b.Sub(a)
	l := dir.Len()
	inset := math.Min(m.settings.FlapHeight, l/3)
	dir = dir.Mul(inset / l)
	return []mgl64.Vec2{a, a.Add(n).Add(dir), b.Add(n).Sub(dir), b}
}
