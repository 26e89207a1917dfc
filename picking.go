package papercraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func triangleRing(t *Triangle2D) orb.Ring {
	v := t.vtxRT
	return orb.Ring{
		{v[0][0], v[0][1]},
		{v[1][0], v[1][1]},
		{v[2][0], v[2][1]},
		{v[0][0], v[0][1]},
	}
}

// StuffUnderCursor returns the triangle under p in the top-most group and
// the index of its edge closest to p.
func (m *Mesh) StuffUnderCursor(p mgl64.Vec2) (tri, edge int, ok bool) {
	return m.pick(p, func(t int) orb.Ring { return triangleRing(&m.triangles[t]) })
}

func (m *Mesh) pick(p mgl64.Vec2, ring func(t int) orb.Ring) (int, int, bool) {
	pt := orb.Point{p[0], p[1]}
	for i := len(m.order) - 1; i >= 0; i-- {
		g := m.groups[m.order[i]]
		if !g.bbox.Contains(p) {
			continue
		}
		for _, t := range g.tris {
			r := ring(t)
			if !planar.RingContains(r, pt) {
				continue
			}
			best, bestDist := 0, math.Inf(1)
			for e := 0; e < 3; e++ {
				if d := planar.DistanceFromSegment(r[e], r[e+1], pt); d < bestDist {
					best, bestDist = e, d
				}
			}
			return t, best, true
		}
	}
	return noTriangle, -1, false
}

// Picker answers StuffUnderCursor from cached triangle outlines. The cache
// is dropped whenever the mesh announces a change.
type Picker struct {
	mesh  *Mesh
	rings []orb.Ring
	stale bool
	unsub func()
}

func NewPicker(m *Mesh) *Picker {
	p := &Picker{mesh: m, stale: true}
	p.unsub = m.Hub().Subscribe(func(Event) {
		p.stale = true
	})
	return p
}

// Close detaches the picker from the mesh.
func (p *Picker) Close() {
	if p.unsub != nil {
		p.unsub()
		p.unsub = nil
	}
}

func (p *Picker) rebuild() {
	m := p.mesh
	if cap(p.rings) < len(m.triangles) {
		p.rings = make([]orb.Ring, len(m.triangles))
	}
	p.rings = p.rings[:len(m.triangles)]
	for i := range m.triangles {
		p.rings[i] = triangleRing(&m.triangles[i])
	}
	p.stale = false
}

// Pick returns the triangle and edge under pos.
func (p *Picker) Pick(pos mgl64.Vec2) (tri, edge int, ok bool) {
	if p.stale {
		p.rebuild()
	}
	return p.mesh.pick(pos, func(t int) orb.Ring { return p.rings[t] })
}
