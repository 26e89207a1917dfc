package papercraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GroupID is a stable handle of a group inside its Mesh. Zero means none.
type GroupID uint64

const noGroup GroupID = 0

// Group is an island: triangles glued flat along snapped edges and moved
// together by one rigid transform.
type Group struct {
	id        GroupID
	tris      []int
	position  mgl64.Vec2
	rotation  float64
	matrix    mgl64.Mat3
	bbox      AABBox2D
	aabbHSide float64
	depth     float64
}

func newGroup(id GroupID) *Group {
	return &Group{
		id:     id,
		matrix: mgl64.Ident3(),
		bbox:   EmptyAABBox(),
	}
}

func (g *Group) clone() *Group {
	c := *g
	c.tris = append([]int(nil), g.tris...)
	return &c
}

func (g *Group) ID() GroupID { return g.id }

// Triangles returns the member triangle indices.
func (g *Group) Triangles() []int {
	return append([]int(nil), g.tris...)
}

func (g *Group) Len() int              { return len(g.tris) }
func (g *Group) Position() mgl64.Vec2  { return g.position }
func (g *Group) Rotation() float64     { return g.rotation }
func (g *Group) Matrix() mgl64.Mat3    { return g.matrix }
func (g *Group) AABBox() AABBox2D      { return g.bbox }
func (g *Group) AABBHalfSide() float64 { return g.aabbHSide }
func (g *Group) Depth() float64        { return g.depth }

func (g *Group) contains(t int) bool {
	for _, x := range g.tris {
		if x == t {
			return true
		}
	}
	return false
}

func (g *Group) insert(m *Mesh, t int) {
	tr := &m.triangles[t]
	g.tris = append(g.tris, t)
	tr.group = g.id
	tr.setRelMx(g.matrix.Inv())
	for _, v := range tr.vtxRT {
		g.bbox = g.bbox.Extend(v)
	}
}

// addTriangle puts triangle t into the group. With a referral (>= 0) the
// triangle is first rotated and moved so that its edge shared with the
// referral lies exactly against it; the placement is refused if it would
// overlap any other member.
func (g *Group) addTriangle(m *Mesh, t, referral int) bool {
	tr := &m.triangles[t]
	if referral < 0 {
		g.insert(m, t)
		return true
	}
	rf := &m.triangles[referral]
	if tr.group == rf.group {
		return false
	}

	e1, e2 := -1, -1
	for i := 0; i < 3; i++ {
		ed := &m.edges[tr.edges[i]]
		if ed.OtherTriangle(t) == referral {
			e1 = i
			e2 = ed.OtherTriIndex(t)
		}
	}
	assert("addTriangle referral shares an edge", e1 > -1 && e2 > -1)

	backup := *tr
	tr.setRotation(rf.rotation + 180 + rf.edgeAngle[e2] - tr.edgeAngle[e1])
	tr.setPosition(rf.position.Add(rf.vtxR[(e2+1)%3]).Sub(tr.vtxR[e1]))

	for _, other := range g.tris {
		if other == referral {
			continue
		}
		if m.triangles[other].intersects(tr, m.settings.OverlapTolerance) {
			*tr = backup
			return false
		}
	}

	m.edges[tr.edges[e1]].setSnapped(true)
	g.insert(m, t)

	// snap every other edge that the new placement happens to close
	for i := 0; i < 3; i++ {
		if i == e1 {
			continue
		}
		ed := &m.edges[tr.edges[i]]
		if !ed.HasTwoTriangles() {
			continue
		}
		if m.triangles[ed.OtherTriangle(t)].group != g.id {
			continue
		}
		if m.edgeCoincides(t, i) {
			ed.setSnapped(true)
		}
	}
	return true
}

func (g *Group) resetBBoxVectors() {
	g.bbox = EmptyAABBox()
}

func (g *Group) recalcBBoxVectors(m *Mesh) {
	g.resetBBoxVectors()
	for _, t := range g.tris {
		for _, v := range m.triangles[t].vtxRT {
			g.bbox = g.bbox.Extend(v)
		}
	}
}

// setRotation rotates the group about its origin. The box is rebuilt.
func (g *Group) setRotation(m *Mesh, angle float64) {
	g.rotation = NormalizeAngle(angle)
	g.matrix = Transformation(g.position, g.rotation)
	for _, t := range g.tris {
		m.triangles[t].groupHasTransformed(g.matrix)
	}
	g.recalcBBoxVectors(m)
}

// setPosition moves the group origin to p. The box is shifted.
func (g *Group) setPosition(m *Mesh, p mgl64.Vec2) {
	g.bbox = g.bbox.Translate(p.Sub(g.position))
	g.position = p
	g.matrix[6], g.matrix[7] = p[0], p[1]
	for _, t := range g.tris {
		m.triangles[t].groupHasTransformed(g.matrix)
	}
}

// centrateOrigin moves the origin to the centroid of all member vertices
// without moving any triangle.
func (g *Group) centrateOrigin(m *Mesh) {
	assert("centrateOrigin on a non-empty group", len(g.tris) > 0)

	var sum mgl64.Vec2
	for _, t := range g.tris {
		for _, v := range m.triangles[t].vtxRT {
			sum = sum.Add(v)
		}
	}
	g.position = sum.Mul(1 / float64(len(g.tris)*3))

	var hside float64
	for _, t := range g.tris {
		for _, v := range m.triangles[t].vtxRT {
			hside = math.Max(hside, v.Sub(g.position).LenSqr())
		}
	}
	g.aabbHSide = math.Sqrt(hside)

	g.matrix = Transformation(g.position, g.rotation)
	inv := g.matrix.Inv()
	for _, t := range g.tris {
		m.triangles[t].setRelMx(inv)
	}
}

func (g *Group) scale(m *Mesh, s float64) {
	for _, t := range g.tris {
		m.triangles[t].scale(s)
	}
	g.recalcBBoxVectors(m)
	g.centrateOrigin(m)
}
