package papercraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// sharpFlapAngle is the base angle (degrees) under which a trapezoid flap
// would cross the triangle, so a triangular flap is drawn instead.
const sharpFlapAngle = 45.0

// Triangle2D is the flattened placement of one mesh triangle. Edge i runs
// from vertex i to vertex (i+1)%3, vertices are counter-clockwise.
type Triangle2D struct {
	id    int
	group GroupID
	edges [3]int

	vtx       [3]mgl64.Vec2 // flattened, centred on the centroid
	vtxR      [3]mgl64.Vec2 // vtx rotated by the placement
	vtxRT     [3]mgl64.Vec2 // world
	normR     [3]mgl64.Vec2 // outward unit edge normals, rotated
	edgeAngle [3]float64    // CCW angle from +Y to each edge in the local frame
	baseAngle [3][2]float64 // interior angles at both ends of each edge
	flapSharp [3]bool

	position mgl64.Vec2
	rotation float64
	matrix   mgl64.Mat3
	rel      mgl64.Mat3
}

func newTriangle2D(id int, a, b, c mgl64.Vec3, edges [3]int) Triangle2D {
	ab, ac := b.Sub(a), c.Sub(a)
	angA := mgl64.DegToRad(AngleBetween3(ab, ac))
	p := [3]mgl64.Vec2{
		{0, 0},
		{ab.Len(), 0},
		{ac.Len() * math.Cos(angA), ac.Len() * math.Sin(angA)},
	}
	centre := p[0].Add(p[1]).Add(p[2]).Mul(1.0 / 3.0)

	t := Triangle2D{
		id:     id,
		group:  noGroup,
		edges:  edges,
		matrix: mgl64.Ident3(),
		rel:    mgl64.Ident3(),
	}
	for i := range p {
		t.vtx[i] = p[i].Sub(centre)
	}
	t.initAngles()
	t.refresh()
	return t
}

func (t *Triangle2D) initAngles() {
	for i := 0; i < 3; i++ {
		d := t.vtx[(i+1)%3].Sub(t.vtx[i])
		t.edgeAngle[i] = AngleFromTo(axisOY, d)

		prev := t.vtx[(i+2)%3].Sub(t.vtx[i])
		next := t.vtx[(i+2)%3].Sub(t.vtx[(i+1)%3])
		t.baseAngle[i][0] = AngleBetween2(d, prev)
		t.baseAngle[i][1] = AngleBetween2(d.Mul(-1), next)
		t.flapSharp[i] = math.Min(t.baseAngle[i][0], t.baseAngle[i][1]) < sharpFlapAngle
	}
}

// refresh recomputes every cached vertex from the placement matrix.
func (t *Triangle2D) refresh() {
	t.position = mgl64.Vec2{t.matrix[6], t.matrix[7]}
	t.rotation = matrixRotation(t.matrix)
	for i := 0; i < 3; i++ {
		t.vtxR[i] = transformVector(t.matrix, t.vtx[i])
		t.vtxRT[i] = t.position.Add(t.vtxR[i])

		d := t.vtx[(i+1)%3].Sub(t.vtx[i])
		n := mgl64.Vec2{d[1], -d[0]}.Normalize()
		t.normR[i] = transformVector(t.matrix, n)
	}
}

func (t *Triangle2D) setMatrix(m mgl64.Mat3) {
	t.matrix = m
	t.refresh()
}

func (t *Triangle2D) setRotation(angle float64) {
	t.setMatrix(Transformation(t.position, NormalizeAngle(angle)))
}

func (t *Triangle2D) setPosition(p mgl64.Vec2) {
	m := t.matrix
	m[6], m[7] = p[0], p[1]
	t.setMatrix(m)
}

// setRelMx stores the placement relative to a parent whose inverse is given.
func (t *Triangle2D) setRelMx(parentInv mgl64.Mat3) {
	t.rel = parentInv.Mul3(t.matrix)
}

// groupHasTransformed re-derives the placement from the parent matrix.
func (t *Triangle2D) groupHasTransformed(parent mgl64.Mat3) {
	t.setMatrix(parent.Mul3(t.rel))
}

func (t *Triangle2D) scale(s float64) {
	for i := range t.vtx {
		t.vtx[i] = t.vtx[i].Mul(s)
	}
	m := t.matrix
	m[6], m[7] = m[6]*s, m[7]*s
	t.setMatrix(m)
}

func (t *Triangle2D) intersects(o *Triangle2D, tol float64) bool {
	return TrianglesOverlap(t.vtxRT, o.vtxRT, tol)
}

// edgeSlot returns which of t's edges is mesh edge e, or -1.
func (t *Triangle2D) edgeSlot(e int) int {
	for i, idx := range t.edges {
		if idx == e {
			return i
		}
	}
	return -1
}

func (t *Triangle2D) ID() int        { return t.id }
func (t *Triangle2D) Group() GroupID { return t.group }

// Edge returns the mesh edge index of edge i.
func (t *Triangle2D) Edge(i int) int { return t.edges[i] }

// Vertex returns world vertex i.
func (t *Triangle2D) Vertex(i int) mgl64.Vec2 { return t.vtxRT[i] }

// Vertices returns the three world vertices.
func (t *Triangle2D) Vertices() [3]mgl64.Vec2 { return t.vtxRT }

// LocalVertex returns flattened vertex i before any placement.
func (t *Triangle2D) LocalVertex(i int) mgl64.Vec2 { return t.vtx[i] }

// Normal returns the outward unit normal of edge i in world space.
func (t *Triangle2D) Normal(i int) mgl64.Vec2 { return t.normR[i] }

func (t *Triangle2D) Position() mgl64.Vec2 { return t.position }
func (t *Triangle2D) Rotation() float64    { return t.rotation }
func (t *Triangle2D) Matrix() mgl64.Mat3   { return t.matrix }

// RelativeMatrix is the placement relative to the owning group.
func (t *Triangle2D) RelativeMatrix() mgl64.Mat3 { return t.rel }

// IsFlapSharp reports whether the flap on edge i is drawn as a triangle.
func (t *Triangle2D) IsFlapSharp(i int) bool { return t.flapSharp[i] }

// Centroid returns the mean of the world vertices.
func (t *Triangle2D) Centroid() mgl64.Vec2 {
	return t.vtxRT[0].Add(t.vtxRT[1]).Add(t.vtxRT[2]).Mul(1.0 / 3.0)
}
