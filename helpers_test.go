package papercraft

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const float64EqualityThreshold = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold
}

func vecAlmostEqual(a, b mgl64.Vec2) bool {
	return almostEqual(a[0], b[0]) && almostEqual(a[1], b[1])
}

func angleAlmostEqual(a, b float64) bool {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	return d <= float64EqualityThreshold || math.Abs(d-360) <= float64EqualityThreshold
}

// squareModel is a flat 2x2 square cut along its diagonal.
func squareModel() ModelData {
	return ModelData{
		Vertices: []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}},
		Faces: []Face{
			{V: [3]int{0, 1, 2}},
			{V: [3]int{0, 2, 3}},
		},
	}
}

// saddleModel fans eight triangles around an apex at the origin with the
// rim going up and down, so the apex angles add up to far more than 360
// degrees and the fan cannot lie flat in one piece.
func saddleModel() ModelData {
	data := ModelData{Vertices: []mgl64.Vec3{{0, 0, 0}}}
	for k := 0; k < 8; k++ {
		a := float64(k) * math.Pi / 4
		z := 1.0
		if k%2 == 1 {
			z = -1
		}
		data.Vertices = append(data.Vertices, mgl64.Vec3{math.Cos(a), math.Sin(a), z})
	}
	for k := 0; k < 8; k++ {
		data.Faces = append(data.Faces, Face{V: [3]int{0, 1 + k, 1 + (k+1)%8}})
	}
	return data
}

// ringModel is a flat square fanned into four triangles A, B, C, D around
// its centre, so the inner edges form the cycle A-B-C-D-A.
func ringModel() ModelData {
	return ModelData{
		Vertices: []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}, {1, 1, 0}},
		Faces: []Face{
			{V: [3]int{0, 1, 4}}, // A
			{V: [3]int{1, 2, 4}}, // B
			{V: [3]int{2, 3, 4}}, // C
			{V: [3]int{3, 0, 4}}, // D
		},
	}
}

const (
	triA = 0
	triB = 1
	triC = 2
	triD = 3
)

// edge indices of triangle B towards A and C in ringModel
const (
	edgeBA = 2
	edgeBC = 1
)

func newTestMesh(t *testing.T, data ModelData, opts ...Option) *Mesh {
	t.Helper()
	m, err := NewMesh(data, opts...)
	if err != nil {
		t.Fatalf("NewMesh() error = %v", err)
	}
	return m
}

// meshState is a deep copy of everything an edit may change.
type meshState struct {
	triangles []Triangle2D
	edges     []Edge
	groups    map[GroupID]Group
	order     []GroupID
	nextGroup GroupID
}

func captureState(m *Mesh) meshState {
	s := meshState{
		triangles: append([]Triangle2D(nil), m.triangles...),
		edges:     append([]Edge(nil), m.edges...),
		groups:    make(map[GroupID]Group, len(m.groups)),
		order:     append([]GroupID(nil), m.order...),
		nextGroup: m.nextGroup,
	}
	for id, g := range m.groups {
		s.groups[id] = *g.clone()
	}
	return s
}

func assertSameState(t *testing.T, want, got meshState) {
	t.Helper()
	for i := range want.triangles {
		if want.triangles[i] != got.triangles[i] {
			t.Errorf("triangle %d differs:\nwant %+v\ngot  %+v", i, want.triangles[i], got.triangles[i])
		}
	}
	for i := range want.edges {
		if want.edges[i] != got.edges[i] {
			t.Errorf("edge %d differs: want %+v, got %+v", i, want.edges[i], got.edges[i])
		}
	}
	if !reflect.DeepEqual(want.groups, got.groups) {
		t.Errorf("groups differ:\nwant %+v\ngot  %+v", want.groups, got.groups)
	}
	if !reflect.DeepEqual(want.order, got.order) {
		t.Errorf("order = %v, want %v", got.order, want.order)
	}
	if want.nextGroup != got.nextGroup {
		t.Errorf("nextGroup = %d, want %d", got.nextGroup, want.nextGroup)
	}
}

// checkInvariants verifies membership, cached vertices, boxes and overlap.
func checkInvariants(t *testing.T, m *Mesh) {
	t.Helper()
	owner := make(map[int]GroupID)
	for _, g := range m.Groups() {
		for _, ti := range g.tris {
			if prev, dup := owner[ti]; dup {
				t.Fatalf("triangle %d in groups %d and %d", ti, prev, g.id)
			}
			owner[ti] = g.id
			tr := &m.triangles[ti]
			if tr.group != g.id {
				t.Errorf("triangle %d points to group %d, member of %d", ti, tr.group, g.id)
			}
			world := g.matrix.Mul3(tr.rel)
			for i := 0; i < 3; i++ {
				want := transformPoint(world, tr.vtx[i])
				if !vecAlmostEqual(want, tr.vtxRT[i]) {
					t.Errorf("triangle %d vertex %d = %v, transform gives %v", ti, i, tr.vtxRT[i], want)
				}
				if !g.bbox.Contains(tr.vtxRT[i]) && !bboxNearlyContains(g.bbox, tr.vtxRT[i]) {
					t.Errorf("group %d box %v misses vertex %v", g.id, g.bbox.Bound(), tr.vtxRT[i])
				}
			}
		}
		for i, a := range g.tris {
			for _, b := range g.tris[i+1:] {
				if m.triangles[a].intersects(&m.triangles[b], m.settings.OverlapTolerance) {
					t.Errorf("triangles %d and %d of group %d overlap", a, b, g.id)
				}
			}
		}
	}
	if len(owner) != len(m.triangles) {
		t.Errorf("%d of %d triangles are grouped", len(owner), len(m.triangles))
	}
	for i := range m.edges {
		ed := &m.edges[i]
		if ed.snapped && !ed.HasTwoTriangles() {
			t.Errorf("border edge %d is snapped", i)
		}
	}
}

func bboxNearlyContains(b AABBox2D, p mgl64.Vec2) bool {
	return p[0] >= b.Left()-float64EqualityThreshold && p[0] <= b.Right()+float64EqualityThreshold &&
		p[1] >= b.Bottom()-float64EqualityThreshold && p[1] <= b.Top()+float64EqualityThreshold
}
