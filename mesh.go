package papercraft

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// flatFoldAngle is the dihedral angle (degrees) under which an edge counts as flat.
const flatFoldAngle = 1e-3

// Face is one triangle of the imported model.
type Face struct {
	V        [3]int
	UV       [3]int
	Material int
}

// ModelData is what a mesh importer hands over: positions, texture
// coordinates, triangles and material names.
type ModelData struct {
	Vertices  []mgl64.Vec3
	UVs       []mgl64.Vec2
	Faces     []Face
	Materials map[int]string
}

// Option configures a Mesh during creation.
type Option func(*meshOptions)

type meshOptions struct {
	settings Settings
	unfold   bool
	hub      *Hub
}

func defaultMeshOptions() meshOptions {
	return meshOptions{
		settings: DefaultSettings(),
		unfold:   true,
	}
}

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(o *meshOptions) {
		o.settings = s
	}
}

// WithoutUnfold leaves every triangle in a group of its own instead of
// running the greedy initial unfolding.
func WithoutUnfold() Option {
	return func(o *meshOptions) {
		o.unfold = false
	}
}

// WithHub makes the mesh publish its notifications on an existing hub.
func WithHub(h *Hub) Option {
	return func(o *meshOptions) {
		o.hub = h
	}
}

// Mesh is the open document: the 3D model, its flattened triangles, the
// edges between them, the islands and the edit history.
type Mesh struct {
	settings  Settings
	vertices  []mgl64.Vec3
	uvs       []mgl64.Vec2
	faces     []Face
	materials map[int]string

	triangles []Triangle2D
	edges     []Edge
	groups    map[GroupID]*Group
	order     []GroupID
	nextGroup GroupID

	history History
	hub     *Hub
	busy    bool
}

// NewMesh builds the triangle/edge graph of data and lays it out.
func NewMesh(data ModelData, opts ...Option) (*Mesh, error) {
	o := defaultMeshOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.settings.Validate(); err != nil {
		return nil, err
	}
	if o.hub == nil {
		o.hub = NewHub()
	}

	m := &Mesh{
		settings:  o.settings,
		vertices:  append([]mgl64.Vec3(nil), data.Vertices...),
		uvs:       append([]mgl64.Vec2(nil), data.UVs...),
		faces:     append([]Face(nil), data.Faces...),
		materials: make(map[int]string, len(data.Materials)),
		groups:    make(map[GroupID]*Group),
		nextGroup: 1,
		hub:       o.hub,
	}
	for k, v := range data.Materials {
		m.materials[k] = v
	}

	if err := m.buildGraph(); err != nil {
		return nil, err
	}
	m.classifyEdges()

	if o.unfold {
		m.unfold()
	} else {
		for t := range m.triangles {
			g := m.newGroup()
			g.addTriangle(m, t, -1)
			g.centrateOrigin(m)
		}
	}
	m.arrangeGroups()
	m.updateGroupDepth()

	Logger().Info("mesh loaded",
		"triangles", len(m.triangles),
		"edges", len(m.edges),
		"groups", len(m.order))
	return m, nil
}

func (m *Mesh) buildGraph() error {
	edgeIndex := make(map[[2]int]int, len(m.faces)*3/2)
	m.triangles = make([]Triangle2D, 0, len(m.faces))

	for fi, f := range m.faces {
		for _, v := range f.V {
			if v < 0 || v >= len(m.vertices) {
				return fmt.Errorf("face %d references vertex %d of %d: %w", fi, v, len(m.vertices), ErrInvalidFace)
			}
		}
		a, b, c := m.vertices[f.V[0]], m.vertices[f.V[1]], m.vertices[f.V[2]]
		if b.Sub(a).Cross(c.Sub(a)).Len() == 0 {
			return fmt.Errorf("face %d has no area: %w", fi, ErrInvalidFace)
		}

		var edges [3]int
		for i := 0; i < 3; i++ {
			va, vb := f.V[i], f.V[(i+1)%3]
			key := [2]int{va, vb}
			if va > vb {
				key = [2]int{vb, va}
			}
			idx, found := edgeIndex[key]
			if !found {
				idx = len(m.edges)
				m.edges = append(m.edges, newEdge(fi, i))
				edgeIndex[key] = idx
				edges[i] = idx
				continue
			}
			ed := &m.edges[idx]
			if !ed.attach(fi, i) {
				return fmt.Errorf("edge %d-%d shared by more than two faces: %w", va, vb, ErrNonManifold)
			}
			first := m.faces[ed.tri[0]].V[ed.triEdge[0]]
			if first != vb {
				return fmt.Errorf("faces %d and %d wind edge %d-%d the same way: %w", ed.tri[0], fi, va, vb, ErrNonManifold)
			}
			edges[i] = idx
		}
		m.triangles = append(m.triangles, newTriangle2D(fi, a, b, c, edges))
	}
	return nil
}

func (m *Mesh) faceNormal(t int) mgl64.Vec3 {
	f := m.faces[t]
	a, b, c := m.vertices[f.V[0]], m.vertices[f.V[1]], m.vertices[f.V[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// classifyEdges derives fold type, angle and flap placement once at load.
func (m *Mesh) classifyEdges() {
	for i := range m.edges {
		ed := &m.edges[i]
		if !ed.HasTwoTriangles() {
			ed.fold = FoldFlat
			ed.flap = FlapNone
			continue
		}
		left, right := ed.tri[0], ed.tri[1]
		n1, n2 := m.faceNormal(left), m.faceNormal(right)
		ed.angle = AngleBetween3(n1, n2)

		switch {
		case ed.angle < flatFoldAngle:
			ed.fold = FoldFlat
		default:
			rf := m.faces[right]
			apex := m.vertices[rf.V[(ed.triEdge[1]+2)%3]]
			onEdge := m.vertices[m.faces[left].V[ed.triEdge[0]]]
			if n1.Dot(apex.Sub(onEdge)) < 0 {
				ed.fold = FoldMountain
			} else {
				ed.fold = FoldValley
			}
		}

		lb := m.triangles[left].baseAngle[ed.triEdge[0]]
		rb := m.triangles[right].baseAngle[ed.triEdge[1]]
		if math.Min(lb[0], lb[1]) >= math.Min(rb[0], rb[1]) {
			ed.flap = FlapLeft
		} else {
			ed.flap = FlapRight
		}
	}
}

func (m *Mesh) newGroup() *Group {
	g := newGroup(m.nextGroup)
	m.nextGroup++
	m.groups[g.id] = g
	m.order = append(m.order, g.id)
	return g
}

func (m *Mesh) removeGroup(id GroupID) {
	delete(m.groups, id)
	for i, g := range m.order {
		if g == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

func (m *Mesh) raiseGroup(id GroupID) {
	for i, g := range m.order {
		if g == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			m.order = append(m.order, id)
			return
		}
	}
}

// updateGroupDepth gives the last group in draw order the smallest depth.
func (m *Mesh) updateGroupDepth() {
	n := len(m.order)
	for i, id := range m.order {
		m.groups[id].depth = float64(n-i) * m.settings.DepthStep
	}
}

func (m *Mesh) groupOf(t int) *Group {
	g, ok := m.groups[m.triangles[t].group]
	assert("triangle belongs to a live group", ok)
	return g
}

func (m *Mesh) edgeOf(t, e int) *Edge {
	return &m.edges[m.triangles[t].edges[e]]
}

func (m *Mesh) assertEdgeIndex(t, e int) {
	assert("triangle index in range", t >= 0 && t < len(m.triangles))
	assert("edge index in range", e >= 0 && e < 3)
}

// edgeCoincides reports whether edge e of t and its counterpart on the
// neighbour lie on top of each other within the snap epsilon.
func (m *Mesh) edgeCoincides(t, e int) bool {
	ed := m.edgeOf(t, e)
	o := ed.OtherTriangle(t)
	if o == noTriangle {
		return false
	}
	oe := ed.OtherTriIndex(t)
	a, b := &m.triangles[t], &m.triangles[o]
	eps := m.settings.SnapEpsilon
	return nearlyCoincident(a.vtxRT[(e+1)%3], b.vtxRT[oe], eps) &&
		nearlyCoincident(a.vtxRT[e], b.vtxRT[(oe+1)%3], eps)
}

// scratch copies the mutable layout so algorithms can try edits on it.
// The copy has no hub and no history.
func (m *Mesh) scratch() *Mesh {
	s := &Mesh{
		settings:  m.settings,
		vertices:  m.vertices,
		uvs:       m.uvs,
		faces:     m.faces,
		materials: m.materials,
		triangles: append([]Triangle2D(nil), m.triangles...),
		edges:     append([]Edge(nil), m.edges...),
		groups:    make(map[GroupID]*Group, len(m.groups)),
		order:     append([]GroupID(nil), m.order...),
		nextGroup: m.nextGroup,
	}
	for id, g := range m.groups {
		s.groups[id] = g.clone()
	}
	return s
}

func (m *Mesh) enter() {
	assert("edits are not re-entered", !m.busy)
	m.busy = true
}

func (m *Mesh) leave() {
	m.busy = false
}

// Settings returns the settings the mesh was created with.
func (m *Mesh) Settings() Settings { return m.settings }

// Hub returns the notification hub of the mesh.
func (m *Mesh) Hub() *Hub { return m.hub }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.triangles) }

// Triangle returns triangle t. The pointer must not be kept across edits.
func (m *Mesh) Triangle(t int) *Triangle2D { return &m.triangles[t] }

// EdgeCount returns the number of edges.
func (m *Mesh) EdgeCount() int { return len(m.edges) }

// Edge returns edge i. The pointer must not be kept across edits.
func (m *Mesh) Edge(i int) *Edge { return &m.edges[i] }

// TriangleEdge returns edge e of triangle t.
func (m *Mesh) TriangleEdge(t, e int) *Edge {
	m.assertEdgeIndex(t, e)
	return m.edgeOf(t, e)
}

// Groups returns the islands in draw order, bottom first. A group pointer
// stays valid across moves, rotations and undo while the group lives; one
// merged away by a join is no longer part of the mesh.
func (m *Mesh) Groups() []*Group {
	out := make([]*Group, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.groups[id])
	}
	return out
}

// Group returns a group by handle.
func (m *Mesh) Group(id GroupID) (*Group, bool) {
	g, ok := m.groups[id]
	return g, ok
}

// GroupOf returns the group triangle t belongs to. See Groups for how long
// the pointer stays valid.
func (m *Mesh) GroupOf(t int) *Group { return m.groupOf(t) }

// Vertices3D returns the model positions.
func (m *Mesh) Vertices3D() []mgl64.Vec3 { return m.vertices }

// Faces returns the model triangles.
func (m *Mesh) Faces() []Face { return m.faces }

// UVCoords returns the texture coordinates.
func (m *Mesh) UVCoords() []mgl64.Vec2 { return m.uvs }

// MaterialName returns the name of material id.
func (m *Mesh) MaterialName(id int) (string, bool) {
	n, ok := m.materials[id]
	return n, ok
}

// SizeMillimeters returns the model extents, assuming 1 unit is 1 cm.
func (m *Mesh) SizeMillimeters() mgl64.Vec3 {
	if len(m.vertices) == 0 {
		return mgl64.Vec3{}
	}
	lo, hi := m.vertices[0], m.vertices[0]
	for _, v := range m.vertices[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	return hi.Sub(lo).Mul(10)
}
