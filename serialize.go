package papercraft

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/goccy/go-json"
)

type triangleRecord struct {
	Position  []float64 `json:"position"`
	Rotation  float64   `json:"rotation"`
	Matrix    []float64 `json:"matrix"`
	RelMatrix []float64 `json:"relMatrix"`
}

type groupRecord struct {
	TriangleIndices []int     `json:"triangleIndices"`
	ToTopLeft       []float64 `json:"toTopLeft"`
	ToRightDown     []float64 `json:"toRightDown"`
	AABBHSide       float64   `json:"aabbHSide"`
	Position        []float64 `json:"position"`
	Rotation        float64   `json:"rotation"`
	Matrix          []float64 `json:"matrix"`
}

// layoutRecord is the persisted 2D state. Groups are listed in draw order.
type layoutRecord struct {
	Triangles []triangleRecord `json:"triangles"`
	Snapped   []int            `json:"snapped"`
	Groups    []groupRecord    `json:"groups"`
}

func vec2Slice(v mgl64.Vec2) []float64 { return []float64{v[0], v[1]} }

func mat3Slice(m mgl64.Mat3) []float64 {
	out := make([]float64, 9)
	copy(out, m[:])
	return out
}

func sliceVec2(s []float64, what string) (mgl64.Vec2, error) {
	if len(s) != 2 {
		return mgl64.Vec2{}, fmt.Errorf("%s has %d components, want 2: %w", what, len(s), ErrCorruptState)
	}
	return mgl64.Vec2{s[0], s[1]}, nil
}

func sliceMat3(s []float64, what string) (mgl64.Mat3, error) {
	var m mgl64.Mat3
	if len(s) != 9 {
		return m, fmt.Errorf("%s has %d components, want 9: %w", what, len(s), ErrCorruptState)
	}
	copy(m[:], s)
	return m, nil
}

func (m *Mesh) layout() layoutRecord {
	rec := layoutRecord{
		Triangles: make([]triangleRecord, len(m.triangles)),
		Snapped:   []int{},
		Groups:    make([]groupRecord, 0, len(m.order)),
	}
	for i := range m.triangles {
		tr := &m.triangles[i]
		rec.Triangles[i] = triangleRecord{
			Position:  vec2Slice(tr.position),
			Rotation:  tr.rotation,
			Matrix:    mat3Slice(tr.matrix),
			RelMatrix: mat3Slice(tr.rel),
		}
	}
	for i := range m.edges {
		if m.edges[i].snapped {
			rec.Snapped = append(rec.Snapped, i)
		}
	}
	for _, id := range m.order {
		g := m.groups[id]
		rec.Groups = append(rec.Groups, groupRecord{
			TriangleIndices: append([]int{}, g.tris...),
			ToTopLeft:       vec2Slice(g.bbox.TopLeft()),
			ToRightDown:     vec2Slice(g.bbox.RightDown()),
			AABBHSide:       g.aabbHSide,
			Position:        vec2Slice(g.position),
			Rotation:        g.rotation,
			Matrix:          mat3Slice(g.matrix),
		})
	}
	return rec
}

// WriteLayout encodes the layout of the islands as JSON.
func (m *Mesh) WriteLayout(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(m.layout()); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	Logger().Info("layout written", "groups", len(m.order), "triangles", len(m.triangles))
	return nil
}

// ReadLayout replaces the layout with one written by WriteLayout for the
// same model. Nothing changes when the record does not fit the mesh. The
// history is cleared and group handles are reassigned.
func (m *Mesh) ReadLayout(r io.Reader) error {
	var rec layoutRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return fmt.Errorf("read layout: %v: %w", err, ErrCorruptState)
	}

	s, err := m.fromLayout(rec)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}

	m.enter()
	m.hub.publish(GroupStructureChanging)
	m.triangles = s.triangles
	m.edges = s.edges
	m.groups = s.groups
	m.order = s.order
	m.nextGroup = s.nextGroup
	m.history.clear()
	m.leave()

	Logger().Info("layout loaded", "groups", len(m.order))
	m.hub.publish(LayoutChanged)
	return nil
}

// fromLayout validates rec and builds the new state on a scratch mesh.
func (m *Mesh) fromLayout(rec layoutRecord) (*Mesh, error) {
	if len(rec.Triangles) != len(m.triangles) {
		return nil, fmt.Errorf("layout has %d triangles, mesh has %d: %w", len(rec.Triangles), len(m.triangles), ErrCorruptState)
	}

	s := m.scratch()
	s.groups = make(map[GroupID]*Group, len(rec.Groups))
	s.order = nil
	s.nextGroup = 1

	for i, tr := range rec.Triangles {
		mx, err := sliceMat3(tr.Matrix, fmt.Sprintf("triangle %d matrix", i))
		if err != nil {
			return nil, err
		}
		rel, err := sliceMat3(tr.RelMatrix, fmt.Sprintf("triangle %d relMatrix", i))
		if err != nil {
			return nil, err
		}
		if _, err := sliceVec2(tr.Position, fmt.Sprintf("triangle %d position", i)); err != nil {
			return nil, err
		}
		t := &s.triangles[i]
		t.group = noGroup
		t.setMatrix(mx)
		t.rel = rel
	}

	for i := range s.edges {
		s.edges[i].snapped = false
	}
	for _, e := range rec.Snapped {
		if e < 0 || e >= len(s.edges) {
			return nil, fmt.Errorf("snapped edge %d out of range: %w", e, ErrCorruptState)
		}
		if !s.edges[e].HasTwoTriangles() {
			return nil, fmt.Errorf("snapped edge %d has one triangle: %w", e, ErrCorruptState)
		}
		s.edges[e].snapped = true
	}

	for gi, gr := range rec.Groups {
		if len(gr.TriangleIndices) == 0 {
			return nil, fmt.Errorf("group %d is empty: %w", gi, ErrCorruptState)
		}
		mx, err := sliceMat3(gr.Matrix, fmt.Sprintf("group %d matrix", gi))
		if err != nil {
			return nil, err
		}
		pos, err := sliceVec2(gr.Position, fmt.Sprintf("group %d position", gi))
		if err != nil {
			return nil, err
		}
		tl, err := sliceVec2(gr.ToTopLeft, fmt.Sprintf("group %d toTopLeft", gi))
		if err != nil {
			return nil, err
		}
		rd, err := sliceVec2(gr.ToRightDown, fmt.Sprintf("group %d toRightDown", gi))
		if err != nil {
			return nil, err
		}

		g := s.newGroup()
		g.position = pos
		g.rotation = gr.Rotation
		g.matrix = mx
		g.aabbHSide = gr.AABBHSide
		g.bbox = NewAABBox(tl, rd)
		for _, t := range gr.TriangleIndices {
			if t < 0 || t >= len(s.triangles) {
				return nil, fmt.Errorf("group %d: triangle index %d out of range: %w", gi, t, ErrCorruptState)
			}
			if s.triangles[t].group != noGroup {
				return nil, fmt.Errorf("triangle %d is in more than one group: %w", t, ErrCorruptState)
			}
			s.triangles[t].group = g.id
			g.tris = append(g.tris, t)
		}
	}

	for i := range s.triangles {
		if s.triangles[i].group == noGroup {
			return nil, fmt.Errorf("triangle %d is in no group: %w", i, ErrCorruptState)
		}
	}
	s.updateGroupDepth()
	return s, nil
}
