package papercraft

// FoldType classifies the 3D dihedral angle of an edge.
type FoldType int

const (
	FoldFlat FoldType = iota
	FoldValley
	FoldMountain
)

func (f FoldType) String() string {
	switch f {
	case FoldFlat:
		return "flat"
	case FoldValley:
		return "valley"
	case FoldMountain:
		return "mountain"
	}
	return "unknown"
}

// FlapPosition tells on which triangle of an edge the glue flap is drawn.
type FlapPosition int

const (
	FlapNone FlapPosition = iota
	FlapLeft
	FlapRight
	FlapBoth
)

func (f FlapPosition) String() string {
	switch f {
	case FlapNone:
		return "none"
	case FlapLeft:
		return "left"
	case FlapRight:
		return "right"
	case FlapBoth:
		return "both"
	}
	return "unknown"
}

const noTriangle = -1

// Edge links the one or two triangles sharing a mesh edge. Slot 0 is the
// left triangle, slot 1 the right one.
type Edge struct {
	tri     [2]int
	triEdge [2]int
	snapped bool
	angle   float64
	fold    FoldType
	flap    FlapPosition
}

func newEdge(t, e int) Edge {
	return Edge{
		tri:     [2]int{t, noTriangle},
		triEdge: [2]int{e, -1},
	}
}

func (e *Edge) HasTwoTriangles() bool {
	return e.tri[0] != noTriangle && e.tri[1] != noTriangle
}

// Triangle returns the triangle in slot side (0 left, 1 right) or -1.
func (e *Edge) Triangle(side int) int {
	return e.tri[side]
}

// TriIndex returns which edge of the triangle in slot side this edge is.
func (e *Edge) TriIndex(side int) int {
	return e.triEdge[side]
}

// AnyTriangle returns a triangle the edge belongs to.
func (e *Edge) AnyTriangle() int {
	if e.tri[0] != noTriangle {
		return e.tri[0]
	}
	return e.tri[1]
}

// AnyTriIndex is the edge index on AnyTriangle.
func (e *Edge) AnyTriIndex() int {
	if e.tri[0] != noTriangle {
		return e.triEdge[0]
	}
	return e.triEdge[1]
}

// OtherTriangle returns the triangle across the edge from t, or -1.
func (e *Edge) OtherTriangle(t int) int {
	switch t {
	case e.tri[0]:
		return e.tri[1]
	case e.tri[1]:
		return e.tri[0]
	}
	return noTriangle
}

// OtherTriIndex returns the edge index on the triangle across from t, or -1.
func (e *Edge) OtherTriIndex(t int) int {
	switch {
	case t == e.tri[0] && e.tri[1] != noTriangle:
		return e.triEdge[1]
	case t == e.tri[1] && e.tri[0] != noTriangle:
		return e.triEdge[0]
	}
	return -1
}

func (e *Edge) IsSnapped() bool { return e.snapped }

// Angle is the dihedral angle between the two faces in degrees, 0 when flat.
func (e *Edge) Angle() float64 { return e.angle }

func (e *Edge) FoldType() FoldType { return e.fold }

func (e *Edge) FlapPosition() FlapPosition { return e.flap }

// IsCut reports whether the edge is drawn as a cut line.
func (e *Edge) IsCut() bool {
	return !e.snapped || !e.HasTwoTriangles()
}

func (e *Edge) setSnapped(s bool) {
	assert("only two-triangle edges can be snapped", func() bool {
		return !s || e.HasTwoTriangles()
	})
	e.snapped = s
}

func (e *Edge) attach(t, idx int) bool {
	if e.tri[1] != noTriangle {
		return false
	}
	e.tri[1] = t
	e.triEdge[1] = idx
	return true
}
