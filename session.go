package papercraft

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mode is the active 2D interaction mode.
type Mode int

const (
	ModeSelect Mode = iota
	ModeSnap
	ModeFlaps
	ModeRotate
)

func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModeSnap:
		return "snap"
	case ModeFlaps:
		return "flaps"
	case ModeRotate:
		return "rotate"
	}
	return "unknown"
}

// HighlightKind tells the renderer how to paint the edge under the cursor.
type HighlightKind int

const (
	HighlightNone HighlightKind = iota
	// HighlightJoin marks an unsnapped edge a click would fold flat.
	HighlightJoin
	// HighlightBreak marks a snapped edge a click would unfold.
	HighlightBreak
	// HighlightFlap marks an unsnapped edge carrying a flap.
	HighlightFlap
	// HighlightRotate marks the edge the rotation is anchored on.
	HighlightRotate
)

// Highlight is the edge under the cursor together with its counterpart.
type Highlight struct {
	Kind          HighlightKind
	Triangle      int
	Edge          int
	OtherTriangle int
	OtherEdge     int
}

// EditSession turns pointer input into edits of one mesh.
type EditSession struct {
	mesh   *Mesh
	picker *Picker
	mode   Mode

	selection map[GroupID]bool

	pressed   bool
	pressAt   mgl64.Vec2
	cursor    mgl64.Vec2
	grabTri   int
	grabEdge  int
	banding   bool
	highlight Highlight
}

func NewEditSession(m *Mesh) *EditSession {
	return &EditSession{
		mesh:      m,
		picker:    NewPicker(m),
		selection: make(map[GroupID]bool),
		grabTri:   noTriangle,
	}
}

// Close releases the picker subscription.
func (s *EditSession) Close() { s.picker.Close() }

func (s *EditSession) Mode() Mode { return s.mode }

// SetMode switches modes and drops any gesture in progress.
func (s *EditSession) SetMode(m Mode) {
	s.mode = m
	s.pressed = false
	s.banding = false
	s.grabTri = noTriangle
}

// Selection returns the selected groups in draw order.
func (s *EditSession) Selection() []GroupID {
	var out []GroupID
	for _, id := range s.mesh.order {
		if s.selection[id] {
			out = append(out, id)
		}
	}
	return out
}

// Band returns the rubber band rectangle while one is dragged.
func (s *EditSession) Band() (AABBox2D, bool) {
	if !s.banding {
		return AABBox2D{}, false
	}
	return EmptyAABBox().Extend(s.pressAt).Extend(s.cursor), true
}

// Preview returns how the grabbed groups would move or turn if the
// gesture ended at the current cursor.
func (s *EditSession) Preview() (move mgl64.Vec2, rotate float64) {
	if !s.pressed || s.grabTri == noTriangle {
		return mgl64.Vec2{}, 0
	}
	switch s.mode {
	case ModeSelect:
		return s.cursor.Sub(s.pressAt), 0
	case ModeRotate:
		return mgl64.Vec2{}, s.rotationDelta()
	}
	return mgl64.Vec2{}, 0
}

func (s *EditSession) rotationDelta() float64 {
	o := s.mesh.groupOf(s.grabTri).position
	a, b := s.pressAt.Sub(o), s.cursor.Sub(o)
	if a.Len() == 0 || b.Len() == 0 {
		return 0
	}
	return AngleFromTo(a, b)
}

// Highlight returns what the renderer should mark under the cursor.
func (s *EditSession) Highlight() Highlight { return s.highlight }

// Hover updates the highlight for the cursor at p.
func (s *EditSession) Hover(p mgl64.Vec2) {
	s.cursor = p
	s.highlight = Highlight{Kind: HighlightNone, Triangle: noTriangle, OtherTriangle: noTriangle}

	t, e, ok := s.picker.Pick(p)
	if s.mode == ModeRotate && s.pressed && s.grabTri != noTriangle {
		t, e, ok = s.grabTri, s.grabEdge, true
	}
	if !ok || s.mode == ModeSelect {
		return
	}
	ed := s.mesh.edgeOf(t, e)
	if !ed.HasTwoTriangles() && s.mode != ModeRotate {
		return
	}

	h := Highlight{Triangle: t, Edge: e, OtherTriangle: ed.OtherTriangle(t), OtherEdge: ed.OtherTriIndex(t)}
	switch s.mode {
	case ModeSnap:
		if ed.snapped {
			h.Kind = HighlightBreak
		} else {
			h.Kind = HighlightJoin
		}
	case ModeFlaps:
		if ed.snapped {
			return
		}
		h.Kind = HighlightFlap
	case ModeRotate:
		h.Kind = HighlightRotate
		h.OtherTriangle, h.OtherEdge = noTriangle, -1
	}
	s.highlight = h
}

// Press starts a gesture at p.
func (s *EditSession) Press(p mgl64.Vec2, extend bool) {
	s.pressed = true
	s.pressAt = p
	s.cursor = p
	s.grabTri = noTriangle

	t, e, ok := s.picker.Pick(p)
	switch s.mode {
	case ModeSelect:
		if !ok {
			if !extend {
				s.selection = make(map[GroupID]bool)
			}
			s.banding = true
			return
		}
		id := s.mesh.triangles[t].group
		if !s.selection[id] && !extend {
			s.selection = make(map[GroupID]bool)
		}
		s.selection[id] = true
		s.grabTri = t
	case ModeRotate:
		if ok {
			s.grabTri, s.grabEdge = t, e
		}
	}
}

// Drag follows the cursor while the button is held.
func (s *EditSession) Drag(p mgl64.Vec2) {
	s.Hover(p)
}

// Release ends the gesture at p and commits it as one undoable command.
// It reports whether the mesh changed.
func (s *EditSession) Release(p mgl64.Vec2) bool {
	if !s.pressed {
		return false
	}
	s.cursor = p
	defer func() {
		s.pressed = false
		s.banding = false
		s.grabTri = noTriangle
		s.Hover(p)
	}()

	switch s.mode {
	case ModeSelect:
		if s.banding {
			band, _ := s.Band()
			for _, g := range s.mesh.Groups() {
				if g.bbox.Overlaps(band) {
					s.selection[g.id] = true
				}
			}
			return false
		}
		d := p.Sub(s.pressAt)
		if s.grabTri == noTriangle || d.Len() == 0 {
			return false
		}
		cmd := NewCommand()
		for _, id := range s.Selection() {
			g := s.mesh.groups[id]
			cmd.add(Move{Triangle: g.tris[0], Delta: d})
		}
		return s.mesh.Execute(cmd)

	case ModeRotate:
		if s.grabTri == noTriangle {
			return false
		}
		delta := s.rotationDelta()
		if delta == 0 {
			return false
		}
		return s.mesh.RotateGroup(s.grabTri, delta)
	}
	return false
}

// Click acts on the edge under p. In snap mode it folds or unfolds that
// edge; the other modes do nothing on a plain click.
func (s *EditSession) Click(p mgl64.Vec2) bool {
	if s.mode != ModeSnap {
		return false
	}
	t, e, ok := s.picker.Pick(p)
	if !ok {
		return false
	}
	if s.mesh.edgeOf(t, e).snapped {
		return s.mesh.BreakEdge(t, e)
	}
	return s.mesh.JoinEdge(t, e)
}

func (s *EditSession) Undo() bool { return s.mesh.Undo() }
func (s *EditSession) Redo() bool { return s.mesh.Redo() }
