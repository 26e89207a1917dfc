package papercraft

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// splitRing breaks A-B, which keeps the ring together, and then B-C, which
// cuts B loose.
func splitRing(t *testing.T) *Mesh {
	t.Helper()
	m := newTestMesh(t, ringModel())
	if !m.BreakEdge(triB, edgeBA) {
		t.Fatal("BreakEdge(B, A) rejected")
	}
	if !m.BreakEdge(triB, edgeBC) {
		t.Fatal("BreakEdge(B, C) rejected")
	}
	return m
}

func actionTypes(c *Command) []ActionType {
	var out []ActionType
	for _, a := range c.Actions {
		out = append(out, a.Type())
	}
	return out
}

func TestBreakEdgeCmd(t *testing.T) {
	m := newTestMesh(t, ringModel())

	cmd := m.BreakEdgeCmd(triB, edgeBA)
	if cmd == nil {
		t.Fatal("BreakEdgeCmd(B, A) = nil")
	}
	if got := actionTypes(cmd); !reflect.DeepEqual(got, []ActionType{ActionBreakEdge}) {
		t.Fatalf("actions = %v, want a single BREAK_EDGE", got)
	}
	m.Execute(cmd)
	if len(m.Groups()) != 1 {
		t.Fatalf("%d groups after breaking a cycle edge, want 1", len(m.Groups()))
	}

	cmd = m.BreakEdgeCmd(triB, edgeBC)
	want := []ActionType{ActionBreakEdge, ActionBreakGroup, ActionMove, ActionMove}
	if got := actionTypes(cmd); !reflect.DeepEqual(got, want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	n := m.Triangle(triB).Normal(edgeBC).Mul(m.Settings().BreakOffset)
	if mv := cmd.Actions[2].(Move); mv.Triangle != triB || !vecAlmostEqual(mv.Delta, n.Mul(-1)) {
		t.Errorf("first move = %+v, want B by %v", mv, n.Mul(-1))
	}
	if mv := cmd.Actions[3].(Move); mv.Triangle != triC || !vecAlmostEqual(mv.Delta, n) {
		t.Errorf("second move = %+v, want C by %v", mv, n)
	}

	before := m.Triangle(triB).Centroid()
	m.Execute(cmd)
	checkInvariants(t, m)

	if len(m.Groups()) != 2 {
		t.Fatalf("%d groups after the split, want 2", len(m.Groups()))
	}
	gb := m.GroupOf(triB)
	if gb.Len() != 1 {
		t.Errorf("B's group has %d triangles, want 1", gb.Len())
	}
	if gc := m.GroupOf(triC); gc == gb || gc.Len() != 3 {
		t.Errorf("C's group has %d triangles, want 3", gc.Len())
	}
	if m.Groups()[1] != m.GroupOf(triC) {
		t.Error("split off group is not on top")
	}
	if !vecAlmostEqual(m.Triangle(triB).Centroid(), before.Sub(n)) {
		t.Errorf("B centroid = %v, want %v", m.Triangle(triB).Centroid(), before.Sub(n))
	}
	if m.TriangleEdge(triB, edgeBC).IsSnapped() {
		t.Error("broken edge is still snapped")
	}
}

func TestBreakEdgeCmdRejects(t *testing.T) {
	m := newTestMesh(t, ringModel())
	if cmd := m.BreakEdgeCmd(triA, 0); cmd != nil {
		t.Errorf("border edge: %v", actionTypes(cmd))
	}
	m.BreakEdge(triB, edgeBA)
	if cmd := m.BreakEdgeCmd(triB, edgeBA); cmd != nil {
		t.Errorf("unsnapped edge: %v", actionTypes(cmd))
	}
	if m.BreakEdge(triA, 0) {
		t.Error("BreakEdge on a border edge reported a change")
	}
	if m.History().Len() != 1 {
		t.Errorf("history has %d commands, want 1", m.History().Len())
	}
}

func TestJoinEdgeCmd(t *testing.T) {
	m := splitRing(t)

	cmd := m.JoinEdgeCmd(triB, edgeBC)
	want := []ActionType{ActionRotate, ActionMove, ActionSnapEdge, ActionJoinGroups, ActionSnapEdge}
	if got := actionTypes(cmd); !reflect.DeepEqual(got, want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	if a := cmd.Actions[0].(Rotate); a.Triangle != triC {
		t.Errorf("rotate acts on %d, want C", a.Triangle)
	}
	if a := cmd.Actions[2].(SnapEdge); a.Triangle != triC || a.Edge != 2 {
		t.Errorf("snap = %+v, want C edge 2", a)
	}
	if a := cmd.Actions[3].(JoinGroups); a.Triangle != triB || a.Edge != edgeBC {
		t.Errorf("join = %+v", a)
	}
	// the extra snap closes A-B
	extra := cmd.Actions[4].(SnapEdge)
	if m.Triangle(extra.Triangle).Edge(extra.Edge) != m.Triangle(triB).Edge(edgeBA) {
		t.Errorf("discovered snap = %+v, want the A-B edge", extra)
	}

	m.Execute(cmd)
	checkInvariants(t, m)
	if len(m.Groups()) != 1 {
		t.Fatalf("%d groups after join, want 1", len(m.Groups()))
	}
	for i := 0; i < m.EdgeCount(); i++ {
		ed := m.Edge(i)
		if ed.HasTwoTriangles() && !ed.IsSnapped() {
			t.Errorf("inner edge %d left open", i)
		}
	}
}

func TestJoinEdgeCmdSameGroup(t *testing.T) {
	m := newTestMesh(t, ringModel())
	m.BreakEdge(triB, edgeBA)

	cmd := m.JoinEdgeCmd(triB, edgeBA)
	if cmd == nil {
		t.Fatal("JoinEdgeCmd(B, A) = nil")
	}
	want := []Action{SnapEdge{Triangle: triA, Edge: 1}}
	if !reflect.DeepEqual(cmd.Actions, want) {
		t.Fatalf("actions = %+v, want %+v", cmd.Actions, want)
	}
	m.Execute(cmd)
	if !m.TriangleEdge(triA, 1).IsSnapped() {
		t.Error("edge not snapped")
	}
}

func TestJoinEdgeCmdRejects(t *testing.T) {
	m := newTestMesh(t, ringModel())
	if cmd := m.JoinEdgeCmd(triA, 0); cmd != nil {
		t.Errorf("border edge: %v", actionTypes(cmd))
	}
	if cmd := m.JoinEdgeCmd(triA, 1); cmd != nil {
		t.Errorf("snapped edge: %v", actionTypes(cmd))
	}
	if m.JoinEdge(triA, 1) {
		t.Error("JoinEdge on a snapped edge reported a change")
	}
}

func TestJoinDoesNotTouchMesh(t *testing.T) {
	m := splitRing(t)
	before := captureState(m)
	if cmd := m.JoinEdgeCmd(triB, edgeBC); cmd == nil {
		t.Fatal("JoinEdgeCmd() = nil")
	}
	assertSameState(t, before, captureState(m))
}

func TestBreakThenJoinSquare(t *testing.T) {
	m := newTestMesh(t, squareModel())
	if !m.BreakEdge(0, 2) {
		t.Fatal("BreakEdge() rejected")
	}
	if len(m.Groups()) != 2 {
		t.Fatalf("%d groups after break, want 2", len(m.Groups()))
	}
	checkInvariants(t, m)

	cmd := m.JoinEdgeCmd(1, 0)
	if len(cmd.Actions) != 4 {
		t.Errorf("join of two single triangles has %d actions, want 4", len(cmd.Actions))
	}
	m.Execute(cmd)
	checkInvariants(t, m)
	if len(m.Groups()) != 1 {
		t.Fatalf("%d groups after join, want 1", len(m.Groups()))
	}
	if !m.edgeCoincides(0, 2) {
		t.Error("joined edge ends do not meet")
	}
}

func TestUndoIsExact(t *testing.T) {
	m := newTestMesh(t, ringModel())
	s0 := captureState(m)

	m.BreakEdge(triB, edgeBA)
	s1 := captureState(m)
	m.BreakEdge(triB, edgeBC)
	s2 := captureState(m)
	m.RotateGroup(triB, 33)
	m.MoveGroup(triC, mgl64.Vec2{4, -1})
	m.JoinEdge(triB, edgeBC)
	checkInvariants(t, m)

	for i := 0; i < 3; i++ {
		if !m.Undo() {
			t.Fatalf("Undo() %d failed", i)
		}
	}
	assertSameState(t, s2, captureState(m))
	m.Undo()
	assertSameState(t, s1, captureState(m))
	m.Undo()
	assertSameState(t, s0, captureState(m))
	if m.Undo() {
		t.Error("Undo() past the first command")
	}

	for m.Redo() {
	}
	checkInvariants(t, m)
	if len(m.Groups()) != 1 {
		t.Errorf("%d groups after redo, want 1", len(m.Groups()))
	}
}

func TestRedoDroppedByNewEdit(t *testing.T) {
	m := newTestMesh(t, squareModel())
	m.BreakEdge(0, 2)
	m.Undo()
	if !m.CanRedo() {
		t.Fatal("nothing to redo")
	}
	m.MoveGroup(0, mgl64.Vec2{1, 1})
	if m.CanRedo() {
		t.Error("redo survived a new edit")
	}
	if !m.CanUndo() || m.History().Last().Actions[0].Type() != ActionMove {
		t.Error("last command is not the move")
	}
	m.ClearHistory()
	if m.CanUndo() || m.History().Len() != 0 || m.History().Last() != nil {
		t.Error("history not cleared")
	}
}

func TestExecuteIgnoresEmpty(t *testing.T) {
	m := newTestMesh(t, squareModel())
	if m.Execute(nil) || m.Execute(NewCommand()) {
		t.Error("empty command executed")
	}
	if m.CanUndo() {
		t.Error("empty command recorded")
	}
}

func TestMoveAndRotateGroup(t *testing.T) {
	m := newTestMesh(t, squareModel())
	g := m.GroupOf(0)
	pos, rot := g.Position(), g.Rotation()
	v := m.Triangle(1).Vertex(0)

	m.MoveGroup(0, mgl64.Vec2{3, 4})
	if !vecAlmostEqual(g.Position(), pos.Add(mgl64.Vec2{3, 4})) {
		t.Errorf("position = %v", g.Position())
	}
	if !vecAlmostEqual(m.Triangle(1).Vertex(0), v.Add(mgl64.Vec2{3, 4})) {
		t.Error("member triangle did not follow the group")
	}

	m.RotateGroup(1, 90)
	if !angleAlmostEqual(g.Rotation(), rot+90) {
		t.Errorf("rotation = %v, want %v", g.Rotation(), rot+90)
	}
	checkInvariants(t, m)

	m.SetGroupPosition(g.ID(), mgl64.Vec2{-5, 2})
	m.SetGroupRotation(g.ID(), 10)
	if !vecAlmostEqual(g.Position(), mgl64.Vec2{-5, 2}) || !angleAlmostEqual(g.Rotation(), 10) {
		t.Errorf("placement = %v %v", g.Position(), g.Rotation())
	}
	if m.SetGroupPosition(999, mgl64.Vec2{}) || m.SetGroupRotation(999, 0) {
		t.Error("unknown group accepted")
	}
	checkInvariants(t, m)
	if m.History().Len() != 4 {
		t.Errorf("history has %d commands, want 4", m.History().Len())
	}
}

func TestHubNotifications(t *testing.T) {
	m := newTestMesh(t, ringModel())
	m.BreakEdge(triB, edgeBA)

	var first, second []Event
	m.Hub().Subscribe(func(e Event) { first = append(first, e) })
	unsub := m.Hub().Subscribe(func(e Event) { second = append(second, e) })

	m.BreakEdge(triB, edgeBC)
	want := []Event{GroupStructureChanging, LayoutChanged}
	if !reflect.DeepEqual(first, want) || !reflect.DeepEqual(second, want) {
		t.Fatalf("events = %v and %v, want %v", first, second, want)
	}

	unsub()
	first, second = nil, nil
	m.MoveGroup(triA, mgl64.Vec2{1, 0})
	if !reflect.DeepEqual(first, []Event{LayoutChanged}) {
		t.Errorf("move events = %v", first)
	}
	if second != nil {
		t.Errorf("unsubscribed listener got %v", second)
	}

	first = nil
	m.Undo()
	m.Undo()
	if !reflect.DeepEqual(first, []Event{LayoutChanged, GroupStructureChanging, LayoutChanged}) {
		t.Errorf("undo events = %v", first)
	}
}

func TestNilHub(t *testing.T) {
	var h *Hub
	h.publish(LayoutChanged)
}

func TestReentryPanics(t *testing.T) {
	m := newTestMesh(t, squareModel())
	m.Hub().Subscribe(func(e Event) {
		if e == GroupStructureChanging {
			m.MoveGroup(0, mgl64.Vec2{1, 0})
		}
	})

	defer func() {
		if recover() == nil {
			t.Error("re-entered edit did not panic")
		}
		if m.busy {
			t.Error("mesh left busy")
		}
	}()
	m.BreakEdge(0, 2)
}

func TestActionTypeString(t *testing.T) {
	testCases := []struct {
		a    Action
		want string
	}{
		{Move{}, "MOVE"},
		{Rotate{}, "ROTATE"},
		{SnapEdge{}, "SNAP_EDGE"},
		{BreakEdge{}, "BREAK_EDGE"},
		{JoinGroups{}, "JOIN_GROUPS"},
		{BreakGroup{}, "BREAK_GROUP"},
	}
	for _, tc := range testCases {
		if got := tc.a.Type().String(); got != tc.want {
			t.Errorf("%T.Type() = %s, want %s", tc.a, got, tc.want)
		}
	}
	if got := ActionType(42).String(); got != "ActionType(42)" {
		t.Errorf("unknown type = %s", got)
	}
}

func TestCommandIDs(t *testing.T) {
	a, b := NewCommand(Move{}), NewCommand(Move{})
	if a.ID == b.ID {
		t.Error("two commands share an ID")
	}
}

func TestScale(t *testing.T) {
	m := newTestMesh(t, squareModel())
	m.MoveGroup(0, mgl64.Vec2{1, 0})
	g := m.GroupOf(0)
	w := g.AABBox().Width()
	l := m.Triangle(0).Vertex(1).Sub(m.Triangle(0).Vertex(0)).Len()

	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := m.Scale(f); !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("Scale(%v) error = %v", f, err)
		}
	}
	if v := m.Vertices3D()[1]; v != (mgl64.Vec3{2, 0, 0}) {
		t.Fatalf("rejected scale changed vertex to %v", v)
	}
	if !m.CanUndo() {
		t.Fatal("rejected scale cleared history")
	}
	if err := m.Scale(2); err != nil {
		t.Fatalf("Scale(2) error = %v", err)
	}
	checkInvariants(t, m)
	if got := g.AABBox().Width(); !almostEqual(got, 2*w) {
		t.Errorf("width = %v, want %v", got, 2*w)
	}
	if got := m.Triangle(0).Vertex(1).Sub(m.Triangle(0).Vertex(0)).Len(); !almostEqual(got, 2*l) {
		t.Errorf("edge length = %v, want %v", got, 2*l)
	}
	if got := m.SizeMillimeters(); got != (mgl64.Vec3{40, 40, 0}) {
		t.Errorf("SizeMillimeters() = %v", got)
	}
	if m.CanUndo() {
		t.Error("Scale left history behind")
	}
}

func TestGroupPointerSurvivesUndo(t *testing.T) {
	m := newTestMesh(t, squareModel(), WithoutUnfold())
	g := m.GroupOf(0)
	p := g.Position()

	m.MoveGroup(0, mgl64.Vec2{3, 4})
	m.Undo()
	if m.GroupOf(0) != g {
		t.Fatal("undo replaced the group")
	}
	if !vecAlmostEqual(g.Position(), p) {
		t.Errorf("Position() = %v, want %v", g.Position(), p)
	}

	m.JoinEdge(0, 2)
	m.Undo()
	if m.GroupOf(0) != g || g.Len() != 1 {
		t.Errorf("join undo left group of %d triangles", g.Len())
	}
}

func TestHistoryFindAndUndoTo(t *testing.T) {
	m := newTestMesh(t, squareModel(), WithoutUnfold())
	before := captureState(m)

	m.MoveGroup(0, mgl64.Vec2{1, 0})
	first := m.History().Last()
	m.RotateGroup(1, 30)
	m.MoveGroup(1, mgl64.Vec2{0, 2})

	if c, done := m.History().Find(first.ID); c != first || !done {
		t.Fatalf("Find() = %v, %v", c, done)
	}
	if m.UndoTo(NewCommand().ID) {
		t.Error("UndoTo() accepted an unknown ID")
	}
	if !m.UndoTo(first.ID) {
		t.Fatal("UndoTo() refused an applied command")
	}
	if m.CanUndo() || m.History().Len() != 0 {
		t.Errorf("%d commands left after UndoTo", m.History().Len())
	}
	assertSameState(t, before, captureState(m))

	if c, done := m.History().Find(first.ID); c != first || done {
		t.Errorf("undone Find() = %v, %v", c, done)
	}
	if m.UndoTo(first.ID) {
		t.Error("UndoTo() on an undone command changed the mesh")
	}
}
