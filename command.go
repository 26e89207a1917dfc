package papercraft

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ActionType tags the atomic edits a Command is made of.
type ActionType int

const (
	ActionMove ActionType = iota
	ActionRotate
	ActionSnapEdge
	ActionBreakEdge
	ActionJoinGroups
	ActionBreakGroup
)

func (t ActionType) String() string {
	switch t {
	case ActionMove:
		return "MOVE"
	case ActionRotate:
		return "ROTATE"
	case ActionSnapEdge:
		return "SNAP_EDGE"
	case ActionBreakEdge:
		return "BREAK_EDGE"
	case ActionJoinGroups:
		return "JOIN_GROUPS"
	case ActionBreakGroup:
		return "BREAK_GROUP"
	}
	return fmt.Sprintf("ActionType(%d)", int(t))
}

// Action is one atomic edit. The set of actions is closed.
type Action interface {
	Type() ActionType
	action()
}

// Move translates the group of Triangle by Delta.
type Move struct {
	Triangle int
	Delta    mgl64.Vec2
}

// Rotate turns the group of Triangle by Delta degrees about its origin.
type Rotate struct {
	Triangle int
	Delta    float64
}

// SnapEdge glues edge Edge of Triangle.
type SnapEdge struct {
	Triangle int
	Edge     int
}

// BreakEdge unglues edge Edge of Triangle.
type BreakEdge struct {
	Triangle int
	Edge     int
}

// JoinGroups moves every triangle of the group across edge Edge of
// Triangle into the group of Triangle.
type JoinGroups struct {
	Triangle int
	Edge     int
}

// BreakGroup splits the group of Triangle. Triangles still reachable over
// snapped edges from the neighbour across Edge keep the group, the rest
// form a new one.
type BreakGroup struct {
	Triangle int
	Edge     int
}

func (Move) Type() ActionType       { return ActionMove }
func (Rotate) Type() ActionType     { return ActionRotate }
func (SnapEdge) Type() ActionType   { return ActionSnapEdge }
func (BreakEdge) Type() ActionType  { return ActionBreakEdge }
func (JoinGroups) Type() ActionType { return ActionJoinGroups }
func (BreakGroup) Type() ActionType { return ActionBreakGroup }

func (Move) action()       {}
func (Rotate) action()     {}
func (SnapEdge) action()   {}
func (BreakEdge) action()  {}
func (JoinGroups) action() {}
func (BreakGroup) action() {}

// Command is an ordered batch of actions undone and redone as a unit.
type Command struct {
	ID      uuid.UUID
	Actions []Action

	journal []restorePoint
}

func NewCommand(actions ...Action) *Command {
	return &Command{ID: uuid.New(), Actions: actions}
}

func (c *Command) add(a Action) {
	c.Actions = append(c.Actions, a)
}

// groupState is a group together with the placement of its triangles.
type groupState struct {
	group *Group
	tris  []Triangle2D
}

type edgeState struct {
	index   int
	snapped bool
}

// restorePoint holds the exact pre-image of everything one action touched.
type restorePoint struct {
	structural bool
	groups     []groupState
	edges      []edgeState
	created    []GroupID
	order      []GroupID
	nextGroup  GroupID
}

func (rp *restorePoint) captureGroup(m *Mesh, g *Group) {
	gs := groupState{group: g.clone(), tris: make([]Triangle2D, len(g.tris))}
	for i, t := range g.tris {
		gs.tris[i] = m.triangles[t]
	}
	rp.groups = append(rp.groups, gs)
}

func (rp *restorePoint) captureEdge(m *Mesh, e int) {
	rp.edges = append(rp.edges, edgeState{index: e, snapped: m.edges[e].snapped})
}

func (rp *restorePoint) captureStructure(m *Mesh) {
	rp.structural = true
	rp.order = append([]GroupID(nil), m.order...)
	rp.nextGroup = m.nextGroup
}

// apply executes a forward and returns what is needed to take it back.
func (m *Mesh) apply(a Action) restorePoint {
	var rp restorePoint
	switch a := a.(type) {
	case Move:
		g := m.groupOf(a.Triangle)
		rp.captureGroup(m, g)
		g.setPosition(m, g.position.Add(a.Delta))

	case Rotate:
		g := m.groupOf(a.Triangle)
		rp.captureGroup(m, g)
		g.setRotation(m, g.rotation+a.Delta)

	case SnapEdge:
		m.assertEdgeIndex(a.Triangle, a.Edge)
		e := m.triangles[a.Triangle].edges[a.Edge]
		rp.captureEdge(m, e)
		m.edges[e].setSnapped(true)

	case BreakEdge:
		m.assertEdgeIndex(a.Triangle, a.Edge)
		e := m.triangles[a.Triangle].edges[a.Edge]
		rp.captureEdge(m, e)
		m.edges[e].setSnapped(false)

	case JoinGroups:
		m.assertEdgeIndex(a.Triangle, a.Edge)
		g := m.groupOf(a.Triangle)
		other := m.edgeOf(a.Triangle, a.Edge).OtherTriangle(a.Triangle)
		assert("join across a two-triangle edge", other != noTriangle)
		g2 := m.groupOf(other)
		assert("join two different groups", g != g2)

		rp.captureStructure(m)
		rp.captureGroup(m, g)
		rp.captureGroup(m, g2)
		m.hub.publish(GroupStructureChanging)
		m.joinGroups(g, g2)

	case BreakGroup:
		m.assertEdgeIndex(a.Triangle, a.Edge)
		g := m.groupOf(a.Triangle)
		rp.captureStructure(m)
		rp.captureGroup(m, g)
		m.hub.publish(GroupStructureChanging)
		rp.created = append(rp.created, m.breakGroup(a.Triangle, a.Edge).id)

	default:
		panic(fmt.Sprintf("papercraft: unknown action %T", a))
	}
	return rp
}

// revert puts back the pre-image stored by apply.
func (m *Mesh) revert(rp restorePoint) {
	if rp.structural {
		m.hub.publish(GroupStructureChanging)
		for _, id := range rp.created {
			delete(m.groups, id)
		}
	}
	for i := len(rp.groups) - 1; i >= 0; i-- {
		gs := rp.groups[i]
		g := gs.group.clone()
		if live, ok := m.groups[g.id]; ok {
			*live = *g
			g = live
		} else {
			m.groups[g.id] = g
		}
		for j, t := range g.tris {
			m.triangles[t] = gs.tris[j]
		}
	}
	for i := len(rp.edges) - 1; i >= 0; i-- {
		es := rp.edges[i]
		m.edges[es.index].snapped = es.snapped
	}
	if rp.structural {
		m.order = append(m.order[:0:0], rp.order...)
		m.nextGroup = rp.nextGroup
		m.updateGroupDepth()
	}
}
