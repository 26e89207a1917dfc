package papercraft

// JoinEdgeCmd builds the command folding edge e of triangle t flat. It
// returns nil when there is nothing to do: a border edge, an edge already
// snapped, or a same-group edge whose ends are apart.
func (m *Mesh) JoinEdgeCmd(t, e int) *Command {
	m.assertEdgeIndex(t, e)
	ed := m.edgeOf(t, e)
	if !ed.HasTwoTriangles() {
		return nil
	}
	t2 := ed.OtherTriangle(t)
	e2 := ed.OtherTriIndex(t)
	assert("neighbour edge index", e2 > -1)

	if snap, ok := m.snapAction(t, t2, e, e2); ok {
		return NewCommand(snap)
	}
	tr, tr2 := &m.triangles[t], &m.triangles[t2]
	if tr.group == tr2.group {
		return nil
	}

	g, g2 := m.groupOf(t), m.groupOf(t2)

	// Rotate g2 about its origin so the shared edges are antiparallel, then
	// move the rotated end of tr2's edge onto tr's.
	delta := NormalizeAngle(tr.rotation + tr.edgeAngle[e] + 180 - tr2.edgeAngle[e2] - tr2.rotation)
	w := tr2.vtxRT[(e2+1)%3]
	rotated := g2.position.Add(Rotation(delta).Mul2x1(w.Sub(g2.position)))
	move := tr.vtxRT[e].Sub(rotated)

	cmd := NewCommand(
		Rotate{Triangle: t2, Delta: delta},
		Move{Triangle: t2, Delta: move},
		SnapEdge{Triangle: t2, Edge: e2},
		JoinGroups{Triangle: t, Edge: e},
	)

	if g.Len() > 1 || g2.Len() > 1 {
		for _, a := range m.discoverSnaps(cmd) {
			cmd.add(a)
		}
	}
	return cmd
}

// snapAction returns the single SnapEdge closing edge e of t when both
// triangles share a group and the edge ends already coincide.
func (m *Mesh) snapAction(t, t2, e, e2 int) (SnapEdge, bool) {
	if t < 0 || t2 < 0 || e < 0 || e2 < 0 || e > 2 || e2 > 2 {
		return SnapEdge{}, false
	}
	if m.triangles[t].group != m.triangles[t2].group {
		return SnapEdge{}, false
	}
	if m.edgeOf(t, e).snapped {
		return SnapEdge{}, false
	}
	if !m.edgeCoincides(t, e) {
		return SnapEdge{}, false
	}
	return SnapEdge{Triangle: t2, Edge: e2}, true
}

// discoverSnaps runs cmd on a scratch copy of the layout and collects every
// further edge of the merged island whose ends meet as a result. The live
// mesh is not touched.
func (m *Mesh) discoverSnaps(cmd *Command) []Action {
	s := m.scratch()
	for _, a := range cmd.Actions {
		s.apply(a)
	}
	join := cmd.Actions[len(cmd.Actions)-1].(JoinGroups)
	g := s.groupOf(join.Triangle)

	var found []Action
	for _, t := range g.tris {
		for i := 0; i < 3; i++ {
			ed := s.edgeOf(t, i)
			if !ed.HasTwoTriangles() {
				continue
			}
			snap, ok := s.snapAction(t, ed.OtherTriangle(t), i, ed.OtherTriIndex(t))
			if !ok {
				continue
			}
			s.apply(snap)
			found = append(found, snap)
		}
	}
	return found
}

// BreakEdgeCmd builds the command unfolding edge e of triangle t. When the
// island falls apart the halves are pushed away from each other along the
// edge normal. It returns nil for border or unsnapped edges.
func (m *Mesh) BreakEdgeCmd(t, e int) *Command {
	m.assertEdgeIndex(t, e)
	ed := m.edgeOf(t, e)
	if !ed.HasTwoTriangles() || !ed.snapped {
		return nil
	}
	t2 := ed.OtherTriangle(t)
	e2 := ed.OtherTriIndex(t)
	assert("neighbour edge index", e2 > -1)

	cmd := NewCommand(BreakEdge{Triangle: t, Edge: e})

	reach := m.snappedComponent(t, m.triangles[t].edges[e])
	if reach[t2] {
		return cmd
	}

	n := m.triangles[t].normR[e].Mul(m.settings.BreakOffset)
	cmd.add(BreakGroup{Triangle: t2, Edge: e2})
	cmd.add(Move{Triangle: t, Delta: n.Mul(-1)})
	cmd.add(Move{Triangle: t2, Delta: n})
	return cmd
}

// snappedComponent walks snapped edges from start, never crossing skip, and
// returns the triangles reached.
func (m *Mesh) snappedComponent(start, skip int) map[int]bool {
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ei := range m.triangles[cur].edges {
			if ei == skip {
				continue
			}
			ed := &m.edges[ei]
			if !ed.snapped || !ed.HasTwoTriangles() {
				continue
			}
			n := ed.OtherTriangle(cur)
			if seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return seen
}

// joinGroups moves every member of g2 into g and drops g2.
func (m *Mesh) joinGroups(g, g2 *Group) {
	for _, t := range g2.tris {
		g.insert(m, t)
	}
	g.recalcBBoxVectors(m)
	g.centrateOrigin(m)
	m.removeGroup(g2.id)
	m.raiseGroup(g.id)
	m.updateGroupDepth()
}

// breakGroup splits the group of t2 along its edge e2. The side of the
// neighbour across e2 stays, the rest moves to a new group on top.
func (m *Mesh) breakGroup(t2, e2 int) *Group {
	ed := m.edgeOf(t2, e2)
	t := ed.OtherTriangle(t2)
	assert("break a two-triangle edge", t != noTriangle)
	g := m.groupOf(t2)
	assert("break inside one group", m.triangles[t].group == g.id)

	keep := m.snappedComponent(t, m.triangles[t2].edges[e2])
	var stay, rest []int
	for _, x := range g.tris {
		if keep[x] {
			stay = append(stay, x)
		} else {
			rest = append(rest, x)
		}
	}
	assert("break leaves triangles on both sides", len(rest) > 0 && len(stay) > 0)

	ng := m.newGroup()
	ng.rotation = g.rotation
	ng.matrix = Transformation(ng.position, ng.rotation)
	for _, x := range rest {
		ng.insert(m, x)
	}
	ng.recalcBBoxVectors(m)
	ng.centrateOrigin(m)

	g.tris = stay
	g.recalcBBoxVectors(m)
	g.centrateOrigin(m)

	m.updateGroupDepth()
	return ng
}
