package papercraft

import "github.com/go-gl/mathgl/mgl64"

// unfold grows islands breadth first: every ungrouped triangle starts a
// group and pulls in neighbours as long as they fit without overlap.
func (m *Mesh) unfold() {
	for seed := range m.triangles {
		if m.triangles[seed].group != noGroup {
			continue
		}
		g := m.newGroup()
		g.addTriangle(m, seed, -1)

		queue := []int{seed}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for i := 0; i < 3; i++ {
				ed := m.edgeOf(cur, i)
				n := ed.OtherTriangle(cur)
				if n == noTriangle || m.triangles[n].group != noGroup {
					continue
				}
				if g.addTriangle(m, n, cur) {
					queue = append(queue, n)
				}
			}
		}
		g.centrateOrigin(m)
	}
}

// arrangeGroups lines the islands up left to right on the X axis.
func (m *Mesh) arrangeGroups() {
	var cursor float64
	for _, id := range m.order {
		g := m.groups[id]
		b := g.bbox
		d := mgl64.Vec2{cursor - b.Left(), -b.Bottom()}
		g.setPosition(m, g.position.Add(d))
		cursor += b.Width() + m.settings.GroupGap
	}
}
