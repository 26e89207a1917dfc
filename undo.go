package papercraft

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// History is the done/undone discipline of executed commands.
type History struct {
	done   []*Command
	undone []*Command
}

func (h *History) push(c *Command) {
	h.done = append(h.done, c)
	h.undone = nil
}

func (h *History) clear() {
	h.done = nil
	h.undone = nil
}

// Len returns the number of commands that can be undone.
func (h *History) Len() int { return len(h.done) }

// Last returns the most recent executed command or nil.
func (h *History) Last() *Command {
	if len(h.done) == 0 {
		return nil
	}
	return h.done[len(h.done)-1]
}

// Find returns the command with the given ID from either stack. done
// reports whether it is currently applied.
func (h *History) Find(id uuid.UUID) (cmd *Command, done bool) {
	for _, c := range h.done {
		if c.ID == id {
			return c, true
		}
	}
	for _, c := range h.undone {
		if c.ID == id {
			return c, false
		}
	}
	return nil, false
}

// History exposes the undo stacks read-only.
func (m *Mesh) History() *History { return &m.history }

func (m *Mesh) run(cmd *Command) {
	m.enter()
	defer m.leave()
	cmd.journal = cmd.journal[:0]
	for _, a := range cmd.Actions {
		cmd.journal = append(cmd.journal, m.apply(a))
	}
}

func (m *Mesh) unrun(cmd *Command) {
	m.enter()
	defer m.leave()
	for i := len(cmd.journal) - 1; i >= 0; i-- {
		m.revert(cmd.journal[i])
	}
	cmd.journal = nil
}

// Execute runs cmd and pushes it onto the undo stack, dropping everything
// that could have been redone. A nil or empty command is ignored.
func (m *Mesh) Execute(cmd *Command) bool {
	if cmd == nil || len(cmd.Actions) == 0 {
		return false
	}
	m.run(cmd)
	m.history.push(cmd)
	Logger().Debug("command executed", "id", cmd.ID, "actions", len(cmd.Actions))
	m.hub.publish(LayoutChanged)
	return true
}

// Undo takes back the last executed command.
func (m *Mesh) Undo() bool {
	h := &m.history
	if len(h.done) == 0 {
		return false
	}
	cmd := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	m.unrun(cmd)
	h.undone = append(h.undone, cmd)
	Logger().Debug("command undone", "id", cmd.ID)
	m.hub.publish(LayoutChanged)
	return true
}

// Redo re-runs the last undone command.
func (m *Mesh) Redo() bool {
	h := &m.history
	if len(h.undone) == 0 {
		return false
	}
	cmd := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	m.run(cmd)
	h.done = append(h.done, cmd)
	Logger().Debug("command redone", "id", cmd.ID)
	m.hub.publish(LayoutChanged)
	return true
}

// UndoTo takes back every command down to and including the one with the
// given ID. Nothing happens when that command is not applied.
func (m *Mesh) UndoTo(id uuid.UUID) bool {
	if _, done := m.history.Find(id); !done {
		return false
	}
	for m.Undo() {
		if m.history.undone[len(m.history.undone)-1].ID == id {
			break
		}
	}
	return true
}

func (m *Mesh) CanUndo() bool { return len(m.history.done) > 0 }
func (m *Mesh) CanRedo() bool { return len(m.history.undone) > 0 }

// ClearHistory forgets every command.
func (m *Mesh) ClearHistory() { m.history.clear() }

// JoinEdge folds edge e of triangle t flat. It reports whether anything
// changed.
func (m *Mesh) JoinEdge(t, e int) bool {
	cmd := m.JoinEdgeCmd(t, e)
	if cmd == nil {
		Logger().Debug("join rejected", "triangle", t, "edge", e)
		return false
	}
	return m.Execute(cmd)
}

// BreakEdge unfolds edge e of triangle t, splitting its island when no
// other snapped path holds the two sides together.
func (m *Mesh) BreakEdge(t, e int) bool {
	cmd := m.BreakEdgeCmd(t, e)
	if cmd == nil {
		Logger().Debug("break rejected", "triangle", t, "edge", e)
		return false
	}
	return m.Execute(cmd)
}

// MoveGroup translates the island of triangle t by d.
func (m *Mesh) MoveGroup(t int, d mgl64.Vec2) bool {
	return m.Execute(NewCommand(Move{Triangle: t, Delta: d}))
}

// RotateGroup turns the island of triangle t by delta degrees.
func (m *Mesh) RotateGroup(t int, delta float64) bool {
	return m.Execute(NewCommand(Rotate{Triangle: t, Delta: delta}))
}

// SetGroupPosition moves the origin of group id to p.
func (m *Mesh) SetGroupPosition(id GroupID, p mgl64.Vec2) bool {
	g, ok := m.groups[id]
	if !ok || len(g.tris) == 0 {
		return false
	}
	return m.MoveGroup(g.tris[0], p.Sub(g.position))
}

// SetGroupRotation sets the rotation of group id in degrees.
func (m *Mesh) SetGroupRotation(id GroupID, angle float64) bool {
	g, ok := m.groups[id]
	if !ok || len(g.tris) == 0 {
		return false
	}
	return m.RotateGroup(g.tris[0], NormalizeAngle(angle)-g.rotation)
}

// Scale resizes the whole document by factor. It is not undoable, the
// history is cleared.
func (m *Mesh) Scale(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return fmt.Errorf("scale factor %v: %w", factor, ErrInvalidSettings)
	}
	m.enter()
	for i := range m.vertices {
		m.vertices[i] = m.vertices[i].Mul(factor)
	}
	m.hub.publish(GroupStructureChanging)
	for _, id := range m.order {
		m.groups[id].scale(m, factor)
	}
	m.leave()

	m.history.clear()
	Logger().Info("mesh scaled", "factor", factor)
	m.hub.publish(LayoutChanged)
	return nil
}
