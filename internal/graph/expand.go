package graph

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jask/gatecharter/internal/placement"
	"github.com/jask/gatecharter/internal/undo"
)

// CreateNode places name at anchor and connects it to predecessor, then
// runs auto-expansion. When name is already placed it only connects the
// predecessor. Unknown names return nil.
func (m *Model) CreateNode(name string, anchor r3.Vec, predecessor string) *Node {
	var pred *Node
	if predecessor != "" {
		pred = m.Node(predecessor)
	}
	return m.createNode(name, anchor, pred)
}

func (m *Model) createNode(name string, anchor r3.Vec, pred *Node) *Node {
	if n := m.Node(name); n != nil {
		m.connect(pred, n)
		return n
	}
	n := m.newNode(name, anchor)
	if n == nil {
		m.log.Debug("skip unknown node", zap.String("name", name), zap.String("from", nameOf(pred)))
		return nil
	}
	n.Previous = nameOf(pred)
	m.insert(n)
	m.stack.Record(undo.NewCreateNode(name, anchor, n.Previous))
	m.log.Debug("created node",
		zap.String("name", name),
		zap.Stringer("kind", n.Kind),
		zap.String("from", nameOf(pred)),
	)
	m.connect(pred, n)

	if m.rules.ShouldAutoGenerate(name) {
		m.tryCreateNext(n, pred)
	}
	return n
}

func (m *Model) tryCreateNext(n, pred *Node) {
	switch n.Kind {
	case KindGroup:
		m.expandGroup(n, pred)
	case KindGate:
		m.expandGate(n, pred)
	}
}

// expandGroup lays the group's members on a circle around it, the member
// that led here first.
func (m *Model) expandGroup(n, pred *Node) {
	var members []string
	if pred != nil && n.Group.Has(pred.Name) {
		members = append(members, pred.Name)
	}
	for _, name := range n.Group.MemberNames() {
		if pred != nil && name == pred.Name {
			continue
		}
		if m.rules.ShowInGroup(name) {
			members = append(members, name)
		}
	}

	start := placement.Forward
	if pred != nil {
		start = placement.Direction(pred.Position, n.Position)
	}
	for i, name := range members {
		scale := 1.0
		if m.catalog.IsGroup(name) {
			scale = m.layout.GroupScale
		}
		pos := m.layout.Circle(n.Position, i, len(members), start, scale)
		m.createNode(name, pos, n)
	}
}

func (m *Model) expandGate(n, pred *Node) {
	var prev *r3.Vec
	if pred != nil {
		p := pred.Position
		prev = &p
	}

	if loc := n.Gate.Location; loc != "" && loc != n.Name {
		m.createNode(loc, m.layout.Next(n.Position, prev), n)
	}

	if m.rules.IsDisabled(n.Name, m.disabled) {
		m.fanOut(n, pred)
	}

	if m.rules.IsShortcut(n.Name) {
		exit, ok := m.catalog.Exit(n.Name)
		if !ok {
			return
		}
		pos := placement.NextNodePosition(n.Position, prev, 2*m.layout.UnitDistance)
		if exit.Location != "" && m.createNode(exit.Location, pos, n) != nil {
			return
		}
		m.createNode(exit.Name, pos, n)
	}
}

// fanOut spreads the gates sharing n's location, plus its id partner, over
// a cone in front of n.
func (m *Model) fanOut(n, pred *Node) {
	var targets []string
	seen := map[string]bool{n.Name: true}
	for _, g := range m.catalog.GatesByLocation(n.Gate.Location) {
		if !seen[g.Name] {
			seen[g.Name] = true
			targets = append(targets, g.Name)
		}
	}
	if exit, ok := m.catalog.Exit(n.Name); ok && !seen[exit.Name] {
		targets = append(targets, exit.Name)
	}
	if len(targets) == 0 {
		return
	}

	dir := placement.Forward
	if pred != nil {
		dir = placement.Direction(pred.Position, n.Position)
	}
	for i, name := range targets {
		m.createNode(name, m.layout.Arc(n.Position, dir, i, len(targets)), n)
	}
}

// CompleteObjective expands a collapsed objective gate once, as its own
// undoable group. Callers must not have a group open.
func (m *Model) CompleteObjective(name string) bool {
	n := m.Node(name)
	if n == nil || n.Kind != KindGate || n.Expanded {
		return false
	}

	pred := m.objectiveSource(n)
	return m.stack.Do(func() {
		n.Expanded = true
		m.stack.Record(undo.NewExpandNode(name))
		m.fanOut(n, pred)
		m.log.Debug("completed objective", zap.String("name", name))
	})
}

// objectiveSource picks the node the objective was reached from: the one it
// was created from while still connected, else its only neighbour.
func (m *Model) objectiveSource(n *Node) *Node {
	if n.Previous != "" && n.HasConnection(ConnectionID(n.Name, n.Previous)) {
		return m.Node(n.Previous)
	}
	if neighbors := m.Neighbors(n.Name); len(neighbors) == 1 {
		return m.Node(neighbors[0])
	}
	return nil
}

func nameOf(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Name
}
