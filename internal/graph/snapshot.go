package graph

import "gonum.org/v1/gonum/spatial/r3"

// NodeState is the comparable state of one placed node.
type NodeState struct {
	Name        string
	Kind        Kind
	Position    r3.Vec
	Expanded    bool
	Connections []string
}

// Snapshot is the full comparable session state.
type Snapshot struct {
	Nodes         []NodeState
	Connections   []string
	DisabledTypes []string
}

// Snapshot captures the current state, ordered by name and id.
func (m *Model) Snapshot() Snapshot {
	s := Snapshot{DisabledTypes: m.disabled.Strings()}
	for _, n := range m.Nodes() {
		s.Nodes = append(s.Nodes, NodeState{
			Name:        n.Name,
			Kind:        n.Kind,
			Position:    n.Position,
			Expanded:    n.Expanded,
			Connections: n.Connections(),
		})
	}
	for _, c := range m.Connections() {
		s.Connections = append(s.Connections, c.ID)
	}
	return s
}
