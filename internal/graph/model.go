// Package graph owns the live session graph: placed nodes, the connections
// between them and the session's disabled gate types. Nodes and connections
// live in name-keyed indexes; a node only stores the ids of its connections.
package graph

import (
	"slices"
	"strings"

	"github.com/tidwall/btree"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jask/gatecharter/internal/catalog"
	"github.com/jask/gatecharter/internal/placement"
	"github.com/jask/gatecharter/internal/rules"
	"github.com/jask/gatecharter/internal/undo"
)

// idSeparator joins the two endpoint names of a connection id.
const idSeparator = ","

// Kind tags what a node stands for.
type Kind uint8

const (
	KindGate Kind = iota + 1
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindGate:
		return "gate"
	case KindGroup:
		return "group"
	}
	return "unknown"
}

// Node is a placed gate or group. Exactly one of Gate and Group is set,
// according to Kind.
type Node struct {
	Name     string
	Kind     Kind
	Gate     catalog.GateRecord
	Group    *catalog.GroupRecord
	Position r3.Vec
	// Expanded is false only for objective gates still waiting for
	// CompleteObjective.
	Expanded bool
	// Previous names the node this one was created from, if any.
	Previous string

	connections map[string]struct{}
}

// Connections returns the ids of connections touching the node, sorted.
func (n *Node) Connections() []string {
	out := make([]string, 0, len(n.connections))
	for id := range n.connections {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (n *Node) ConnectionCount() int { return len(n.connections) }

func (n *Node) HasConnection(id string) bool {
	_, ok := n.connections[id]
	return ok
}

// Area returns the cosmetic area tag of the gate or group.
func (n *Node) Area() string {
	if n.Kind == KindGroup {
		return n.Group.Area
	}
	return n.Gate.Area
}

// Connection is an undirected edge between two nodes.
type Connection struct {
	ID string
	A  string
	B  string
}

// Other returns the endpoint that is not name.
func (c Connection) Other(name string) string {
	if c.A == name {
		return c.B
	}
	return c.A
}

// ConnectionID returns the canonical id for the pair; argument order does
// not matter.
func ConnectionID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + idSeparator + b
}

// SplitConnectionID returns the two endpoint names of id.
func SplitConnectionID(id string) (string, string, bool) {
	return strings.Cut(id, idSeparator)
}

// Option configures a Model.
type Option func(*Model)

func WithLayout(l placement.Layout) Option {
	return func(m *Model) { m.layout = l }
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Model) {
		if log != nil {
			m.log = log
		}
	}
}

// Model is the session graph. It is not safe for concurrent use; every
// call is expected on the single control goroutine.
type Model struct {
	catalog *catalog.Catalog
	rules   *rules.Rules
	stack   *undo.Stack
	layout  placement.Layout
	log     *zap.Logger

	nodes       *btree.Map[string, *Node]
	connections *btree.Map[string, Connection]
	disabled    catalog.TypeSet
	listeners   []func(Event)
}

func New(c *catalog.Catalog, r *rules.Rules, stack *undo.Stack, opts ...Option) *Model {
	m := &Model{
		catalog:  c,
		rules:    r,
		stack:    stack,
		layout:   placement.DefaultLayout(),
		log:      zap.NewNop(),
		disabled: catalog.NewTypeSet(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("graph")
	m.reset()
	return m
}

func (m *Model) reset() {
	m.nodes = btree.NewMap[string, *Node](0)
	m.connections = btree.NewMap[string, Connection](0)
}

func (m *Model) Catalog() *catalog.Catalog { return m.catalog }

func (m *Model) Layout() placement.Layout { return m.layout }

// Subscribe registers fn for graph change notifications.
func (m *Model) Subscribe(fn func(Event)) {
	m.listeners = append(m.listeners, fn)
}

func (m *Model) emit(kind EventKind, name string) {
	ev := Event{Kind: kind, Name: name}
	for _, fn := range m.listeners {
		fn(ev)
	}
}

// Node returns the placed node named name, or nil.
func (m *Model) Node(name string) *Node {
	n, _ := m.nodes.Get(name)
	return n
}

func (m *Model) HasNode(name string) bool {
	_, ok := m.nodes.Get(name)
	return ok
}

// Position returns the position of the named node.
func (m *Model) Position(name string) (r3.Vec, bool) {
	n := m.Node(name)
	if n == nil {
		return r3.Vec{}, false
	}
	return n.Position, true
}

func (m *Model) NodeCount() int { return m.nodes.Len() }

// Nodes returns every placed node ordered by name.
func (m *Model) Nodes() []*Node {
	out := make([]*Node, 0, m.nodes.Len())
	m.nodes.Scan(func(_ string, n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Connection returns the connection with the given id.
func (m *Model) Connection(id string) (Connection, bool) {
	return m.connections.Get(id)
}

func (m *Model) ConnectionCount() int { return m.connections.Len() }

// Connections returns every connection ordered by id.
func (m *Model) Connections() []Connection {
	out := make([]Connection, 0, m.connections.Len())
	m.connections.Scan(func(_ string, c Connection) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Neighbors returns the names of nodes connected to name, sorted.
func (m *Model) Neighbors(name string) []string {
	n := m.Node(name)
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.connections))
	for _, id := range n.Connections() {
		if c, ok := m.connections.Get(id); ok {
			out = append(out, c.Other(name))
		}
	}
	slices.Sort(out)
	return out
}

// IsFullyConnected reports whether the node already has enough connections.
func (m *Model) IsFullyConnected(name string) bool {
	n := m.Node(name)
	return n != nil && rules.FullyConnected(n.ConnectionCount())
}

// DisabledTypes returns a copy of the session's disabled gate types.
func (m *Model) DisabledTypes() catalog.TypeSet { return m.disabled.Clone() }

func (m *Model) SetDisabledTypes(types catalog.TypeSet) {
	m.disabled = types.Clone()
	m.emit(EventSettingsChanged, "")
}

// IsSearchable applies the search rule to name against the live graph.
func (m *Model) IsSearchable(name string, fromNew bool) bool {
	return m.rules.IsSearchable(name, m.disabled, m.IsFullyConnected(name), fromNew)
}

// SearchableGates returns the catalog gates that may be chosen next.
func (m *Model) SearchableGates(fromNew bool) []catalog.GateRecord {
	var out []catalog.GateRecord
	for _, g := range m.catalog.Gates() {
		if m.IsSearchable(g.Name, fromNew) {
			out = append(out, g)
		}
	}
	return out
}

// NodesInRegion returns the names of nodes whose planar position lies
// strictly inside the rectangle spanned by a and b.
func (m *Model) NodesInRegion(a, b r3.Vec) []string {
	lx, hx := min(a.X, b.X), max(a.X, b.X)
	lz, hz := min(a.Z, b.Z), max(a.Z, b.Z)
	var out []string
	m.nodes.Scan(func(name string, n *Node) bool {
		p := n.Position
		if p.X > lx && p.X < hx && p.Z > lz && p.Z < hz {
			out = append(out, name)
		}
		return true
	})
	return out
}

// ConnectNodes connects two placed nodes. It is a no-op when either is
// missing or the pair is already connected.
func (m *Model) ConnectNodes(a, b string) bool {
	return m.connect(m.Node(a), m.Node(b))
}

func (m *Model) connect(a, b *Node) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	id := ConnectionID(a.Name, b.Name)
	if a.HasConnection(id) || b.HasConnection(id) {
		return false
	}
	c := Connection{ID: id, A: min(a.Name, b.Name), B: max(a.Name, b.Name)}
	m.connections.Set(id, c)
	a.connections[id] = struct{}{}
	b.connections[id] = struct{}{}
	m.stack.Record(undo.NewCreateConnection(id))
	m.log.Debug("connected", zap.String("id", id))
	m.emit(EventConnectionAdded, id)
	return true
}

// RemoveConnection forgets the connection and detaches it from both
// endpoints.
func (m *Model) RemoveConnection(id string) {
	c, ok := m.connections.Delete(id)
	if !ok {
		return
	}
	for _, name := range []string{c.A, c.B} {
		if n := m.Node(name); n != nil {
			delete(n.connections, id)
		}
	}
	m.emit(EventConnectionRemoved, id)
}

// RemoveNode forgets the node along with every connection touching it.
func (m *Model) RemoveNode(name string) {
	n := m.Node(name)
	if n == nil {
		return
	}
	for _, id := range n.Connections() {
		m.RemoveConnection(id)
	}
	m.nodes.Delete(name)
	m.log.Debug("removed node", zap.String("name", name))
	m.emit(EventNodeRemoved, name)
}

// MoveNode places the node at pos and records the move.
func (m *Model) MoveNode(name string, pos r3.Vec) bool {
	n := m.Node(name)
	if n == nil || n.Position == pos {
		return false
	}
	from := n.Position
	n.Position = pos
	m.stack.Record(undo.NewMoveNode(name, from, pos))
	m.emit(EventNodeMoved, name)
	return true
}

// SetPosition places the node at pos without recording.
func (m *Model) SetPosition(name string, pos r3.Vec) {
	n := m.Node(name)
	if n == nil || n.Position == pos {
		return
	}
	n.Position = pos
	m.emit(EventNodeMoved, name)
}

// RestoreNode places name at pos without expansion. Existing nodes are
// left alone.
func (m *Model) RestoreNode(name string, pos r3.Vec, previous string) {
	if m.HasNode(name) {
		return
	}
	n := m.newNode(name, pos)
	if n == nil {
		m.log.Warn("restore of unknown node", zap.String("name", name))
		return
	}
	n.Previous = previous
	m.insert(n)
}

// RestoreConnection reconnects the endpoints named by id.
func (m *Model) RestoreConnection(id string) {
	a, b, ok := SplitConnectionID(id)
	if !ok {
		return
	}
	m.ConnectNodes(a, b)
}

// SetExpanded sets the objective state of a node.
func (m *Model) SetExpanded(name string, expanded bool) {
	if n := m.Node(name); n != nil {
		n.Expanded = expanded
	}
}

// Clear drops every node and connection. Disabled types are kept.
func (m *Model) Clear() {
	m.reset()
	m.emit(EventCleared, "")
}

func (m *Model) newNode(name string, pos r3.Vec) *Node {
	n := &Node{Name: name, Position: pos, Expanded: true, connections: map[string]struct{}{}}
	if g := m.catalog.Group(name); g != nil {
		n.Kind = KindGroup
		n.Group = g
		return n
	}
	gate, ok := m.catalog.Gate(name)
	if !ok {
		return nil
	}
	n.Kind = KindGate
	n.Gate = gate
	if m.rules.IsObjective(name) && !m.rules.IsDisabled(name, m.disabled) {
		n.Expanded = false
	}
	return n
}

func (m *Model) insert(n *Node) {
	m.nodes.Set(n.Name, n)
	m.emit(EventNodeAdded, n.Name)
}
