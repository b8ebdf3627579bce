// Package session wires the catalog, traversal rules, graph, undo stack and
// selection into one editing session, and is the single entry point the
// front end mutates state through.
package session

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jask/gatecharter/internal/catalog"
	"github.com/jask/gatecharter/internal/graph"
	"github.com/jask/gatecharter/internal/placement"
	"github.com/jask/gatecharter/internal/rules"
	"github.com/jask/gatecharter/internal/selection"
	"github.com/jask/gatecharter/internal/undo"
)

// Options configures a Session.
type Options struct {
	Layout        placement.Layout
	DisabledTypes catalog.TypeSet
	Logger        *zap.Logger
}

// Session is the explicit context shared by every component of one
// editing session.
type Session struct {
	Catalog   *catalog.Catalog
	Rules     *rules.Rules
	Graph     *graph.Model
	Stack     *undo.Stack
	Selection *selection.Set

	log *zap.Logger
}

func New(c *catalog.Catalog, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	layout := opts.Layout
	if layout.UnitDistance <= 0 {
		layout = placement.DefaultLayout()
	}

	r := rules.New(c)
	stack := undo.NewStack(log)
	g := graph.New(c, r, stack, graph.WithLayout(layout), graph.WithLogger(log))
	sel := selection.New(g, stack, log)
	g.Subscribe(sel.HandleGraphEvent)
	if opts.DisabledTypes != nil {
		g.SetDisabledTypes(opts.DisabledTypes)
	}

	return &Session{
		Catalog:   c,
		Rules:     r,
		Graph:     g,
		Stack:     stack,
		Selection: sel,
		log:       log.Named("session"),
	}
}

// Reset starts a new session with the given disabled types: the graph,
// selection and history are cleared.
func (s *Session) Reset(disabled catalog.TypeSet) {
	s.Graph.Clear()
	s.Stack.Clear()
	if disabled == nil {
		disabled = catalog.NewTypeSet()
	}
	s.Graph.SetDisabledTypes(disabled)
	s.log.Info("new session", zap.Strings("disabled_types", disabled.Strings()))
}

// Empty reports whether nothing has been placed yet.
func (s *Session) Empty() bool { return s.Graph.NodeCount() == 0 }

// Searchable returns the gates that may be picked next. The first pick of
// a session uses the relaxed rule.
func (s *Session) Searchable() []catalog.GateRecord {
	return s.Graph.SearchableGates(s.Empty())
}

func (s *Session) Undo() bool { return s.Stack.Undo(replayTarget{s}) }

func (s *Session) Redo() bool { return s.Stack.Redo(replayTarget{s}) }

// replayTarget routes replayed commands to the graph or the selection.
type replayTarget struct{ s *Session }

func (t replayTarget) RestoreNode(name string, pos r3.Vec, previous string) {
	t.s.Graph.RestoreNode(name, pos, previous)
}

func (t replayTarget) RemoveNode(name string) { t.s.Graph.RemoveNode(name) }

func (t replayTarget) RestoreConnection(id string) { t.s.Graph.RestoreConnection(id) }

func (t replayTarget) RemoveConnection(id string) { t.s.Graph.RemoveConnection(id) }

func (t replayTarget) SetPosition(name string, pos r3.Vec) { t.s.Graph.SetPosition(name, pos) }

func (t replayTarget) SetExpanded(name string, expanded bool) { t.s.Graph.SetExpanded(name, expanded) }

func (t replayTarget) SetSelected(name string, selected bool) {
	t.s.Selection.SetSelected(name, selected)
}
