// Package selection tracks which placed nodes are selected and batches
// region selects and group drags into single undo steps. It holds node
// names only; the graph owns the nodes.
package selection

import (
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jask/gatecharter/internal/graph"
	"github.com/jask/gatecharter/internal/undo"
)

// Nodes is the view of the graph the selection needs.
type Nodes interface {
	HasNode(name string) bool
	Position(name string) (r3.Vec, bool)
	SetPosition(name string, pos r3.Vec)
	NodesInRegion(a, b r3.Vec) []string
}

type Set struct {
	nodes    Nodes
	stack    *undo.Stack
	log      *zap.Logger
	selected map[string]struct{}
	drag     map[string]r3.Vec // start positions while dragging
}

func New(nodes Nodes, stack *undo.Stack, log *zap.Logger) *Set {
	if log == nil {
		log = zap.NewNop()
	}
	return &Set{
		nodes:    nodes,
		stack:    stack,
		log:      log.Named("selection"),
		selected: map[string]struct{}{},
	}
}

// HandleGraphEvent drops names the graph no longer holds.
func (s *Set) HandleGraphEvent(ev graph.Event) {
	switch ev.Kind {
	case graph.EventNodeRemoved:
		delete(s.selected, ev.Name)
		delete(s.drag, ev.Name)
	case graph.EventCleared:
		s.selected = map[string]struct{}{}
		s.drag = nil
	}
}

func (s *Set) IsSelected(name string) bool {
	_, ok := s.selected[name]
	return ok
}

func (s *Set) Len() int { return len(s.selected) }

// Selected returns the selected names, sorted.
func (s *Set) Selected() []string {
	out := make([]string, 0, len(s.selected))
	for name := range s.selected {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Select sets the selection state of name and records the change. It
// reports whether anything changed.
func (s *Set) Select(name string, selected bool) bool {
	if !s.apply(name, selected) {
		return false
	}
	s.stack.Record(undo.NewSelectNode(name, selected))
	return true
}

// Toggle flips the selection state of name.
func (s *Set) Toggle(name string) bool {
	return s.Select(name, !s.IsSelected(name))
}

// Clear deselects everything and returns how many nodes were deselected.
func (s *Set) Clear() int {
	n := 0
	for _, name := range s.Selected() {
		if s.Select(name, false) {
			n++
		}
	}
	return n
}

// SetSelected changes state without recording; used for replay.
func (s *Set) SetSelected(name string, selected bool) {
	s.apply(name, selected)
}

func (s *Set) apply(name string, selected bool) bool {
	if selected {
		if s.IsSelected(name) || !s.nodes.HasNode(name) {
			return false
		}
		s.selected[name] = struct{}{}
		return true
	}
	if !s.IsSelected(name) {
		return false
	}
	delete(s.selected, name)
	return true
}

// SelectInRegion selects the nodes inside the rectangle spanned by a and b
// as one undo step. Unless additive, selected nodes outside it are
// deselected.
func (s *Set) SelectInRegion(a, b r3.Vec, additive bool) bool {
	inside := s.nodes.NodesInRegion(a, b)
	in := make(map[string]bool, len(inside))
	for _, name := range inside {
		in[name] = true
	}
	current := s.Selected()

	return s.stack.Do(func() {
		for _, name := range inside {
			s.Select(name, true)
		}
		if additive {
			return
		}
		for _, name := range current {
			if !in[name] {
				s.Select(name, false)
			}
		}
	})
}

// Dragging reports whether a group drag is in progress.
func (s *Set) Dragging() bool { return s.drag != nil }

// BeginDrag remembers where every selected node starts.
func (s *Set) BeginDrag() {
	s.drag = make(map[string]r3.Vec, len(s.selected))
	for name := range s.selected {
		if pos, ok := s.nodes.Position(name); ok {
			s.drag[name] = pos
		}
	}
}

// DragBy translates the nodes the drag started with by delta without
// recording. Nodes selected after the drag began stay put.
func (s *Set) DragBy(delta r3.Vec) {
	if s.drag == nil {
		s.BeginDrag()
	}
	names := make([]string, 0, len(s.drag))
	for name := range s.drag {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if pos, ok := s.nodes.Position(name); ok {
			s.nodes.SetPosition(name, r3.Add(pos, delta))
		}
	}
}

// EndDrag records one move per node that ended somewhere new, as a single
// undo step.
func (s *Set) EndDrag() bool {
	starts := s.drag
	s.drag = nil
	if starts == nil {
		return false
	}
	names := make([]string, 0, len(starts))
	for name := range starts {
		names = append(names, name)
	}
	slices.Sort(names)

	return s.stack.Do(func() {
		for _, name := range names {
			to, ok := s.nodes.Position(name)
			if !ok || to == starts[name] {
				continue
			}
			s.stack.Record(undo.NewMoveNode(name, starts[name], to))
		}
	})
}

// CancelDrag puts dragged nodes back without recording anything.
func (s *Set) CancelDrag() {
	for name, pos := range s.drag {
		s.nodes.SetPosition(name, pos)
	}
	s.drag = nil
	s.log.Debug("drag cancelled")
}
