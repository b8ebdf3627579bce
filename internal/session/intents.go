package session

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jask/gatecharter/internal/catalog"
	"github.com/jask/gatecharter/internal/graph"
)

// Intent is a typed request from the front end.
type Intent interface {
	intentName() string
}

type CreateNodeIntent struct {
	Name        string
	Anchor      r3.Vec
	Predecessor string
}

type ConnectIntent struct {
	A, B string
}

type MoveIntent struct {
	Name string
	To   r3.Vec
}

// SelectIntent sets a node's selection, or flips it when Toggle is set.
type SelectIntent struct {
	Name     string
	Selected bool
	Toggle   bool
}

type ClearSelectionIntent struct{}

type RegionSelectIntent struct {
	From, To r3.Vec
	Additive bool
}

// DragIntent moves every selected node by Delta. The first one starts the
// gesture.
type DragIntent struct {
	Delta r3.Vec
}

// DragEndIntent finishes the drag gesture, or aborts it when Cancel is set.
type DragEndIntent struct {
	Cancel bool
}

type CompleteObjectiveIntent struct {
	Name string
}

type UndoIntent struct{}

type RedoIntent struct{}

type NewSessionIntent struct {
	DisabledTypes catalog.TypeSet
}

func (CreateNodeIntent) intentName() string        { return "create_node" }
func (ConnectIntent) intentName() string           { return "connect" }
func (MoveIntent) intentName() string              { return "move" }
func (SelectIntent) intentName() string            { return "select" }
func (ClearSelectionIntent) intentName() string    { return "clear_selection" }
func (RegionSelectIntent) intentName() string      { return "region_select" }
func (DragIntent) intentName() string              { return "drag" }
func (DragEndIntent) intentName() string           { return "drag_end" }
func (CompleteObjectiveIntent) intentName() string { return "complete_objective" }
func (UndoIntent) intentName() string              { return "undo" }
func (RedoIntent) intentName() string              { return "redo" }
func (NewSessionIntent) intentName() string        { return "new_session" }

// Result reports what a dispatched intent did.
type Result struct {
	// Changed is true when the intent produced an undo step or replayed one.
	Changed bool
	// Node is the node created or reused by CreateNodeIntent.
	Node *graph.Node
}

// Dispatch applies in to the session. It is the only path by which the
// front end mutates session state.
func (s *Session) Dispatch(in Intent) Result {
	var res Result
	switch in := in.(type) {
	case CreateNodeIntent:
		res.Changed = s.Stack.Do(func() {
			res.Node = s.Graph.CreateNode(in.Name, in.Anchor, in.Predecessor)
		})
	case ConnectIntent:
		res.Changed = s.Stack.Do(func() { s.Graph.ConnectNodes(in.A, in.B) })
	case MoveIntent:
		res.Changed = s.Stack.Do(func() { s.Graph.MoveNode(in.Name, in.To) })
	case SelectIntent:
		res.Changed = s.Stack.Do(func() {
			if in.Toggle {
				s.Selection.Toggle(in.Name)
				return
			}
			s.Selection.Select(in.Name, in.Selected)
		})
	case ClearSelectionIntent:
		res.Changed = s.Stack.Do(func() { s.Selection.Clear() })
	case RegionSelectIntent:
		res.Changed = s.Selection.SelectInRegion(in.From, in.To, in.Additive)
	case DragIntent:
		if !s.Selection.Dragging() {
			s.Selection.BeginDrag()
		}
		s.Selection.DragBy(in.Delta)
	case DragEndIntent:
		if in.Cancel {
			s.Selection.CancelDrag()
			break
		}
		res.Changed = s.Selection.EndDrag()
	case CompleteObjectiveIntent:
		res.Changed = s.Graph.CompleteObjective(in.Name)
	case UndoIntent:
		res.Changed = s.Undo()
	case RedoIntent:
		res.Changed = s.Redo()
	case NewSessionIntent:
		s.Reset(in.DisabledTypes)
		res.Changed = true
	default:
		s.log.Warn("unhandled intent")
		return res
	}
	s.log.Debug("dispatch", zap.String("intent", in.intentName()), zap.Bool("changed", res.Changed))
	return res
}
