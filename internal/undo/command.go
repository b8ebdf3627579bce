package undo

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind identifies an atomic command.
type Kind int

const (
	CreateNode Kind = iota + 1
	CreateConnection
	MoveNode
	SelectNode
	ExpandNode
)

func (k Kind) String() string {
	switch k {
	case CreateNode:
		return "CreateNode"
	case CreateConnection:
		return "CreateConnection"
	case MoveNode:
		return "MoveNode"
	case SelectNode:
		return "SelectNode"
	case ExpandNode:
		return "ExpandNode"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Target is what commands replay against. Every method must be a no-op
// when the requested state already holds.
type Target interface {
	RestoreNode(name string, pos r3.Vec, previous string)
	RemoveNode(name string)
	RestoreConnection(id string)
	RemoveConnection(id string)
	SetPosition(name string, pos r3.Vec)
	SetSelected(name string, selected bool)
	SetExpanded(name string, expanded bool)
}

// Command is one atomic, reversible mutation.
type Command struct {
	Kind Kind
	// Name is the node name, or the connection id for CreateConnection.
	Name     string
	Previous string
	From     r3.Vec
	To       r3.Vec
	Selected bool
}

func NewCreateNode(name string, pos r3.Vec, previous string) Command {
	return Command{Kind: CreateNode, Name: name, To: pos, Previous: previous}
}

func NewCreateConnection(id string) Command {
	return Command{Kind: CreateConnection, Name: id}
}

func NewMoveNode(name string, from, to r3.Vec) Command {
	return Command{Kind: MoveNode, Name: name, From: from, To: to}
}

func NewSelectNode(name string, selected bool) Command {
	return Command{Kind: SelectNode, Name: name, Selected: selected}
}

func NewExpandNode(name string) Command {
	return Command{Kind: ExpandNode, Name: name}
}

// Forward applies the command.
func (c Command) Forward(t Target) {
	switch c.Kind {
	case CreateNode:
		t.RestoreNode(c.Name, c.To, c.Previous)
	case CreateConnection:
		t.RestoreConnection(c.Name)
	case MoveNode:
		t.SetPosition(c.Name, c.To)
	case SelectNode:
		t.SetSelected(c.Name, c.Selected)
	case ExpandNode:
		t.SetExpanded(c.Name, true)
	}
}

// Inverse reverts the command.
func (c Command) Inverse(t Target) {
	switch c.Kind {
	case CreateNode:
		t.RemoveNode(c.Name)
	case CreateConnection:
		t.RemoveConnection(c.Name)
	case MoveNode:
		t.SetPosition(c.Name, c.From)
	case SelectNode:
		t.SetSelected(c.Name, !c.Selected)
	case ExpandNode:
		t.SetExpanded(c.Name, false)
	}
}

// UndoString describes what undoing the command does.
func (c Command) UndoString() string {
	switch c.Kind {
	case CreateNode:
		return "Remove: " + c.Name
	case CreateConnection:
		a, b := splitPair(c.Name)
		return fmt.Sprintf("Disconnect: %s x %s", a, b)
	case MoveNode:
		return fmt.Sprintf("Move: %s %s", c.Name, formatVec(c.From))
	case SelectNode:
		return selectVerb(!c.Selected) + ": " + c.Name
	case ExpandNode:
		return "Collapse: " + c.Name
	}
	return c.Kind.String()
}

// RedoString describes what replaying the command does.
func (c Command) RedoString() string {
	switch c.Kind {
	case CreateNode:
		return fmt.Sprintf("Create: %s, %s", c.Name, formatVec(c.To))
	case CreateConnection:
		a, b := splitPair(c.Name)
		return fmt.Sprintf("Connect: %s > %s", a, b)
	case MoveNode:
		return fmt.Sprintf("Move: %s %s", c.Name, formatVec(c.To))
	case SelectNode:
		return selectVerb(c.Selected) + ": " + c.Name
	case ExpandNode:
		return "Expand: " + c.Name
	}
	return c.Kind.String()
}

func (c Command) String() string { return c.RedoString() }

func selectVerb(selected bool) string {
	if selected {
		return "Select"
	}
	return "Deselect"
}

func splitPair(id string) (string, string) {
	a, b, _ := strings.Cut(id, ",")
	return a, b
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
