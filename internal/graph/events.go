package graph

// EventKind names a change to the graph.
type EventKind int

const (
	EventNodeAdded EventKind = iota + 1
	EventNodeRemoved
	EventNodeMoved
	EventConnectionAdded
	EventConnectionRemoved
	EventCleared
	EventSettingsChanged
)

func (k EventKind) String() string {
	switch k {
	case EventNodeAdded:
		return "node_added"
	case EventNodeRemoved:
		return "node_removed"
	case EventNodeMoved:
		return "node_moved"
	case EventConnectionAdded:
		return "connection_added"
	case EventConnectionRemoved:
		return "connection_removed"
	case EventCleared:
		return "cleared"
	case EventSettingsChanged:
		return "settings_changed"
	}
	return "unknown"
}

// Event is delivered synchronously to subscribers after the change is
// applied. Name is a node name or a connection id depending on Kind.
type Event struct {
	Kind EventKind
	Name string
}
