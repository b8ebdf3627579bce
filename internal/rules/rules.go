// Package rules holds the traversal policy: which gates are disabled,
// searchable, shortcuts or exits, and which nodes auto-expand. Every
// predicate is pure over the catalog and the arguments passed in.
package rules

import "github.com/jask/gatecharter/internal/catalog"

// FullyConnectedAt is the connection count at which a node no longer
// needs another connection.
const FullyConnectedAt = 2

// FullyConnected reports whether a node with count connections is fully connected.
func FullyConnected(count int) bool { return count >= FullyConnectedAt }

// never offered in the search list
var unsearchableTypes = catalog.NewTypeSet(
	catalog.Objective,
	catalog.DoorShortcut,
	catalog.OnewayShortcut,
	catalog.ShortcutExit,
	catalog.Boss,
)

type Rules struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Rules {
	return &Rules{catalog: c}
}

// ShouldAutoGenerate reports whether creating name triggers expansion.
// Every known gate currently qualifies, so only unknown names return false.
func (r *Rules) ShouldAutoGenerate(name string) bool {
	if r.catalog.IsGroup(name) {
		return true
	}
	return r.catalog.IsGate(name)
}

// IsDisabled reports whether the gate's type is in disabled. Groups are
// never disabled.
func (r *Rules) IsDisabled(name string, disabled catalog.TypeSet) bool {
	if r.catalog.IsGroup(name) {
		return false
	}
	gate, ok := r.catalog.Gate(name)
	return ok && disabled.Has(gate.Type)
}

func (r *Rules) IsShortcut(name string) bool {
	return r.gateTypeIn(name, catalog.DoorShortcut, catalog.OnewayShortcut)
}

func (r *Rules) IsExit(name string) bool {
	return r.gateTypeIn(name, catalog.ShortcutExit)
}

// IsObjective reports whether the gate waits for completeObjective before
// fanning out.
func (r *Rules) IsObjective(name string) bool {
	return r.gateTypeIn(name, catalog.Objective)
}

// ShowInGroup reports whether a group member is laid out around its group.
func (r *Rules) ShowInGroup(name string) bool {
	if r.catalog.IsGroup(name) {
		return true
	}
	gate, ok := r.catalog.Gate(name)
	return ok && gate.Type != catalog.ShortcutExit
}

// IsSearchable reports whether name may be offered as the next gate.
// fromNew relaxes the disabled and connection checks for the first gate
// of a session.
func (r *Rules) IsSearchable(name string, disabled catalog.TypeSet, fullyConnected, fromNew bool) bool {
	if r.catalog.IsGroup(name) {
		return false
	}
	gate, ok := r.catalog.Gate(name)
	if !ok || !gate.HasID() {
		return false
	}
	if unsearchableTypes.Has(gate.Type) {
		return false
	}
	if !fromNew && disabled.Has(gate.Type) {
		return false
	}
	return fromNew || !fullyConnected
}

func (r *Rules) gateTypeIn(name string, types ...catalog.GateType) bool {
	if r.catalog.IsGroup(name) {
		return false
	}
	gate, ok := r.catalog.Gate(name)
	if !ok {
		return false
	}
	for _, t := range types {
		if gate.Type == t {
			return true
		}
	}
	return false
}
