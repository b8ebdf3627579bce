package catalog

import (
	"slices"
	"strings"
)

// GateType classifies a gate record. Values match the type column of the
// catalog file.
type GateType string

const (
	Traversable    GateType = "Traversable"
	Boss           GateType = "Boss"
	DoorShortcut   GateType = "DoorShortcut"
	OnewayShortcut GateType = "OnewayShortcut"
	ShortcutExit   GateType = "ShortcutExit"
	Warp           GateType = "Warp"
	PVP            GateType = "PVP"
	Objective      GateType = "Objective"
	Area           GateType = "Area"
	Golden         GateType = "Golden"
)

var gateTypes = []GateType{
	Traversable,
	Boss,
	DoorShortcut,
	OnewayShortcut,
	ShortcutExit,
	Warp,
	PVP,
	Objective,
	Area,
	Golden,
}

// older catalog files spell some types differently; the two objective
// kinds were later merged into Objective
var legacyGateTypes = map[string]GateType{
	"One-wayShortcut": OnewayShortcut,
	"Shortcut":        DoorShortcut,
	"BossKilled":      Objective,
	"ItemObtained":    Objective,
}

// AllGateTypes returns every known gate type in declaration order.
func AllGateTypes() []GateType {
	return append([]GateType(nil), gateTypes...)
}

// ParseGateType maps a catalog type column to a GateType.
func ParseGateType(s string) (GateType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range gateTypes {
		if string(t) == s {
			return t, true
		}
	}
	if t, ok := legacyGateTypes[s]; ok {
		return t, true
	}
	return "", false
}

func (t GateType) String() string { return string(t) }

// TypeSet is a set of gate types, used for the session's disabled types.
type TypeSet map[GateType]struct{}

func NewTypeSet(types ...GateType) TypeSet {
	s := make(TypeSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// ParseTypeSet builds a set from type identifiers, ignoring unknown ones.
func ParseTypeSet(names []string) TypeSet {
	s := make(TypeSet, len(names))
	for _, n := range names {
		if t, ok := ParseGateType(n); ok {
			s[t] = struct{}{}
		}
	}
	return s
}

func (s TypeSet) Has(t GateType) bool {
	if s == nil {
		return false
	}
	_, ok := s[t]
	return ok
}

func (s TypeSet) Add(t GateType) { s[t] = struct{}{} }

func (s TypeSet) Remove(t GateType) { delete(s, t) }

func (s TypeSet) Clone() TypeSet {
	out := make(TypeSet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

// Strings returns the set members sorted, for persistence.
func (s TypeSet) Strings() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, string(t))
	}
	slices.Sort(out)
	return out
}
