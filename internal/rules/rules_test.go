package rules

import (
	"strings"
	"testing"

	"github.com/jask/gatecharter/internal/catalog"
)

const rulesCatalog = `G1,GateA,Traversable,LocX,AreaA
G1,GateA2,Traversable,LocY,AreaA
,NoID,Traversable,LocX,AreaA
G2,BossGate,Boss,LocX,AreaA
G2,BossExit,Traversable,LocW,AreaA
G3,Door,DoorShortcut,LocY,AreaA
G3,DoorExit,ShortcutExit,LocW,AreaA
G4,OneWay,OnewayShortcut,LocY,AreaA
G5,Quest,Objective,LocW,AreaA
G6,Gold,Golden,LocW,AreaA
G6,Gold2,Golden,LocV,AreaA
`

func newRules(t *testing.T) *Rules {
	t.Helper()
	c, err := catalog.Parse(strings.NewReader(rulesCatalog))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return New(c)
}

func TestIsSearchable(t *testing.T) {
	r := newRules(t)
	none := catalog.NewTypeSet()
	golden := catalog.NewTypeSet(catalog.Golden)

	tests := []struct {
		name      string
		gate      string
		disabled  catalog.TypeSet
		connected bool
		fromNew   bool
		want      bool
	}{
		{name: "plain gate", gate: "GateA", disabled: none, want: true},
		{name: "fully connected", gate: "GateA", disabled: none, connected: true, want: false},
		{name: "fully connected from new", gate: "GateA", disabled: none, connected: true, fromNew: true, want: true},
		{name: "empty id", gate: "NoID", disabled: none, want: false},
		{name: "empty id from new", gate: "NoID", disabled: none, fromNew: true, want: false},
		{name: "boss", gate: "BossGate", disabled: none, want: false},
		{name: "door shortcut", gate: "Door", disabled: none, want: false},
		{name: "shortcut exit", gate: "DoorExit", disabled: none, want: false},
		{name: "oneway", gate: "OneWay", disabled: none, want: false},
		{name: "objective", gate: "Quest", disabled: none, want: false},
		{name: "disabled type", gate: "Gold", disabled: golden, want: false},
		{name: "disabled type from new", gate: "Gold", disabled: golden, fromNew: true, want: true},
		{name: "group", gate: "LocX", disabled: none, want: false},
		{name: "unknown", gate: "Nope", disabled: none, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.IsSearchable(tt.gate, tt.disabled, tt.connected, tt.fromNew)
			if got != tt.want {
				t.Fatalf("IsSearchable(%q) = %v, want %v", tt.gate, got, tt.want)
			}
		})
	}
}

func TestDisablingBossHidesEveryBossGate(t *testing.T) {
	r := newRules(t)
	disabled := catalog.NewTypeSet(catalog.Boss)
	for _, g := range r.catalog.Gates() {
		if g.Type != catalog.Boss {
			continue
		}
		if r.IsSearchable(g.Name, disabled, false, false) {
			t.Fatalf("boss gate %q searchable with Boss disabled", g.Name)
		}
		if !r.IsDisabled(g.Name, disabled) {
			t.Fatalf("boss gate %q should be disabled", g.Name)
		}
	}
}

func TestClassification(t *testing.T) {
	r := newRules(t)
	everything := catalog.NewTypeSet(catalog.AllGateTypes()...)

	if r.IsDisabled("LocX", everything) {
		t.Fatalf("groups are never disabled")
	}
	if !r.IsShortcut("Door") || !r.IsShortcut("OneWay") || r.IsShortcut("GateA") {
		t.Fatalf("shortcut classification wrong")
	}
	if !r.IsExit("DoorExit") || r.IsExit("Door") {
		t.Fatalf("exit classification wrong")
	}
	if r.ShowInGroup("DoorExit") || !r.ShowInGroup("GateA") || !r.ShowInGroup("LocX") {
		t.Fatalf("showInGroup classification wrong")
	}
	if !r.IsObjective("Quest") || r.IsObjective("LocX") {
		t.Fatalf("objective classification wrong")
	}
	if !r.ShouldAutoGenerate("LocX") || !r.ShouldAutoGenerate("GateA") || r.ShouldAutoGenerate("Nope") {
		t.Fatalf("auto-generate classification wrong")
	}
}

func TestFullyConnected(t *testing.T) {
	for count, want := range map[int]bool{0: false, 1: false, 2: true, 5: true} {
		if got := FullyConnected(count); got != want {
			t.Fatalf("FullyConnected(%d) = %v, want %v", count, got, want)
		}
	}
}
