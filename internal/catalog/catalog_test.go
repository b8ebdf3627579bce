package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const sampleCatalog = `G1,GateA,Traversable,LocX,AreaA
G1,GateA2,Traversable,LocY,AreaB
,GateB,Traversable,LocX,AreaA

G2,GateC,Boss,LocX,AreaA
G3,DoorIn,DoorShortcut,LocY,AreaB
G3,DoorOut,ShortcutExit,LocZ,AreaC
,Lone,Objective,LocZ,AreaC
`

func mustParse(t *testing.T, src string, opts ...Option) *Catalog {
	t.Helper()
	c, err := Parse(strings.NewReader(src), opts...)
	require.NoError(t, err)
	return c
}

func TestParseRowFields(t *testing.T) {
	c := mustParse(t, "G1,GateA,Traversable,LocX,AreaA\n")
	g, ok := c.Gate("GateA")
	if !ok {
		t.Fatalf("GateA not found")
	}
	want := GateRecord{ID: "G1", Name: "GateA", Type: Traversable, Location: "LocX", Area: "AreaA"}
	if g != want {
		t.Fatalf("Gate(GateA) = %+v, want %+v", g, want)
	}
}

func TestGroupsFormAboveThreshold(t *testing.T) {
	c := mustParse(t, sampleCatalog)

	if !c.IsGroup("LocX") {
		t.Fatalf("LocX has 3 members and should be a group")
	}
	if c.IsGroup("LocY") || c.IsGroup("LocZ") {
		t.Fatalf("locations with 2 members must not form groups")
	}
	g := c.Group("LocX")
	require.Equal(t, []string{"GateA", "GateB", "GateC"}, g.MemberNames())
	require.Equal(t, "AreaA", g.Area)
	require.True(t, c.IsGateInGroup("GateB"))
	require.False(t, c.IsGateInGroup("DoorIn"))
	require.Nil(t, c.Group("Nowhere"))
}

func TestGroupThresholdOption(t *testing.T) {
	c := mustParse(t, sampleCatalog, WithGroupThreshold(1))
	for _, loc := range []string{"LocX", "LocY", "LocZ"} {
		if !c.IsGroup(loc) {
			t.Fatalf("%s should be a group with threshold 1", loc)
		}
	}
	require.Equal(t, 1, c.GroupThreshold())
}

func TestExitAndIDLookups(t *testing.T) {
	c := mustParse(t, sampleCatalog)

	exit, ok := c.Exit("GateA")
	require.True(t, ok)
	require.Equal(t, "GateA2", exit.Name)

	exit, ok = c.Exit("DoorIn")
	require.True(t, ok)
	require.Equal(t, "DoorOut", exit.Name)

	_, ok = c.Exit("GateB")
	require.False(t, ok, "empty id has no exit")
	_, ok = c.Exit("GateC")
	require.False(t, ok, "unpaired id has no exit")
	_, ok = c.Exit("missing")
	require.False(t, ok)

	require.Len(t, c.GatesByID("G1"), 2)
	require.Empty(t, c.GatesByID(""))
	require.Len(t, c.GatesByLocation("LocZ"), 2)
	require.Empty(t, c.GatesByLocation("Nowhere"))
}

func TestParseReportsMalformedRowsWithLineNumbers(t *testing.T) {
	src := strings.Join([]string{
		"G1,GateA,Traversable,LocX,AreaA",
		"G2,GateB,Traversable",
		"G3,GateC,Dragon,LocX,AreaA",
		"G4,,Boss,LocX,AreaA",
		"G5,GateA,Boss,LocX,AreaA",
		"G6,Gate, with comma,Boss,LocX,AreaA",
		"G7,GateD,Warp,LocY,AreaB",
	}, "\n")

	c, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	require.NotNil(t, c)
	require.Equal(t, 2, c.Len())

	var lines []int
	for _, e := range multierr.Errors(err) {
		var rerr *RecordError
		require.True(t, errors.As(e, &rerr), "unexpected error %v", e)
		lines = append(lines, rerr.Line)
	}
	require.Equal(t, []int{2, 3, 4, 5, 6}, lines)
	require.ErrorIs(t, err, ErrMalformedRecord)
	require.ErrorIs(t, err, ErrUnknownGateType)
	require.ErrorIs(t, err, ErrMissingGateName)
	require.ErrorIs(t, err, ErrDuplicateGate)
}

func TestNewRejectsDuplicates(t *testing.T) {
	c, err := New([]GateRecord{
		{Name: "A", Type: Traversable},
		{Name: "A", Type: Boss},
	})
	require.ErrorIs(t, err, ErrDuplicateGate)
	g, ok := c.Gate("A")
	require.True(t, ok)
	require.Equal(t, Traversable, g.Type, "first record wins")
}

func TestParseGateTypeLegacySpelling(t *testing.T) {
	tests := []struct {
		in   string
		want GateType
	}{
		{"One-wayShortcut", OnewayShortcut},
		{"Shortcut", DoorShortcut},
		{"BossKilled", Objective},
		{"ItemObtained", Objective},
	}
	for _, tt := range tests {
		typ, ok := ParseGateType(tt.in)
		if !ok || typ != tt.want {
			t.Fatalf("ParseGateType(%s) = %q, %v, want %q", tt.in, typ, ok, tt.want)
		}
	}
	if _, ok := ParseGateType("Teleporter"); ok {
		t.Fatalf("unknown type should not parse")
	}
}

func TestParseLegacyRows(t *testing.T) {
	c := mustParse(t, "B1,Lord,BossKilled,Keep,AreaK\nS1,Door,Shortcut,Hall,AreaH\n")
	g, _ := c.Gate("Lord")
	require.Equal(t, Objective, g.Type)
	g, _ = c.Gate("Door")
	require.Equal(t, DoorShortcut, g.Type)
}

func TestParseRejectsSeparatorInNames(t *testing.T) {
	src := "G1,\"Gate,A\",Traversable,LocX,AreaA\n" +
		"G2,GateB,Traversable,\"Loc,Y\",AreaA\n" +
		"G3,GateC,Traversable,LocX,AreaA\n"
	c, err := Parse(strings.NewReader(src))
	require.ErrorIs(t, err, ErrMalformedRecord)

	var lines []int
	for _, e := range multierr.Errors(err) {
		var rerr *RecordError
		require.True(t, errors.As(e, &rerr), "unexpected error %v", e)
		lines = append(lines, rerr.Line)
	}
	require.Equal(t, []int{1, 2}, lines)
	require.Equal(t, 1, c.Len())
	require.True(t, c.IsGate("GateC"))
}

func TestTypeSet(t *testing.T) {
	s := ParseTypeSet([]string{"Boss", "Warp", "bogus"})
	require.True(t, s.Has(Boss))
	require.True(t, s.Has(Warp))
	require.Equal(t, []string{"Boss", "Warp"}, s.Strings())

	clone := s.Clone()
	clone.Remove(Boss)
	require.True(t, s.Has(Boss), "clone must not alias")

	var empty TypeSet
	require.False(t, empty.Has(Boss))
}
