package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jask/gatecharter/internal/catalog"
	"github.com/jask/gatecharter/internal/graph"
)

const testCatalog = `G1,GateA,Traversable,LocX,AreaA
G1,GateA2,Traversable,LocY,AreaB
G2,GateB,Traversable,LocX,AreaA
G3,GateC,Traversable,LocX,AreaA
,GateD,Traversable,LocY,AreaB
G9,Quest,Objective,LocQ,AreaQ
G9,QuestReward,Traversable,LocR,AreaR
`

func newSession(t *testing.T) *Session {
	t.Helper()
	c, err := catalog.Parse(strings.NewReader(testCatalog))
	require.NoError(t, err)
	return New(c, Options{})
}

func nodeNames(s *Session) []string {
	var out []string
	for _, n := range s.Graph.Nodes() {
		out = append(out, n.Name)
	}
	return out
}

func TestDispatchCreateUndoRedo(t *testing.T) {
	s := newSession(t)
	res := s.Dispatch(CreateNodeIntent{Name: "GateA"})
	require.True(t, res.Changed)
	require.NotNil(t, res.Node)
	require.Equal(t, "GateA", res.Node.Name)
	require.Equal(t, []string{"GateA", "GateB", "GateC", "LocX"}, nodeNames(s))
	after := s.Graph.Snapshot()

	require.True(t, s.Dispatch(UndoIntent{}).Changed)
	require.Zero(t, s.Graph.NodeCount())
	require.Zero(t, s.Graph.ConnectionCount())

	require.True(t, s.Dispatch(RedoIntent{}).Changed)
	if diff := cmp.Diff(after, s.Graph.Snapshot()); diff != "" {
		t.Fatalf("redo mismatch (-want +got):\n%s", diff)
	}
	require.False(t, s.Dispatch(RedoIntent{}).Changed)
}

func TestDispatchCreateExistingIsNoop(t *testing.T) {
	s := newSession(t)
	s.Dispatch(CreateNodeIntent{Name: "GateA"})
	res := s.Dispatch(CreateNodeIntent{Name: "GateA"})
	require.False(t, res.Changed)
	require.Equal(t, 1, s.Stack.UndoDepth())
}

func TestSearchableFirstPickIsRelaxed(t *testing.T) {
	s := newSession(t)
	require.True(t, s.Empty())
	var first []string
	for _, g := range s.Searchable() {
		first = append(first, g.Name)
	}
	require.Contains(t, first, "GateB")

	require.NotContains(t, first, "GateD", "gates without an id are never offered")
	require.NotContains(t, first, "Quest")

	s.Dispatch(CreateNodeIntent{Name: "GateA"})
	require.False(t, s.Empty())
	require.NotEmpty(t, s.Searchable())
}

func TestSelectionUndoThroughSession(t *testing.T) {
	s := newSession(t)
	s.Dispatch(CreateNodeIntent{Name: "GateA"})

	require.True(t, s.Dispatch(SelectIntent{Name: "GateB", Selected: true}).Changed)
	require.True(t, s.Dispatch(SelectIntent{Name: "GateC", Toggle: true}).Changed)
	require.Equal(t, []string{"GateB", "GateC"}, s.Selection.Selected())

	s.Dispatch(UndoIntent{})
	require.Equal(t, []string{"GateB"}, s.Selection.Selected())

	require.True(t, s.Dispatch(ClearSelectionIntent{}).Changed)
	require.Zero(t, s.Selection.Len())
	s.Dispatch(UndoIntent{})
	require.Equal(t, []string{"GateB"}, s.Selection.Selected())
}

func TestDragMovesSelectionAsOneStep(t *testing.T) {
	s := newSession(t)
	s.Dispatch(CreateNodeIntent{Name: "GateA"})
	s.Dispatch(SelectIntent{Name: "GateA", Selected: true})
	s.Dispatch(SelectIntent{Name: "GateB", Selected: true})
	a, _ := s.Graph.Position("GateA")
	b, _ := s.Graph.Position("GateB")
	depth := s.Stack.UndoDepth()

	s.Dispatch(DragIntent{Delta: r3.Vec{X: 1}})
	s.Dispatch(DragIntent{Delta: r3.Vec{Z: 2}})
	require.True(t, s.Dispatch(DragEndIntent{}).Changed)
	require.Equal(t, depth+1, s.Stack.UndoDepth())

	got, _ := s.Graph.Position("GateA")
	require.Equal(t, r3.Add(a, r3.Vec{X: 1, Z: 2}), got)

	s.Dispatch(UndoIntent{})
	got, _ = s.Graph.Position("GateA")
	require.Equal(t, a, got)
	got, _ = s.Graph.Position("GateB")
	require.Equal(t, b, got)
}

func TestDragCancelRestores(t *testing.T) {
	s := newSession(t)
	s.Dispatch(CreateNodeIntent{Name: "GateD"})
	s.Dispatch(SelectIntent{Name: "GateD", Selected: true})
	start, _ := s.Graph.Position("GateD")
	depth := s.Stack.UndoDepth()

	s.Dispatch(DragIntent{Delta: r3.Vec{X: 5}})
	require.False(t, s.Dispatch(DragEndIntent{Cancel: true}).Changed)
	got, _ := s.Graph.Position("GateD")
	require.Equal(t, start, got)
	require.Equal(t, depth, s.Stack.UndoDepth())
}

func TestMoveAndConnectIntents(t *testing.T) {
	s := newSession(t)
	s.Dispatch(CreateNodeIntent{Name: "GateD"})
	s.Dispatch(CreateNodeIntent{Name: "QuestReward"})

	require.True(t, s.Dispatch(ConnectIntent{A: "QuestReward", B: "GateD"}).Changed)
	require.False(t, s.Dispatch(ConnectIntent{A: "GateD", B: "QuestReward"}).Changed)
	_, ok := s.Graph.Connection(graph.ConnectionID("GateD", "QuestReward"))
	require.True(t, ok)

	to := r3.Vec{X: 10, Z: -4}
	require.True(t, s.Dispatch(MoveIntent{Name: "GateD", To: to}).Changed)
	got, _ := s.Graph.Position("GateD")
	require.Equal(t, to, got)
	s.Dispatch(UndoIntent{})
	got, _ = s.Graph.Position("GateD")
	require.NotEqual(t, to, got)
}

func TestRegionSelectIntent(t *testing.T) {
	s := newSession(t)
	s.Dispatch(CreateNodeIntent{Name: "GateD"})
	s.Dispatch(MoveIntent{Name: "GateD", To: r3.Vec{X: 1, Z: 1}})

	res := s.Dispatch(RegionSelectIntent{From: r3.Vec{X: -100, Z: -100}, To: r3.Vec{X: 100, Z: 100}})
	require.True(t, res.Changed)
	require.True(t, s.Selection.IsSelected("GateD"))
}

func TestNewSessionIntentClears(t *testing.T) {
	s := newSession(t)
	s.Dispatch(CreateNodeIntent{Name: "GateA"})
	s.Dispatch(SelectIntent{Name: "GateA", Selected: true})

	s.Dispatch(NewSessionIntent{DisabledTypes: catalog.NewTypeSet(catalog.Objective)})
	require.True(t, s.Empty())
	require.Zero(t, s.Selection.Len())
	require.False(t, s.Stack.CanUndo())
	require.Equal(t, []string{"Objective"}, s.Graph.DisabledTypes().Strings())
}

func TestCompleteObjectiveIntent(t *testing.T) {
	s := newSession(t)
	s.Dispatch(CreateNodeIntent{Name: "Quest"})
	require.False(t, s.Graph.Node("Quest").Expanded)

	require.True(t, s.Dispatch(CompleteObjectiveIntent{Name: "Quest"}).Changed)
	require.True(t, s.Graph.Node("Quest").Expanded)
	require.False(t, s.Dispatch(CompleteObjectiveIntent{Name: "Quest"}).Changed)
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, ext := range []string{"", ".json", ".yaml", ".yml"} {
		t.Run("ext"+ext, func(t *testing.T) {
			s := newSession(t)
			s.Dispatch(NewSessionIntent{DisabledTypes: catalog.NewTypeSet(catalog.PVP)})
			s.Dispatch(CreateNodeIntent{Name: "GateA"})
			s.Dispatch(CreateNodeIntent{Name: "Quest", Anchor: r3.Vec{X: 20}})
			want := s.Graph.Snapshot()

			path, err := s.Save(filepath.Join(t.TempDir(), "run"+ext))
			require.NoError(t, err)
			if ext == "" {
				require.Equal(t, DefaultExt, filepath.Ext(path))
			}

			loaded := newSession(t)
			require.NoError(t, loaded.LoadFile(path))
			if diff := cmp.Diff(want, loaded.Graph.Snapshot()); diff != "" {
				t.Fatalf("load mismatch (-want +got):\n%s", diff)
			}
			require.False(t, loaded.Stack.CanUndo())
		})
	}
}

func TestLoadLegacyDocument(t *testing.T) {
	const legacy = `{
  "Gates": [
    {"Name": "GateD", "X": 1, "Y": 0, "Z": 2, "Connections": ["QuestReward"]},
    {"Name": "QuestReward", "X": 4, "Y": 0, "Z": 2, "Connections": ["GateD"]}
  ],
  "Groups": [],
  "DisabledTypes": ["Traversable", "NoSuchType"]
}`
	doc, err := Decode(strings.NewReader(legacy), FormatJSON)
	require.NoError(t, err)

	s := newSession(t)
	require.NoError(t, s.Load(doc))
	require.Equal(t, []string{"GateD", "QuestReward"}, nodeNames(s))
	require.Equal(t, 1, s.Graph.ConnectionCount())
	require.Equal(t, []string{"Traversable"}, s.Graph.DisabledTypes().Strings())
	pos, _ := s.Graph.Position("GateD")
	require.Equal(t, r3.Vec{X: 1, Z: 2}, pos)
}

func TestLoadSkipsUnknownNodes(t *testing.T) {
	s := newSession(t)
	err := s.Load(Document{
		Gates: []GatePlacement{
			{Name: "GateD", Connections: []string{"Gone"}},
			{Name: "Gone", X: 1},
		},
	})
	require.ErrorIs(t, err, ErrUnknownNode)
	require.Equal(t, []string{"GateD"}, nodeNames(s))
	require.Zero(t, s.Graph.ConnectionCount())
}

func TestLoadFileErrorsLeaveSessionAlone(t *testing.T) {
	s := newSession(t)
	s.Dispatch(CreateNodeIntent{Name: "GateD"})

	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	require.Error(t, s.LoadFile(bad))
	require.Error(t, s.LoadFile(filepath.Join(dir, "missing.json")))
	require.Equal(t, []string{"GateD"}, nodeNames(s))
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"run", FormatJSON, false},
		{"run.data", FormatJSON, false},
		{"run.JSON", FormatJSON, false},
		{"run.yaml", FormatYAML, false},
		{"run.yml", FormatYAML, false},
		{"run.txt", 0, true},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if tt.err {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("FormatFor(%q) err = %v, want ErrUnsupportedFormat", tt.path, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("FormatFor(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
		}
	}
}
