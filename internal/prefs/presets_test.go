package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/gatecharter/internal/catalog"
)

func TestOpenWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "presets.toml")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	var names []string
	for _, p := range s.Presets() {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"all", "no-pvp", "story"}, names)

	types, err := s.Resolve("story")
	require.NoError(t, err)
	require.Equal(t, []string{"Golden", "PVP", "Warp"}, types.Strings())
	require.Empty(t, s.Last())
}

func TestResolveUnknown(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "presets.toml"))
	require.NoError(t, err)
	_, err = s.Resolve("nope")
	require.ErrorIs(t, err, ErrUnknownPreset)
}

func TestResolveByID(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "presets.toml"))
	require.NoError(t, err)
	id := Preset{Name: "no-pvp"}.ID()
	require.Equal(t, id, Preset{Name: "no-pvp"}.ID())
	require.NotEqual(t, id, Preset{Name: "story"}.ID())

	types, err := s.Resolve(id)
	require.NoError(t, err)
	require.Equal(t, []string{"PVP"}, types.Strings())
}

func TestSetLastPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetLast(catalog.NewTypeSet(catalog.Boss, catalog.Objective)))

	reopened, err := Open(path)
	require.NoError(t, err)
	types, err := reopened.Resolve(LastPreset)
	require.NoError(t, err)
	require.Equal(t, []string{"Boss", "Objective"}, types.Strings())
	require.Len(t, reopened.Presets(), 3)
}

func TestPutReplacesByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(Preset{Name: "no-pvp", Disabled: []string{"PVP", "Boss"}}))
	require.NoError(t, s.Put(Preset{Name: "speed", Disabled: []string{"Objective"}}))
	require.Error(t, s.Put(Preset{Name: LastPreset}))

	reopened, err := Open(path)
	require.NoError(t, err)
	require.Len(t, reopened.Presets(), 4)
	types, err := reopened.Resolve("no-pvp")
	require.NoError(t, err)
	require.Equal(t, []string{"Boss", "PVP"}, types.Strings())
}

func TestParsePresetsValidation(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"missing name", "[[preset]]\ndisabled = []\n"},
		{"reserved", "[[preset]]\nname = \"last\"\n"},
		{"duplicate", "[[preset]]\nname = \"a\"\n[[preset]]\nname = \"a\"\n"},
		{"bad type", "[[preset]]\nname = \"a\"\ndisabled = [\"Dragon\"]\n"},
		{"bad toml", "[[preset]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePresets([]byte(tt.toml)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
