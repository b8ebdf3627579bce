package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/jask/gatecharter/internal/catalog"
	"github.com/jask/gatecharter/internal/database"
	"github.com/jask/gatecharter/internal/session"
)

const testCatalog = `G1,GateA,Traversable,LocX,AreaA
G1,GateA2,Traversable,LocY,AreaB
G2,GateB,Traversable,LocX,AreaA
G3,GateC,Traversable,LocX,AreaA
`

func newLibrary(t *testing.T) *SessionLibrary {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionLibrary(db, nil)
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	c, err := catalog.Parse(strings.NewReader(testCatalog))
	require.NoError(t, err)
	return session.New(c, session.Options{})
}

func TestLibrarySaveOpen(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)

	s := newSession(t)
	s.Dispatch(session.NewSessionIntent{DisabledTypes: catalog.NewTypeSet(catalog.Boss)})
	s.Dispatch(session.CreateNodeIntent{Name: "GateA"})
	want := s.Graph.Snapshot()

	id, err := lib.Save(ctx, "first", s)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := lib.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 4, list[0].NodeCount)
	require.Equal(t, []string{"Boss"}, list[0].DisabledTypes)

	other := newSession(t)
	require.NoError(t, lib.Open(ctx, "first", other))
	if diff := cmp.Diff(want, other.Graph.Snapshot()); diff != "" {
		t.Fatalf("open mismatch (-want +got):\n%s", diff)
	}
}

func TestLibraryMissing(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	require.ErrorIs(t, lib.Open(ctx, "ghost", newSession(t)), ErrSessionNotFound)
	require.ErrorIs(t, lib.Delete(ctx, "ghost"), ErrSessionNotFound)
	_, err := lib.Save(ctx, "", newSession(t))
	require.Error(t, err)
}

func TestLibraryExportImport(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	s := newSession(t)
	s.Dispatch(session.CreateNodeIntent{Name: "GateA"})
	_, err := lib.Save(ctx, "run", s)
	require.NoError(t, err)

	path, err := lib.Export(ctx, "run", filepath.Join(t.TempDir(), "run.yaml"))
	require.NoError(t, err)
	_, err = lib.Import(ctx, "copy", path)
	require.NoError(t, err)

	a, err := lib.Document(ctx, "run")
	require.NoError(t, err)
	b, err := lib.Document(ctx, "copy")
	require.NoError(t, err)
	if diff := cmp.Diff(a, b, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("import mismatch (-want +got):\n%s", diff)
	}
}

func TestLibraryDeleteAndReset(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	s := newSession(t)
	for _, name := range []string{"a", "b", "c"} {
		_, err := lib.Save(ctx, name, s)
		require.NoError(t, err)
	}
	require.NoError(t, lib.Delete(ctx, "b"))
	list, err := lib.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, lib.Reset(ctx))
	list, err = lib.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}
