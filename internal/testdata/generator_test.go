package testdata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/gatecharter/internal/catalog"
)

func TestGatesParseCleanly(t *testing.T) {
	gates := Gates(DefaultShape())
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, gates))

	c, err := catalog.Parse(&buf)
	require.NoError(t, err)
	require.Equal(t, len(gates), c.Len())
	require.NotEmpty(t, c.Groups())

	for _, g := range gates {
		if g.Type != catalog.DoorShortcut {
			continue
		}
		exit, ok := c.Exit(g.Name)
		require.True(t, ok, g.Name)
		require.Equal(t, catalog.ShortcutExit, exit.Type)
	}
}

func TestGatesDeterministic(t *testing.T) {
	require.Equal(t, Gates(DefaultShape()), Gates(DefaultShape()))
	other := DefaultShape()
	other.Seed = 2
	require.NotEqual(t, Gates(DefaultShape()), Gates(other))
}
