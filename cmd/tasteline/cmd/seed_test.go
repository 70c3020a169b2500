package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedJSON = `[
  {"id": 1, "name": "Tomato Soup", "type": "soup", "kitchen": "italian",
   "ingredients": "tomato, basil", "text": "Simmer tomatoes with basil."},
  {"id": 2, "name": "Basil Pesto", "type": "sauce", "kitchen": "italian",
   "ingredients": "basil, pine nuts", "text": "Blend basil with pine nuts."}
]`

// useTempDataDir points every config path at a throwaway directory so
// commands never touch the real ~/.tasteline.
func useTempDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TASTELINE_DATA_DIR", dir)
	t.Setenv("TASTELINE_EMBEDDER", "static")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func TestSeedCmd_LoadsRecipes(t *testing.T) {
	dir := useTempDataDir(t)

	seedPath := filepath.Join(dir, "recipes.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedJSON), 0o644))

	cmd := newSeedCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{seedPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Loaded 2 recipe(s)")
}

func TestSeedCmd_MissingFileFails(t *testing.T) {
	useTempDataDir(t)

	cmd := newSeedCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"/nonexistent/recipes.json"})

	assert.Error(t, cmd.Execute())
}

func TestSeedThenSearch_EndToEnd(t *testing.T) {
	dir := useTempDataDir(t)

	seedPath := filepath.Join(dir, "recipes.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedJSON), 0o644))

	seed := newSeedCmd()
	seed.SetOut(&bytes.Buffer{})
	seed.SetArgs([]string{seedPath})
	require.NoError(t, seed.Execute())

	searchCmd := newSearchCmd()
	buf := &bytes.Buffer{}
	searchCmd.SetOut(buf)
	searchCmd.SetArgs([]string{"--method", "simple", "Tomato"})
	require.NoError(t, searchCmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Tomato Soup")
	assert.NotContains(t, output, "Basil Pesto")
}

func TestSearchCmd_BadMethodFails(t *testing.T) {
	useTempDataDir(t)

	cmd := newSearchCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--method", "hybrid", "basil"})

	assert.Error(t, cmd.Execute())
}
