package levelindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Another0Noob/levelsync/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	return logging.WithLogger(context.Background(), logging.Nop())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadMissingFile(t *testing.T) {
	ix := Load(testCtx(), filepath.Join(t.TempDir(), "levels.json"))
	assert.NotNil(t, ix)
	assert.Empty(t, ix)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"garbage.json":  "{not json",
		"array.json":    "[1, 2, 3]",
		"null.json":     "null",
		"trailing.json": `{"A": 1} extra`,
		"empty.json":    "",
	} {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, dir, name, content)
			ix := Load(testCtx(), p)
			assert.NotNil(t, ix)
			assert.Empty(t, ix)
		})
	}
}

func TestLoadValid(t *testing.T) {
	p := writeFile(t, t.TempDir(), "levels.json", `{"Bloodbath": 10565740, "Sonic Wave": 26681070}`)
	ix := Load(testCtx(), p)
	assert.Equal(t, Index{"Bloodbath": 10565740, "Sonic Wave": 26681070}, ix)
}

func TestDecodeNormalisesValues(t *testing.T) {
	ix, err := Decode(testCtx(), []byte(`{
		"int": 1,
		"float": 2.0,
		"string": "3",
		"exp": 4e0,
		"fraction": 5.5,
		"bool": true,
		"null": null,
		"object": {"id": 6},
		"text": "seven",
		"zero": 0,
		"negative": -8
	}`))
	require.NoError(t, err)
	assert.Equal(t, Index{"int": 1, "float": 2, "string": 3, "exp": 4}, ix)
}

func TestDecodeCollapsesDuplicateIDs(t *testing.T) {
	ix, err := Decode(testCtx(), []byte(`{"b": 1, "a": 1, "c": 2}`))
	require.NoError(t, err)
	assert.Equal(t, Index{"a": 1, "c": 2}, ix)
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "levels.json")
	in := Index{"Zeta": 3, "Alpha & Omega": 1, "Mid": 2}

	require.NoError(t, Save(testCtx(), p, in))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"Alpha & Omega\": 1,\n    \"Mid\": 2,\n    \"Zeta\": 3\n}\n", string(b))
	assert.Equal(t, in, Load(testCtx(), p))
}

func TestSaveEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "levels.json")
	require.NoError(t, Save(testCtx(), p, nil))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(b))
}

func TestSaveOverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "levels.json", `{"Old": 9}`)

	require.NoError(t, NewStore(p).Save(testCtx(), Index{"New": 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Index{"New": 1}, NewStore(p).Load(testCtx()))
}

func TestSaveMissingDirectory(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope", "levels.json")
	assert.Error(t, Save(testCtx(), p, Index{"A": 1}))
}

func TestIndexHelpers(t *testing.T) {
	ix := Index{"b": 2, "a": 1, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, ix.Names())
	assert.Equal(t, []int64{1, 2, 3}, ix.IDs())
	assert.Equal(t, map[int64]string{1: "a", 2: "b", 3: "c"}, ix.ByID())

	clone := ix.Clone()
	clone["d"] = 4
	assert.NotContains(t, ix, "d")
}
