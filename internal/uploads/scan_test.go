package uploads

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

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "42.gdr2", "7.gdr2", "0099.gdr2", "notes.txt", "42.gdr2.bak", "abc.gdr2", "-3.gdr2", "1.GDR2")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "5.gdr2"), 0o755))

	res, err := Scan(testCtx(), dir, DefaultExtension)
	require.NoError(t, err)

	assert.Equal(t, []int64{7, 42, 99}, res.IDs.Sorted())
	require.Len(t, res.Skipped, 3)
	assert.Equal(t, "-3.gdr2", res.Skipped[0].Name)
	assert.Equal(t, "5.gdr2", res.Skipped[1].Name)
	assert.Contains(t, res.Skipped[1].Reason, "not a regular file")
	assert.Equal(t, "abc.gdr2", res.Skipped[2].Name)
}

func TestScanSymlinks(t *testing.T) {
	dir := t.TempDir()
	store := t.TempDir()
	target := filepath.Join(store, "replay.gdr2")
	require.NoError(t, os.WriteFile(target, nil, 0o644))

	if err := os.Symlink(target, filepath.Join(dir, "11.gdr2")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(store, "missing.gdr2"), filepath.Join(dir, "12.gdr2")))
	require.NoError(t, os.Symlink(store, filepath.Join(dir, "13.gdr2")))

	res, err := Scan(testCtx(), dir, DefaultExtension)
	require.NoError(t, err)

	assert.Equal(t, []int64{11}, res.IDs.Sorted())
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, "12.gdr2", res.Skipped[0].Name)
	assert.Contains(t, res.Skipped[0].Reason, "broken symlink")
	assert.Equal(t, "13.gdr2", res.Skipped[1].Name)
	assert.Contains(t, res.Skipped[1].Reason, "not a regular file")
}

func TestScanDuplicatesCollapse(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "42.gdr2", "042.gdr2")

	res, err := NewScanner(dir, "").Scan(testCtx())
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, res.IDs.Sorted())
}

func TestScanEmptyDir(t *testing.T) {
	res, err := Scan(testCtx(), t.TempDir(), DefaultExtension)
	require.NoError(t, err)
	assert.Empty(t, res.IDs)
	assert.Empty(t, res.Skipped)
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(testCtx(), filepath.Join(t.TempDir(), "missing"), DefaultExtension)
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		stem    string
		want    int64
		wantErr bool
	}{
		{"128", 128, false},
		{"+5", 5, false},
		{"007", 7, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"12a", 0, true},
		{"", 0, true},
		{"1.5", 0, true},
		{"99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			got, err := ParseID(tt.stem)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIDSetMinus(t *testing.T) {
	a := IDSet{1: {}, 2: {}, 3: {}}
	b := IDSet{2: {}, 4: {}}
	assert.Equal(t, []int64{1, 3}, a.Minus(b).Sorted())
	assert.Equal(t, []int64{4}, b.Minus(a).Sorted())
}
