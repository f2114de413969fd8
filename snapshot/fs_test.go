package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSBackendLock(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFSBackend(dir)
	require.NoError(t, err)

	_, err = NewFSBackend(dir)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, b.Close())
	before, err := os.Stat(filepath.Join(dir, fsLockName))
	require.NoError(t, err, "lock file is kept after Close")

	b2, err := NewFSBackend(dir)
	require.NoError(t, err)
	after, err := os.Stat(filepath.Join(dir, fsLockName))
	require.NoError(t, err)
	assert.True(t, os.SameFile(before, after))

	_, err = NewFSBackend(dir)
	assert.ErrorIs(t, err, ErrLocked)
	require.NoError(t, b2.Close())
	assert.NoError(t, b2.Close(), "closing twice is a no-op")
}

func TestFSBackendFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b, err := NewFSBackend(dir)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Put(ctx, "show", []byte(`{}`)))
	require.NoError(t, b.Preferences().SetLastUsed(ctx, "show"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	names, err := b.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"show"}, names)

	data, err := os.ReadFile(filepath.Join(dir, "show.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-snapshot-", "temp files must not survive a write")
	}

	last, err := b.Preferences().LastUsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, "show", last)
}

func TestFilePreferencesMissing(t *testing.T) {
	p := &FilePreferences{Path: filepath.Join(t.TempDir(), "none.json")}
	last, err := p.LastUsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", last)
}

func TestNewFSBackendEmptyDir(t *testing.T) {
	_, err := NewFSBackend("")
	assert.Error(t, err)
}
