package poller

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorLoadMissing(t *testing.T) {
	c := NewCursor(filepath.Join(t.TempDir(), "cursor.txt"))
	_, ok, err := c.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCursorStoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursor.txt")
	c := NewCursor(path)

	require.NoError(t, c.Store(269515))
	v, ok, err := c.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(269515), v)

	// the on-disk form is plain decimal ASCII
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "269515", string(data))
}

func TestCursorLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursor.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a height"), 0o644))

	_, _, err := NewCursor(path).Load()
	require.Error(t, err)
}

func TestCursorLoadTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursor.txt")
	require.NoError(t, os.WriteFile(path, []byte("42\n"), 0o644))

	v, ok, err := NewCursor(path).Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(42), v)
}
