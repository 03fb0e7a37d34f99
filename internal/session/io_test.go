package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cczip/internal/testing/sessionsim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines(t *testing.T) {
	lines := sessionsim.New().Turn("hello there", 1000).Turn("second", 2000).Lines()
	path := writeSession(t, t.TempDir(), "s.jsonl", lines)

	got, err := ReadLines(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestReadLines_LargeRecord(t *testing.T) {
	big := `{"type":"user","message":{"role":"user","content":"` + strings.Repeat("x", 3<<20) + `"}}`
	path := writeSession(t, t.TempDir(), "s.jsonl", []string{big, `{}`})

	got, err := ReadLines(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, len(big), len(got[0]))
}

func TestReadLines_Cancelled(t *testing.T) {
	path := writeSession(t, t.TempDir(), "s.jsonl", []string{`{}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadLines(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadLines_Missing(t *testing.T) {
	_, err := ReadLines(context.Background(), filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := writeSession(t, dir, "s.jsonl", []string{"old"})
	require.NoError(t, os.Chmod(path, 0o600))

	require.NoError(t, WriteAtomic(path, []string{`{"a":1}`, `{"b":2}`}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "permissions survive the rename")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	err := WriteAtomic(filepath.Join(t.TempDir(), "absent", "s.jsonl"), []string{"x"})
	assert.Error(t, err)
}
