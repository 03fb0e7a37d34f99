package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsDebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeSession(t, dir, "s"+Ext, []string{`{}`})
	other := writeSession(t, dir, "other"+Ext, []string{`{}`})

	changes := make(chan string, 10)
	w, err := NewWatcher(path, 50*time.Millisecond, func(_ context.Context, p string) {
		changes <- p
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// Writes to other files are ignored.
	require.NoError(t, os.WriteFile(other, []byte("{}\n{}\n"), 0o644))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := f.WriteString("{}\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	select {
	case got := <-changes:
		want, _ := filepath.Abs(path)
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	// The burst of writes collapses into a single report.
	select {
	case <-changes:
		t.Fatal("burst reported more than once")
	case <-time.After(300 * time.Millisecond):
	}

	stats := w.Stats()
	assert.Equal(t, 1, stats.Changes)
	assert.GreaterOrEqual(t, stats.Events, 1)
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	path := writeSession(t, t.TempDir(), "s"+Ext, []string{`{}`})
	w, err := NewWatcher(path, 0, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	path := writeSession(t, t.TempDir(), "s"+Ext, []string{`{}`})
	w, err := NewWatcher(path, time.Second, nil)
	require.NoError(t, err)
	w.Stop()
}
