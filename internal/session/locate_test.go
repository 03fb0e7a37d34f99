package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionID = "3f2b8c1e-8d4a-4b8e-9c1d-2a3b4c5d6e7f"

func TestProjectDirName(t *testing.T) {
	assert.Equal(t, "-home-dev-src-cczip", ProjectDirName("/home/dev/src/cczip"))
	assert.Equal(t, "-", ProjectDirName("/"))
}

func TestNewLocator(t *testing.T) {
	l := NewLocator("/root/.claude/projects", "/work/app")
	assert.Equal(t, filepath.Join("/root/.claude/projects", "-work-app"), l.Dir)
}

func TestIsSessionID(t *testing.T) {
	assert.True(t, IsSessionID(sessionID))
	assert.True(t, IsSessionID("3F2B8C1E-8D4A-4B8E-9C1D-2A3B4C5D6E7F"))
	assert.False(t, IsSessionID("urn:uuid:3f2b8c1e-8d4a-4b8e-9c1d-2a3b4c5d6e7f"))
	assert.False(t, IsSessionID("3f2b8c1e8d4a4b8e9c1d2a3b4c5d6e7f"))
	assert.False(t, IsSessionID("session.jsonl"))
}

func TestLocator_Resolve(t *testing.T) {
	dir := t.TempDir()
	l := &Locator{Dir: dir}

	older := writeSession(t, dir, sessionID+Ext, []string{`{}`})
	newer := writeSession(t, dir, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"+Ext, []string{`{}`})
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	t.Run("explicit file", func(t *testing.T) {
		got, err := l.Resolve(older)
		require.NoError(t, err)
		assert.Equal(t, older, got)
	})

	t.Run("session id", func(t *testing.T) {
		got, err := l.Resolve(sessionID)
		require.NoError(t, err)
		assert.Equal(t, older, got)
	})

	t.Run("most recent by default", func(t *testing.T) {
		got, err := l.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, newer, got)
	})

	t.Run("unknown session id", func(t *testing.T) {
		_, err := l.Resolve("00000000-0000-0000-0000-000000000000")
		assert.True(t, errors.Is(err, ErrSessionNotFound))
	})

	t.Run("neither file nor id", func(t *testing.T) {
		_, err := l.Resolve("missing.jsonl")
		assert.True(t, errors.Is(err, ErrSessionNotFound))
	})
}

func TestLocator_NoSessions(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "notes.txt", []string{"hello"})

	_, err := (&Locator{Dir: dir}).Latest()
	assert.True(t, errors.Is(err, ErrNoSessions))

	_, err = (&Locator{Dir: filepath.Join(dir, "absent")}).Latest()
	assert.True(t, errors.Is(err, ErrNoSessions), "missing project dir: %v", err)
}
