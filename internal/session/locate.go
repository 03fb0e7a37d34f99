// Package session finds Claude Code session transcripts on disk and handles
// everything that touches them as files: reading, atomic rewrites, backups,
// listing and change notification.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cczip/internal/logging"

	"github.com/google/uuid"
)

var (
	// ErrNoSessions is returned when a project directory holds no transcripts.
	ErrNoSessions = errors.New("no session files found")
	// ErrSessionNotFound is returned for a session id without a transcript.
	ErrSessionNotFound = errors.New("session not found")
)

// Ext is the transcript file extension.
const Ext = ".jsonl"

// ProjectDirName maps a working directory to the folder name Claude Code
// uses for it under the projects root: every path separator becomes '-'.
func ProjectDirName(cwd string) string {
	return strings.ReplaceAll(filepath.ToSlash(cwd), "/", "-")
}

// Locator resolves session arguments inside one project directory.
type Locator struct {
	Dir string
}

// NewLocator returns a locator for the project that cwd belongs to.
func NewLocator(projectsRoot, cwd string) *Locator {
	return &Locator{Dir: filepath.Join(projectsRoot, ProjectDirName(cwd))}
}

// IsSessionID reports whether arg has the shape of a session id.
func IsSessionID(arg string) bool {
	if len(arg) != 36 {
		return false
	}
	_, err := uuid.Parse(arg)
	return err == nil
}

// Resolve turns a CLI argument into a transcript path.
// An existing file path wins, then a session id in the project directory,
// and an empty argument selects the most recently modified transcript.
func (l *Locator) Resolve(arg string) (string, error) {
	if arg != "" {
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			logging.SessionDebug("Resolve: using file %s", arg)
			return arg, nil
		}
		if !IsSessionID(arg) {
			return "", fmt.Errorf("%w: %s is neither a file nor a session id", ErrSessionNotFound, arg)
		}
		path := filepath.Join(l.Dir, arg+Ext)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", ErrSessionNotFound, arg)
		}
		logging.SessionDebug("Resolve: session %s -> %s", arg, path)
		return path, nil
	}
	return l.Latest()
}

// Latest returns the most recently modified transcript in the project dir.
func (l *Locator) Latest() (string, error) {
	files, err := l.Files()
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoSessions, l.Dir)
	}
	logging.Session("Found %d session files, using most recent: %s", len(files), filepath.Base(files[0].Path))
	return files[0].Path, nil
}

// File is a transcript with its modification time.
type File struct {
	Path    string
	ID      string
	ModTime int64 // unix nanoseconds
}

// Files lists the project's transcripts, newest first.
func (l *Locator) Files() ([]File, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("project directory not found: %s: %w", l.Dir, ErrNoSessions)
		}
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Path:    filepath.Join(l.Dir, e.Name()),
			ID:      strings.TrimSuffix(e.Name(), Ext),
			ModTime: info.ModTime().UnixNano(),
		})
	}
	sortNewestFirst(files)
	return files, nil
}
