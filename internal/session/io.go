package session

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cczip/internal/logging"
)

// Single records can embed whole files or images, so lines get large.
const (
	initialLineBuffer = 1 << 20
	maxLineSize       = 256 << 20
)

// ReadLines reads a transcript into memory, one entry per line.
// Cancellation is checked between lines.
func ReadLines(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)
	for sc.Scan() {
		if len(lines)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	logging.SessionDebug("ReadLines: %s (%d lines)", filepath.Base(path), len(lines))
	return lines, nil
}

// WriteAtomic replaces path with lines, newline-terminated.
// The data goes to a temp file in the same directory, is fsynced, and is then
// renamed over path, so readers see either the old or the new transcript.
func WriteAtomic(path string, lines []string) (err error) {
	timer := logging.StartTimer(logging.CategoryStore, "WriteAtomic")
	defer timer.Stop()

	dir := filepath.Dir(path)
	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriterSize(tmp, 64*1024)
	for _, line := range lines {
		if _, err = bw.WriteString(line); err != nil {
			return fmt.Errorf("failed to write temp file: %w", err)
		}
		if err = bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write temp file: %w", err)
		}
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush temp file: %w", err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	logging.StoreDebug("WriteAtomic: %s (%d lines)", filepath.Base(path), len(lines))
	return nil
}

func sortNewestFirst(files []File) {
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModTime != files[j].ModTime {
			return files[i].ModTime > files[j].ModTime
		}
		return files[i].Path < files[j].Path
	})
}
