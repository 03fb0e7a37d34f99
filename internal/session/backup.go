package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"cczip/internal/logging"
)

// ErrNoBackup is returned by Restore when a transcript has no backups.
var ErrNoBackup = errors.New("no backup files found")

const backupInfix = ".backup."

// BackupFile is one timestamped copy of a transcript.
type BackupFile struct {
	Path    string
	Created time.Time
}

// Backup copies path to path.backup.<unix-millis> and, when maxBackups > 0,
// deletes the oldest backups beyond that count.
func Backup(path string, maxBackups int) (string, error) {
	stamp := time.Now().UnixMilli()
	var dst string
	var out *os.File
	for {
		dst = path + backupInfix + strconv.FormatInt(stamp, 10)
		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			out = f
			break
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to create backup: %w", err)
		}
		stamp++ // two backups in the same millisecond
	}

	if err := copyInto(out, path); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to back up %s: %w", filepath.Base(path), err)
	}
	logging.Store("Created backup %s", filepath.Base(dst))

	if maxBackups > 0 {
		if err := prune(path, maxBackups); err != nil {
			logging.StoreWarn("Backup pruning failed: %v", err)
		}
	}
	return dst, nil
}

// Backups lists the backups of path, newest first.
func Backups(path string) ([]BackupFile, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	prefix := base + backupInfix
	var backups []BackupFile
	for _, e := range entries {
		suffix, ok := strings.CutPrefix(e.Name(), prefix)
		if !ok || e.IsDir() {
			continue
		}
		ms, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			continue
		}
		backups = append(backups, BackupFile{
			Path:    filepath.Join(dir, e.Name()),
			Created: time.UnixMilli(ms),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Created.After(backups[j].Created)
	})
	return backups, nil
}

// Restore copies the newest backup over path and returns the backup used.
func Restore(path string) (BackupFile, error) {
	backups, err := Backups(path)
	if err != nil {
		return BackupFile{}, err
	}
	if len(backups) == 0 {
		return BackupFile{}, fmt.Errorf("%w for %s", ErrNoBackup, filepath.Base(path))
	}

	newest := backups[0]
	logging.Store("Found %d backup(s), restoring %s", len(backups), filepath.Base(newest.Path))

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".restore-*")
	if err != nil {
		return BackupFile{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	if info, err := os.Stat(newest.Path); err == nil {
		_ = tmp.Chmod(info.Mode().Perm())
	}
	if err := copyInto(tmp, newest.Path); err != nil {
		_ = os.Remove(tmp.Name())
		return BackupFile{}, fmt.Errorf("failed to copy backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return BackupFile{}, fmt.Errorf("failed to restore %s: %w", path, err)
	}
	return newest, nil
}

func prune(path string, keep int) error {
	backups, err := Backups(path)
	if err != nil {
		return err
	}
	var errs []error
	for _, b := range backups[min(keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		logging.StoreDebug("Pruned backup %s", filepath.Base(b.Path))
	}
	return errors.Join(errs...)
}

// copyInto copies src into out, syncs and closes out.
func copyInto(out *os.File, src string) error {
	in, err := os.Open(src)
	if err != nil {
		_ = out.Close()
		return err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
