package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"cczip/internal/config"
	"cczip/internal/logging"
	"cczip/internal/session"
	"cczip/internal/testing/sessionsim"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zaptest"
)

var topics = []string{
	"setup the repository layout",
	"configure logging output format",
	"write database migration scripts",
	"debug flaky network timeouts",
	"review database migration rollback",
	"design caching layer eviction",
	"profile memory usage spikes",
	"document deployment process steps",
	"tune caching layer sizes",
	"investigate caching layer misses",
	"caching layer benchmark results",
	"finalize caching layer rollout",
}

// longSession grows by 10000 tokens per topic, 120000 in total.
func longSession() *sessionsim.Builder {
	b := sessionsim.New()
	for i, topic := range topics {
		tokens := (i + 1) * 10000
		b.User(topic).
			Assistant("working", 0, tokens).
			ToolResult(fmt.Sprintf("step %d output", i)).
			Assistant("done", 0, tokens+50)
	}
	return b
}

// setupRuntime installs default globals with a private projects root.
func setupRuntime(t *testing.T) {
	t.Helper()
	cfg = config.DefaultConfig()
	cfg.ProjectsDir = t.TempDir()
	logger = zaptest.NewLogger(t)
	logging.SetRoot(logger)
	preview = false
	t.Cleanup(func() {
		logging.SetRoot(nil)
		preview = false
	})
}

// projectDir creates the project folder for the test's working directory.
func projectDir(t *testing.T) string {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	dir := filepath.Join(cfg.ProjectsDir, session.ProjectDirName(cwd))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return dir
}

func writeSession(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

// run calls a command function with output captured.
func run(fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	err := fn(cmd, args)
	return buf.String(), err
}

// syncBuffer is written by the watcher goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func appendLines(t *testing.T, path string, lines []string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		t.Fatalf("append %s: %v", path, err)
	}
}
