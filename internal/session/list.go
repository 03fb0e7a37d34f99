package session

import (
	"context"
	"fmt"
	"time"

	"cczip/internal/logging"
	"cczip/internal/transcript"

	"golang.org/x/sync/errgroup"
)

// listConcurrency bounds how many transcripts are read at once.
const listConcurrency = 8

// Info summarizes one transcript for `cczip list`.
type Info struct {
	ID       string
	Path     string
	Tokens   int // last cache_read_input_tokens in the file
	Messages int // user records, tool results included
	Percent  float64
	Modified time.Time
}

// List reads every transcript in the project directory and returns their
// summaries, newest first.
func (l *Locator) List(ctx context.Context, ctxLimit int) ([]Info, error) {
	timer := logging.StartTimer(logging.CategorySession, "List")
	defer timer.Stop()

	files, err := l.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSessions, l.Dir)
	}

	infos := make([]Info, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, f := range files {
		g.Go(func() error {
			lines, err := ReadLines(gctx, f.Path)
			if err != nil {
				return fmt.Errorf("%s: %w", f.ID, err)
			}
			s := transcript.Extract(lines)
			infos[i] = Info{
				ID:       f.ID,
				Path:     f.Path,
				Tokens:   s.LastCacheRead,
				Messages: s.UserRecords,
				Percent:  UsagePercent(s.LastCacheRead, ctxLimit),
				Modified: time.Unix(0, f.ModTime),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	logging.SessionDebug("List: %d sessions in %s", len(infos), l.Dir)
	return infos, nil
}

// UsagePercent is tokens as a share of ctxLimit.
func UsagePercent(tokens, ctxLimit int) float64 {
	if ctxLimit <= 0 {
		return 0
	}
	return float64(tokens) / float64(ctxLimit) * 100
}
