package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cczip/cmd/cczip/ui"
	"cczip/internal/logging"
	"cczip/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runWatch reports usage until interrupted.
func runWatch(cmd *cobra.Command, args []string) error {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	path, err := resolveSession(arg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchSession(ctx, cmd.OutOrStdout(), path)
}

// watchSession prints one usage line now and one after every debounced
// change to path, until ctx is cancelled.
func watchSession(ctx context.Context, out io.Writer, path string) error {
	r := &usageReporter{
		out:    out,
		styles: ui.DefaultStyles(),
		limit:  cfg.CtxLimit,
		warn:   cfg.Watch.WarnPercent,
	}

	w, err := session.NewWatcher(path, cfg.GetWatchDebounce(), r.report)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", path)
	r.report(ctx, path)

	<-ctx.Done()
	w.Stop()

	stats := w.Stats()
	logger.Debug("watch stopped",
		zap.String("path", path),
		zap.Int("events", stats.Events),
		zap.Int("changes", stats.Changes),
		zap.Int("errors", stats.Errors))
	return nil
}

// usageReporter prints usage lines and warns once each time usage rises
// past the warning threshold.
type usageReporter struct {
	out    io.Writer
	styles ui.Styles
	limit  int
	warn   int

	mu     sync.Mutex
	warned bool
}

func (r *usageReporter) report(ctx context.Context, path string) {
	u, err := session.MeasureUsage(ctx, path, r.limit)
	if err != nil {
		if ctx.Err() == nil {
			logging.SessionWarn("watch: failed to measure %s: %v", path, err)
		}
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pct := ui.GaugePercent(u.Tokens, u.Limit)
	fmt.Fprintf(r.out, "%s %s/%s tokens (%s) across %d turns\n",
		r.styles.Muted.Render(time.Now().Format("15:04:05")),
		comma(u.Tokens), comma(u.Limit),
		r.styles.UsageStyle(u.Percent).Render(fmt.Sprintf("%d%%", pct)),
		u.Turns)

	over := r.warn > 0 && u.Percent >= float64(r.warn)
	if over && !r.warned {
		fmt.Fprintf(r.out, "%s Context usage is above %d%%. Run cczip to compact this session.\n",
			r.styles.Tag(r.styles.Warning, "WARNING"), r.warn)
	}
	r.warned = over
}
