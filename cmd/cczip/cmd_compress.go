package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"cczip/cmd/cczip/ui"
	"cczip/internal/compaction"
	"cczip/internal/config"
	"cczip/internal/session"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// splitArgs separates the optional session argument from the optional
// target. A lone argument is a target when it looks like one.
func splitArgs(args []string) (sessionArg, targetArg string) {
	switch len(args) {
	case 0:
		return "", ""
	case 1:
		if config.IsTargetArg(args[0]) {
			return "", args[0]
		}
		return args[0], ""
	default:
		return args[0], args[1]
	}
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}

// runCompress plans a compaction and, unless --preview is set, backs up and
// rewrites the session.
func runCompress(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sessionArg, targetArg := splitArgs(args)
	target, err := config.ParseTarget(targetArg, cfg.CtxLimit, cfg.Compaction.DefaultCompressPercent)
	if err != nil {
		return err
	}

	path, err := resolveSession(sessionArg)
	if err != nil {
		return err
	}

	lines, err := session.ReadLines(ctx, path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := ui.DefaultStyles()

	planner := compaction.NewPlanner(compaction.OptionsFromConfig(cfg.Compaction))
	plan := planner.Plan(lines, target.Tokens)

	fmt.Fprintf(out, "File: %s\n", path)
	fmt.Fprintf(out, "Current: %s tokens\n", comma(plan.CurrentTotal))
	fmt.Fprintf(out, "Target: %s tokens (keep %.1f%% of %s)\n\n",
		comma(target.Tokens), target.KeepPercent(cfg.CtxLimit), comma(cfg.CtxLimit))

	if plan.NoOp {
		fmt.Fprintf(out, "%s File already within target size. No optimization needed.\n",
			styles.Tag(styles.Info, "INFO"))
		logger.Debug("session within target",
			zap.String("path", path),
			zap.Int("tokens", plan.CurrentTotal),
			zap.Int("target", target.Tokens))
		return nil
	}

	if preview {
		printPreview(out, styles, plan)
		return nil
	}

	backup, err := session.Backup(path, cfg.Backup.MaxBackups)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Created: %s\n\n", styles.Tag(styles.Info, "BACKUP"), filepath.Base(backup))

	if err := session.WriteAtomic(path, plan.Result.Lines); err != nil {
		return fmt.Errorf("failed to write compacted session (backup kept at %s): %w", backup, err)
	}

	logger.Info("session compacted",
		zap.String("path", path),
		zap.Int("original_tokens", plan.CurrentTotal),
		zap.Int("final_tokens", plan.Selection.FinalTokens),
		zap.Int("removed_spans", len(plan.Selection.Removed)),
		zap.Int("removed_lines", plan.Result.RemovedLines))

	printResults(out, styles, plan)
	return nil
}

func printPreview(out io.Writer, styles ui.Styles, plan *compaction.Plan) {
	fmt.Fprintf(out, "%s Optimization Plan:\n", styles.Tag(styles.Title, "PREVIEW"))
	fmt.Fprintf(out, "  Original: %s tokens\n", comma(plan.CurrentTotal))
	fmt.Fprintf(out, "  Target: %s tokens\n", comma(plan.Target))
	fmt.Fprintf(out, "  Final (projected): %s tokens\n", comma(plan.Selection.FinalTokens))
	fmt.Fprintf(out, "  Reduction: %s tokens (%.1f%%)\n\n", comma(plan.Reduction()), plan.ReductionPercent())

	printSpans(out, styles, styles.Tag(styles.Error, "REMOVE"), styles.Tag(styles.Success, "KEEP"), plan)

	fmt.Fprintf(out, "Lines to be removed: %s\n", comma(plan.Result.RemovedLines))
	fmt.Fprintf(out, "Lines to be kept: %s\n\n", comma(plan.Result.RetainedLines))

	printShortfall(out, styles, plan)
	fmt.Fprintf(out, "%s Preview mode - no changes made\n", styles.Tag(styles.Warning, "WARNING"))
}

func printResults(out io.Writer, styles ui.Styles, plan *compaction.Plan) {
	fmt.Fprintf(out, "%s Optimization Results:\n", styles.Tag(styles.Success, "COMPLETE"))
	fmt.Fprintf(out, "  Original: %s tokens\n", comma(plan.CurrentTotal))
	fmt.Fprintf(out, "  Final: %s tokens\n", comma(plan.Selection.FinalTokens))
	fmt.Fprintf(out, "  Reduction: %s tokens (%.1f%%)\n\n", comma(plan.Reduction()), plan.ReductionPercent())

	printSpans(out, styles, styles.Tag(styles.Error, "REMOVED"), styles.Tag(styles.Success, "KEPT"), plan)

	fmt.Fprintf(out, "Lines removed: %s\n", comma(plan.Result.RemovedLines))
	fmt.Fprintf(out, "Lines kept: %s\n\n", comma(plan.Result.RetainedLines))

	printShortfall(out, styles, plan)
	fmt.Fprintf(out, "%s Optimization complete\n", styles.Tag(styles.Success, "DONE"))
}

func printSpans(out io.Writer, styles ui.Styles, removedTag, keptTag string, plan *compaction.Plan) {
	removed := plan.Selection.Removed
	fmt.Fprintf(out, "%s %d ranges:\n", removedTag, len(removed))
	for i, s := range removed {
		fmt.Fprintf(out, "  %d. Lines %d-%d: %s tokens %s\n",
			i+1, s.StartLine, s.EndLine, comma(s.Savings),
			styles.Muted.Render(fmt.Sprintf("(relevancy: %.1f%%)", s.Relevance*100)))
	}
	fmt.Fprintf(out, "%s %d ranges\n\n", keptTag, len(plan.Selection.Kept))
}

// printShortfall explains a best-effort result.
func printShortfall(out io.Writer, styles ui.Styles, plan *compaction.Plan) {
	if plan.Selection.Reached {
		return
	}
	fmt.Fprintf(out, "%s Target not reached: every removable range is already selected (%s tokens over)\n",
		styles.Tag(styles.Warning, "WARNING"), comma(plan.Selection.FinalTokens-plan.Target))
}
