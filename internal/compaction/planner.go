package compaction

import (
	"time"

	"cczip/internal/logging"
	"cczip/internal/transcript"
)

// Plan is a complete compaction computed in memory. Preview and apply both
// come from the same Plan, so their numbers always agree.
type Plan struct {
	Series     transcript.Series
	Reconciled []Reconciled
	Spans      []Span

	CurrentTotal int
	Target       int
	// NoOp is set when the session is already at or under the target. The
	// rewrite is skipped and Result.Lines is the input unchanged.
	NoOp bool

	Selection Selection
	Result    Result
}

// Reduction is how many tokens the plan takes off.
func (p *Plan) Reduction() int {
	return p.CurrentTotal - p.Selection.FinalTokens
}

// ReductionPercent is Reduction as a share of CurrentTotal.
func (p *Plan) ReductionPercent() float64 {
	if p.CurrentTotal == 0 {
		return 0
	}
	return float64(p.Reduction()) / float64(p.CurrentTotal) * 100
}

// Planner runs the compaction pipeline.
type Planner struct {
	opts   Options
	scorer *Scorer
}

// NewPlanner creates a planner with the given options.
func NewPlanner(opts Options) *Planner {
	return &Planner{opts: opts, scorer: NewScorer(opts)}
}

// Options returns the planner's options.
func (p *Planner) Options() Options {
	return p.opts
}

// Plan computes the compaction of lines down to target tokens.
func (p *Planner) Plan(lines []string, target int) *Plan {
	timer := logging.StartTimer(logging.CategoryContext, "Plan")
	defer timer.StopWithThreshold(2 * time.Second)

	plan := &Plan{Target: target}
	plan.Series = transcript.Extract(lines)
	plan.Reconciled = Reduce(plan.Series.Checkpoints)
	plan.Spans = BuildSpans(plan.Reconciled)
	plan.CurrentTotal = Total(plan.Reconciled)

	logging.Context("Plan: %d lines, %d checkpoints (%d reconciled), %d spans, total=%d target=%d",
		len(lines), len(plan.Series.Checkpoints), len(plan.Reconciled), len(plan.Spans),
		plan.CurrentTotal, target)

	if plan.CurrentTotal <= target {
		plan.NoOp = true
		plan.Selection = Selection{
			Kept:        plan.Spans,
			FinalTokens: plan.CurrentTotal,
			Reached:     true,
		}
		plan.Result = Result{
			Lines:         lines,
			OriginalLines: len(lines),
			RetainedLines: len(lines),
		}
		return plan
	}

	p.scorer.Score(plan.Spans, plan.Series.Contents, p.opts)
	plan.Selection = Select(plan.Spans, target, plan.CurrentTotal, p.opts)
	plan.Result = Rewrite(lines, plan.Selection.Kept, plan.Selection.Removed)

	if !plan.Selection.Reached {
		logging.ContextWarn("Plan: target %d not reachable, best effort leaves %d tokens",
			target, plan.Selection.FinalTokens)
	}
	return plan
}
