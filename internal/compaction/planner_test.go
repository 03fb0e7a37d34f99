package compaction

import (
	"fmt"
	"testing"

	"cczip/internal/testing/sessionsim"
	"cczip/internal/transcript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// longSession has one turn per topic, each adding 10000 tokens, with a tool
// round-trip inside every turn.
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

func TestPlanner_NoOpUnderTarget(t *testing.T) {
	lines := longSession().Lines()
	input := append([]string(nil), lines...)

	plan := NewPlanner(DefaultOptions()).Plan(lines, 150000)

	assert.True(t, plan.NoOp)
	assert.Equal(t, 120000, plan.CurrentTotal)
	assert.Equal(t, input, plan.Result.Lines, "no-op result is byte-identical")
	assert.Empty(t, plan.Selection.Removed)
	assert.Zero(t, plan.Reduction())
}

func TestPlanner_CompactsToTarget(t *testing.T) {
	lines := longSession().Lines()
	input := append([]string(nil), lines...)

	plan := NewPlanner(DefaultOptions()).Plan(lines, 80000)

	require.False(t, plan.NoOp)
	assert.Equal(t, input, lines, "input is not mutated")
	assert.Equal(t, 120000, plan.CurrentTotal)
	assert.Len(t, plan.Spans, 11)
	assert.True(t, plan.Selection.Reached)
	assert.GreaterOrEqual(t, plan.Reduction(), 40000)
	assert.Equal(t, plan.CurrentTotal-Savings(plan.Selection.Removed), plan.Selection.FinalTokens)

	for _, r := range plan.Selection.Removed {
		assert.GreaterOrEqual(t, r.Index, 2)
		assert.Less(t, r.Index, 11-3)
	}
	// Spans about the caching layer overlap the recent turns and survive.
	for _, r := range plan.Selection.Removed {
		assert.Zero(t, r.Relevance, "removed span %d had relevance %.2f", r.Index, r.Relevance)
	}

	res := plan.Result
	assert.Less(t, res.RetainedLines, res.OriginalLines)
	assert.Equal(t, res.OriginalLines-res.RetainedLines, res.RemovedLines)
	assertChain(t, res.Lines)

	// Re-reading the compacted log reports the planned total.
	again := transcript.Extract(res.Lines)
	assert.Equal(t, plan.Selection.FinalTokens, Total(Reduce(again.Checkpoints)))
}

func TestPlanner_Deterministic(t *testing.T) {
	lines := longSession().Lines()
	p := NewPlanner(DefaultOptions())

	first := p.Plan(lines, 50000)
	second := p.Plan(lines, 50000)

	assert.Equal(t, first.Selection, second.Selection)
	assert.Equal(t, first.Result.Lines, second.Result.Lines)
}

func TestPlanner_BestEffort(t *testing.T) {
	lines := longSession().Lines()
	opts := DefaultOptions()
	opts.ProtectStart, opts.ProtectEnd = 4, 6

	plan := NewPlanner(opts).Plan(lines, 0)

	assert.False(t, plan.Selection.Reached)
	assert.Len(t, plan.Selection.Removed, 1, "only span 4 is eligible")
	assert.Greater(t, plan.Selection.FinalTokens, 0)
	assert.InDelta(t, float64(plan.Reduction())/1200, plan.ReductionPercent(), 1e-9)
}

func TestPlanner_EmptyLog(t *testing.T) {
	plan := NewPlanner(DefaultOptions()).Plan(nil, 0)
	assert.True(t, plan.NoOp)
	assert.Zero(t, plan.CurrentTotal)
	assert.Zero(t, plan.ReductionPercent())
}
