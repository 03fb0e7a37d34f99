package compaction

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spansWithSavings(savings ...int) []Span {
	spans := make([]Span, len(savings))
	line := 1
	for i, s := range savings {
		spans[i] = Span{StartLine: line + 1, EndLine: line + 4, Savings: s, Index: i}
		line += 4
	}
	return spans
}

func indexes(spans []Span) []int {
	out := make([]int, len(spans))
	for i, s := range spans {
		out[i] = s.Index
	}
	return out
}

func TestSelect_GreedyUntilTarget(t *testing.T) {
	spans := spansWithSavings(9000, 9000, 5000, 20000, 15000, 10000, 8000, 9000, 9000, 6000)
	opts := Options{ProtectStart: 2, ProtectEnd: 3}

	sel := Select(spans, 60000, 100000, opts)

	assert.Equal(t, []int{3, 4, 5}, indexes(sel.Removed))
	assert.Equal(t, []int{0, 1, 2, 6, 7, 8, 9}, indexes(sel.Kept))
	assert.Equal(t, 45000, sel.TotalSavings)
	assert.Equal(t, 55000, sel.FinalTokens)
	assert.True(t, sel.Reached)
}

func TestSelect_InsufficientSavings(t *testing.T) {
	spans := spansWithSavings(9000, 9000, 5000, 10000, 0, 10000, 5000, 9000, 9000, 6000)
	opts := Options{ProtectStart: 2, ProtectEnd: 3}

	sel := Select(spans, 60000, 100000, opts)

	assert.Equal(t, []int{2, 3, 5, 6}, indexes(sel.Removed), "every positive unprotected span goes")
	assert.Equal(t, 30000, sel.TotalSavings)
	assert.Equal(t, 70000, sel.FinalTokens)
	assert.False(t, sel.Reached)
}

func TestSelect_ScoreOrdering(t *testing.T) {
	spans := []Span{
		{StartLine: 2, EndLine: 5, Savings: 1000, Relevance: 0.2, Index: 0},
		{StartLine: 6, EndLine: 9, Savings: 5000, Relevance: 0.2, Index: 1},
	}

	assert.InDelta(t, 0.1, candidateScore(spans[0], 10000), 1e-9)
	assert.InDelta(t, -0.3, candidateScore(spans[1], 10000), 1e-9)

	sel := Select(spans, 9000, 10000, Options{})
	require.Len(t, sel.Removed, 1)
	assert.Equal(t, 1, sel.Removed[0].Index, "larger savings sorts first")
	assert.Equal(t, 5000, sel.FinalTokens)
}

func TestSelect_RelevanceKeepsSpan(t *testing.T) {
	spans := []Span{
		{Savings: 3000, Relevance: 0.9, Index: 0},
		{Savings: 2000, Relevance: 0.0, Index: 1},
	}
	sel := Select(spans, 8000, 10000, Options{})
	assert.Equal(t, []int{1}, indexes(sel.Removed))
}

func TestSelect_AlreadyUnderTarget(t *testing.T) {
	spans := spansWithSavings(100, 200, 300)
	sel := Select(spans, 1000, 600, Options{})
	assert.Empty(t, sel.Removed)
	assert.Len(t, sel.Kept, 3)
	assert.Equal(t, 600, sel.FinalTokens)
	assert.True(t, sel.Reached)
}

func TestSelect_ProtectionLargerThanSpans(t *testing.T) {
	spans := spansWithSavings(100, 200, 300)
	sel := Select(spans, 0, 600, Options{ProtectStart: 2, ProtectEnd: 3})
	assert.Empty(t, sel.Removed)
	assert.Equal(t, 600, sel.FinalTokens)
}

// TestSelect_Properties checks protection and positive savings on random inputs.
func TestSelect_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 300; iter++ {
		n := rng.Intn(25)
		savings := make([]int, n)
		total := 0
		for i := range savings {
			savings[i] = rng.Intn(6000) - 500
			if savings[i] > 0 {
				total += savings[i]
			}
		}
		spans := spansWithSavings(savings...)
		for i := range spans {
			spans[i].Relevance = rng.Float64()
		}
		opts := Options{ProtectStart: rng.Intn(4), ProtectEnd: rng.Intn(5)}
		current := total + 1000
		target := rng.Intn(current)

		sel := Select(spans, target, current, opts)

		assert.Equal(t, n, len(sel.Kept)+len(sel.Removed), "iter %d", iter)
		for _, r := range sel.Removed {
			if r.Index < opts.ProtectStart || r.Index >= n-opts.ProtectEnd {
				t.Fatalf("iter %d: protected span %d removed (opts %+v, n=%d)", iter, r.Index, opts, n)
			}
			if r.Savings <= 0 {
				t.Fatalf("iter %d: span %d with savings %d removed", iter, r.Index, r.Savings)
			}
		}
		for i := 1; i < len(sel.Removed); i++ {
			if sel.Removed[i-1].StartLine >= sel.Removed[i].StartLine {
				t.Fatalf("iter %d: removed spans out of order", iter)
			}
		}
		assert.Equal(t, current-Savings(sel.Removed), sel.FinalTokens, "iter %d", iter)
	}
}
