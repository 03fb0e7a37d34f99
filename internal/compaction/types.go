// Package compaction shrinks a session transcript to a token budget by
// deleting whole spans of turns.
//
// The pipeline is Reduce → BuildSpans → Scorer.Score → Select → Rewrite.
// Every stage is a pure function over in-memory data; the Planner runs them
// in order and callers decide whether to write the result.
package compaction

import (
	"cczip/internal/config"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// Reconciled is a checkpoint that survived Reduce.
// Diff is the token growth since the previous surviving checkpoint; the first
// element's Diff is its own Tokens.
type Reconciled struct {
	Line   int
	Tokens int
	Diff   int
}

// Span is the removable region between two adjacent reconciled checkpoints:
// everything after the first checkpoint's user turn up to and including the
// next one's. Savings is what deleting it takes off the running total.
type Span struct {
	StartLine int
	EndLine   int
	Savings   int
	Relevance float64 // Jaccard overlap with the most recent turns, 0..1
	Index     int     // position among all spans, ascending
}

// Options control span protection and relevance scoring.
type Options struct {
	ProtectStart  int // leading spans never removed
	ProtectEnd    int // trailing spans never removed
	RecentWindow  int // user turns compared against for relevance
	MinWordLength int // shorter words are ignored by the scorer
}

// DefaultOptions returns the stock protection and scoring settings.
func DefaultOptions() Options {
	return Options{
		ProtectStart:  2,
		ProtectEnd:    3,
		RecentWindow:  3,
		MinWordLength: 4,
	}
}

// OptionsFromConfig maps the compaction section of the config file.
func OptionsFromConfig(cfg config.CompactionConfig) Options {
	return Options{
		ProtectStart:  cfg.ProtectStart,
		ProtectEnd:    cfg.ProtectEnd,
		RecentWindow:  cfg.RecentWindow,
		MinWordLength: cfg.MinWordLength,
	}
}

// protectedBounds returns the half-open index range [lo, hi) of spans that
// may be removed out of n.
func (o Options) protectedBounds(n int) (lo, hi int) {
	lo = min(max(o.ProtectStart, 0), n)
	hi = max(lo, n-min(max(o.ProtectEnd, 0), n))
	return lo, hi
}
