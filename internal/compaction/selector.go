package compaction

import (
	"sort"

	"cczip/internal/logging"
)

// Selection is the outcome of Select.
type Selection struct {
	Kept         []Span // ascending line order
	Removed      []Span // ascending line order
	TotalSavings int
	FinalTokens  int
	// Reached is false when every candidate was removed and FinalTokens is
	// still above the target.
	Reached bool
}

// candidateScore ranks a span for removal; lower goes first.
// Large savings pull the score down regardless of relevance.
func candidateScore(s Span, currentTotal int) float64 {
	return s.Relevance - float64(s.Savings)/float64(currentTotal)
}

// Select greedily removes unprotected spans, least relevant and largest first,
// until the savings cover currentTotal - target or candidates run out.
// Spans with non-positive savings are never removed.
func Select(spans []Span, target, currentTotal int, opts Options) Selection {
	sel := Selection{FinalTokens: currentTotal, Reached: currentTotal <= target}
	if currentTotal <= 0 || sel.Reached {
		sel.Kept = append([]Span(nil), spans...)
		return sel
	}

	lo, hi := opts.protectedBounds(len(spans))
	candidates := make([]Span, 0, hi-lo)
	for _, s := range spans[lo:hi] {
		if s.Savings > 0 {
			candidates = append(candidates, s)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateScore(candidates[i], currentTotal) < candidateScore(candidates[j], currentTotal)
	})

	need := currentTotal - target
	removed := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		if sel.TotalSavings >= need {
			break
		}
		removed[c.Index] = true
		sel.TotalSavings += c.Savings
	}

	for _, s := range spans {
		if removed[s.Index] {
			sel.Removed = append(sel.Removed, s)
		} else {
			sel.Kept = append(sel.Kept, s)
		}
	}
	sel.FinalTokens = currentTotal - sel.TotalSavings
	sel.Reached = sel.FinalTokens <= target

	logging.ContextDebug("Select: %d candidates, removed %d spans saving %d tokens (need %d)",
		len(candidates), len(sel.Removed), sel.TotalSavings, need)
	return sel
}
