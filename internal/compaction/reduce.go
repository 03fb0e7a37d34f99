package compaction

import (
	"cczip/internal/logging"
	"cczip/internal/transcript"
)

// Reduce turns the raw checkpoint series into a non-decreasing one.
//
// Cumulative counters drop when the client resets its cache. Scanning from
// the end, each drop at i is resolved by finding the nearest earlier
// checkpoint a with fewer tokens than i and discarding everything strictly
// between a and i; the scan then resumes at a. When no such a exists every
// checkpoint before i is discarded. Zero-token checkpoints are ignored.
//
// The scan visits each index at most twice. Reducing the output again
// returns it unchanged.
func Reduce(checkpoints []transcript.Checkpoint) []Reconciled {
	points := make([]transcript.Checkpoint, 0, len(checkpoints))
	for _, c := range checkpoints {
		if c.Tokens > 0 {
			points = append(points, c)
		}
	}

	drop := make([]bool, len(points))
	resets := 0
	for i := len(points) - 1; i > 0; {
		if points[i].Tokens >= points[i-1].Tokens {
			i--
			continue
		}

		resets++
		a := i - 1
		for a >= 0 && points[a].Tokens >= points[i].Tokens {
			a--
		}
		for k := a + 1; k < i; k++ {
			drop[k] = true
		}
		if a < 0 {
			break
		}
		i = a
	}

	out := make([]Reconciled, 0, len(points))
	prev := 0
	for i, p := range points {
		if drop[i] {
			continue
		}
		out = append(out, Reconciled{Line: p.Line, Tokens: p.Tokens, Diff: p.Tokens - prev})
		prev = p.Tokens
	}

	if resets > 0 {
		logging.ContextDebug("Reduce: %d resets, %d/%d checkpoints kept", resets, len(out), len(points))
	}
	return out
}

// Total is the running token count at the end of the series, which equals
// the sum of all diffs.
func Total(series []Reconciled) int {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1].Tokens
}
