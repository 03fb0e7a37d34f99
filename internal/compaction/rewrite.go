package compaction

import (
	"sort"

	"cczip/internal/logging"
	"cczip/internal/transcript"

	"github.com/tidwall/sjson"
)

// Result is the rewritten transcript plus line accounting.
type Result struct {
	Lines         []string
	OriginalLines int
	RetainedLines int
	RemovedLines  int

	AdjustedCounters int // entries whose cache_read counter was lowered
	Relinked         int // entries whose parentUuid was rewritten
}

// Rewrite drops the removed spans from lines and patches what survives.
//
// For each removed span, lines StartLine..EndLine-1 go away. EndLine (the
// next user turn) and EndLine+1 (the reply carrying its counters) stay as the
// point the session resumes from. Lines inside kept spans, the reply after a
// kept span's last turn, and lines outside every span are always retained.
//
// Every retained entry after a removed span has that span's savings taken off
// its cache_read_input_tokens, floored at zero. Then parentUuid links are
// rewritten so each entry points at the previous retained entry that has a
// uuid. Root entries (null parentUuid) and lines that are not valid JSON are
// left as they are. Lines without edits are returned byte-identical.
func Rewrite(lines []string, kept, removed []Span) Result {
	n := len(lines)
	drop := make([]bool, n+2) // 1-based, with room for EndLine+1
	for _, r := range removed {
		for i := max(r.StartLine, 1); i < r.EndLine && i <= n; i++ {
			drop[i] = true
		}
	}
	for _, r := range removed {
		drop[min(r.EndLine, n+1)] = false
		drop[min(r.EndLine+1, n+1)] = false
	}
	for _, k := range kept {
		for i := max(k.StartLine, 1); i <= k.EndLine && i <= n; i++ {
			drop[i] = false
		}
		drop[min(k.EndLine+1, n+1)] = false
	}

	// Cumulative savings of removed spans ending before each line.
	byEnd := append([]Span(nil), removed...)
	sort.Slice(byEnd, func(i, j int) bool { return byEnd[i].EndLine < byEnd[j].EndLine })

	res := Result{OriginalLines: n, Lines: make([]string, 0, n)}
	prevUUID := ""
	cut, next := 0, 0
	for i, raw := range lines {
		line := i + 1
		for next < len(byEnd) && byEnd[next].EndLine < line {
			cut += byEnd[next].Savings
			next++
		}
		if drop[line] {
			continue
		}

		e := transcript.Parse(raw)
		if !e.Valid {
			res.Lines = append(res.Lines, raw)
			continue
		}

		out := raw
		if cut > 0 && e.HasCacheRead && e.Usage.CacheReadInputTokens != 0 {
			out, _ = sjson.Set(out, transcript.PathCacheRead, max(e.Usage.CacheReadInputTokens-cut, 0))
			res.AdjustedCounters++
		}

		if e.UUID != "" {
			if prevUUID != "" && e.HasParent && e.ParentUUID != "" && e.ParentUUID != prevUUID {
				out, _ = sjson.Set(out, transcript.PathParentUUID, prevUUID)
				res.Relinked++
			}
			prevUUID = e.UUID
		}

		res.Lines = append(res.Lines, out)
	}

	res.RetainedLines = len(res.Lines)
	res.RemovedLines = n - res.RetainedLines
	logging.ContextDebug("Rewrite: %d -> %d lines, %d counters adjusted, %d links repaired",
		n, res.RetainedLines, res.AdjustedCounters, res.Relinked)
	return res
}
