package session

import (
	"context"

	"cczip/internal/compaction"
	"cczip/internal/transcript"
)

// Usage is the reconciled context consumption of a transcript.
type Usage struct {
	Tokens  int
	Turns   int // reconciled checkpoints
	Limit   int
	Percent float64
}

// MeasureUsage reads path and reports its reconciled token total against
// ctxLimit.
func MeasureUsage(ctx context.Context, path string, ctxLimit int) (Usage, error) {
	lines, err := ReadLines(ctx, path)
	if err != nil {
		return Usage{}, err
	}
	series := compaction.Reduce(transcript.Extract(lines).Checkpoints)
	tokens := compaction.Total(series)
	return Usage{
		Tokens:  tokens,
		Turns:   len(series),
		Limit:   ctxLimit,
		Percent: UsagePercent(tokens, ctxLimit),
	}, nil
}
