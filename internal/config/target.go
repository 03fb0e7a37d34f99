package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidTarget is returned for targets that are neither a percentage in
// (0, 100) nor a non-negative token count.
var ErrInvalidTarget = errors.New("invalid target")

// Target is the resolved token budget for one compaction run.
type Target struct {
	Tokens          int
	CompressPercent float64 // 0 for absolute targets
	Absolute        bool
	Default         bool
}

// KeepPercent is the share of the context limit the target keeps.
func (t Target) KeepPercent(ctxLimit int) float64 {
	if !t.Absolute {
		return 100 - t.CompressPercent
	}
	if ctxLimit <= 0 {
		return 0
	}
	return float64(t.Tokens) / float64(ctxLimit) * 100
}

// IsTargetArg reports whether a positional argument looks like a target
// ("40%" or "120000") rather than a file path or session id.
func IsTargetArg(arg string) bool {
	if strings.HasSuffix(arg, "%") {
		return true
	}
	_, err := strconv.Atoi(arg)
	return err == nil
}

// ParseTarget converts a CLI target into a token budget.
// "40%" means compress BY 40%, keeping 60% of ctxLimit. A bare integer is an
// absolute token count. An empty arg yields the default percentage.
func ParseTarget(arg string, ctxLimit int, defaultPercent float64) (Target, error) {
	if arg == "" {
		return Target{
			Tokens:          percentTarget(ctxLimit, defaultPercent),
			CompressPercent: defaultPercent,
			Default:         true,
		}, nil
	}

	if pct, ok := strings.CutSuffix(arg, "%"); ok {
		p, err := strconv.ParseFloat(pct, 64)
		if err != nil || math.IsNaN(p) || p <= 0 || p >= 100 {
			return Target{}, fmt.Errorf("%w: %q (percentage must be between 0 and 100 exclusive)", ErrInvalidTarget, arg)
		}
		return Target{Tokens: percentTarget(ctxLimit, p), CompressPercent: p}, nil
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return Target{}, fmt.Errorf("%w: %q (expected NN%% or a token count)", ErrInvalidTarget, arg)
	}
	return Target{Tokens: n, Absolute: true}, nil
}

func percentTarget(ctxLimit int, compressPercent float64) int {
	return int(math.Floor(float64(ctxLimit) * (100 - compressPercent) / 100))
}
