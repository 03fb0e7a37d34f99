package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	gaugeRows = 5
	gaugeCols = 10
	// Each block stands for this many percent of the limit.
	gaugeStep = 100 / (gaugeRows * gaugeCols)

	blockFull  = "⛁"
	blockEmpty = "⛶"
)

// GaugePercent rounds tokens/limit to a whole percent.
func GaugePercent(tokens, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Round(float64(tokens) / float64(limit) * 100))
}

// Gauge renders usage as a 5x10 grid of blocks, each worth 2% of limit,
// with the label beside the second row and the counts beside the third.
func Gauge(s Styles, tokens, limit int, label string) string {
	pct := GaugePercent(tokens, limit)

	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < gaugeRows; row++ {
		sb.WriteString("  ")
		for col := 0; col < gaugeCols; col++ {
			idx := row*gaugeCols + col
			if (idx+1)*gaugeStep <= pct {
				sb.WriteString(s.GaugeFull.Render(blockFull))
			} else {
				sb.WriteString(s.GaugeEmpty.Render(blockEmpty))
			}
			sb.WriteString(" ")
		}

		switch row {
		case 1:
			sb.WriteString("  " + s.Bold.Render(label))
		case 2:
			sb.WriteString(fmt.Sprintf("  %s/%s tokens (%d%%)",
				humanize.Comma(int64(tokens)), humanize.Comma(int64(limit)), pct))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
