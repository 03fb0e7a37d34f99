package compaction

// BuildSpans returns one span per adjacent pair of reconciled checkpoints.
// There is no span after the last checkpoint: the session resumes there.
func BuildSpans(series []Reconciled) []Span {
	if len(series) < 2 {
		return nil
	}
	spans := make([]Span, 0, len(series)-1)
	for i := 0; i+1 < len(series); i++ {
		spans = append(spans, Span{
			StartLine: series[i].Line + 1,
			EndLine:   series[i+1].Line,
			Savings:   series[i+1].Tokens - series[i].Tokens,
			Index:     i,
		})
	}
	return spans
}

// Savings sums the savings of spans.
func Savings(spans []Span) int {
	total := 0
	for _, s := range spans {
		total += s.Savings
	}
	return total
}
