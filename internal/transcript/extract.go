package transcript

import (
	"sort"
)

// Checkpoint is the cumulative token count observed right after a user turn.
// Line is the 1-based position of the user turn in the log.
type Checkpoint struct {
	Line   int
	Tokens int
}

// ContentIndex maps the 1-based line of each user turn to its text.
type ContentIndex map[int]string

// Lines returns the indexed line numbers in ascending order.
func (c ContentIndex) Lines() []int {
	lines := make([]int, 0, len(c))
	for line := range c {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// Recent returns the texts of the last k user turns, oldest first.
func (c ContentIndex) Recent(k int) []string {
	if k <= 0 {
		return nil
	}
	lines := c.Lines()
	if len(lines) > k {
		lines = lines[len(lines)-k:]
	}
	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = c[line]
	}
	return texts
}

// Series is everything extraction learns from one log.
type Series struct {
	Checkpoints []Checkpoint
	Contents    ContentIndex
	// UserRecords counts every user-typed record, tool results included.
	UserRecords int
	// LastCacheRead is the last non-zero cache_read_input_tokens in the log.
	LastCacheRead int
}

// Extract walks the raw lines once and builds the checkpoint series.
//
// A checkpoint is emitted for a user turn when the record right after it
// carries non-zero usage counters. A user turn immediately followed by
// another user turn restarts the turn at the later line. Malformed lines are
// skipped.
func Extract(lines []string) Series {
	s := Series{Contents: make(ContentIndex)}

	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entries[i] = Parse(line)
		if entries[i].IsUserRecord() {
			s.UserRecords++
		}
		if u := ReadUsage(line); u.CacheReadInputTokens > 0 {
			s.LastCacheRead = u.CacheReadInputTokens
		}
	}

	for i, e := range entries {
		if !e.IsUserTurn() {
			continue
		}
		line := i + 1
		s.Contents[line] = e.Content

		if i+1 >= len(entries) {
			break
		}
		if entries[i+1].IsUserTurn() {
			continue
		}
		tokens := ReadUsage(lines[i+1]).Total()
		if tokens == 0 {
			continue
		}
		s.Checkpoints = append(s.Checkpoints, Checkpoint{Line: line, Tokens: tokens})
	}

	return s
}
