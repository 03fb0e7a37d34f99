package compaction

import (
	"sort"
	"strings"
	"unicode/utf8"

	"cczip/internal/transcript"
)

// Scorer rates spans by word overlap with the latest user turns.
type Scorer struct {
	recentWindow  int
	minWordLength int
}

// NewScorer creates a scorer from options, falling back to the defaults for
// unset values.
func NewScorer(opts Options) *Scorer {
	def := DefaultOptions()
	s := &Scorer{recentWindow: opts.RecentWindow, minWordLength: opts.MinWordLength}
	if s.recentWindow <= 0 {
		s.recentWindow = def.RecentWindow
	}
	if s.minWordLength <= 0 {
		s.minWordLength = def.MinWordLength
	}
	return s
}

// WordSet is a set of normalized words.
type WordSet map[string]struct{}

// Words returns the lower-cased whitespace-separated words of text that are
// at least minWordLength runes long.
func (s *Scorer) Words(texts ...string) WordSet {
	set := make(WordSet)
	for _, text := range texts {
		for _, w := range strings.Fields(strings.ToLower(text)) {
			if utf8.RuneCountInString(w) >= s.minWordLength {
				set[w] = struct{}{}
			}
		}
	}
	return set
}

// Jaccard is |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b WordSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for w := range small {
		if _, ok := large[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

// Score sets Relevance on every removable span in place. Protected spans are
// never candidates and keep their zero relevance.
func (s *Scorer) Score(spans []Span, contents transcript.ContentIndex, opts Options) {
	recent := s.Words(contents.Recent(s.recentWindow)...)
	if len(recent) == 0 {
		return
	}

	lines := contents.Lines()
	lo, hi := opts.protectedBounds(len(spans))
	for i := lo; i < hi; i++ {
		var texts []string
		for j := sort.SearchInts(lines, spans[i].StartLine); j < len(lines) && lines[j] <= spans[i].EndLine; j++ {
			texts = append(texts, contents[lines[j]])
		}
		spans[i].Relevance = Jaccard(s.Words(texts...), recent)
	}
}
