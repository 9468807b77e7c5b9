// Package sentiment scores review text against a word valence table (AFINN
// style) and locates its most positive and most negative parts.
//
// Scoring happens at four levels:
//
//   - ScoreWord looks a single word up in the Table (0 when absent).
//   - ScoreWindow sums a run of consecutive words; Windows produces every
//     fixed-size window of a sentence as a diagnostic.
//   - ScoreSentence sums the words of a sentence. This is the canonical
//     sentence total; it is never derived from overlapping windows.
//   - Analyze totals a review and reports its extremal sentences and spans.
//
// Ties between equally scored candidates always resolve to the earliest one.
//
// A Scorer holds only immutable state and is safe for concurrent use.
package sentiment

import (
	"strings"

	"github.com/cognicore/reviewlens/pkg/reviewlens/textnorm"
)

const (
	// DefaultWindowSize is the number of words per diagnostic window.
	DefaultWindowSize = 3
	// DefaultSpanSize is the number of sentences per extremal span.
	DefaultSpanSize = 3
)

// Scorer scores words, windows, sentences and reviews against a Table.
type Scorer struct {
	table      *Table
	windowSize int
	spanSize   int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWindowSize sets the diagnostic window width. Values below 1 are ignored.
func WithWindowSize(n int) Option {
	return func(s *Scorer) {
		if n >= 1 {
			s.windowSize = n
		}
	}
}

// WithSpanSize sets the number of sentences per span. Values below 1 are
// ignored.
func WithSpanSize(n int) Option {
	return func(s *Scorer) {
		if n >= 1 {
			s.spanSize = n
		}
	}
}

// NewScorer creates a scorer over table.
func NewScorer(table *Table, opts ...Option) *Scorer {
	s := &Scorer{
		table:      table,
		windowSize: DefaultWindowSize,
		spanSize:   DefaultSpanSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreWord returns the valence of w.
func (s *Scorer) ScoreWord(w string) int {
	return s.table.Get(w)
}

// ScoreWindow returns the summed valence of tokens.
func (s *Scorer) ScoreWindow(tokens []string) int {
	total := 0
	for _, t := range tokens {
		total += s.ScoreWord(t)
	}
	return total
}

// ScoreSentence returns the summed valence of the words of a sentence.
func (s *Scorer) ScoreSentence(words []string) int {
	return s.ScoreWindow(words)
}

// Window is a run of consecutive words of one sentence with its score.
// Start and End are inclusive word indices.
type Window struct {
	Words []string `json:"window"`
	Score int      `json:"score"`
	Start int      `json:"start"`
	End   int      `json:"end"`
}

// Windows returns every full window of the configured width over words, in
// order of start index. A sentence shorter than the width has no windows.
func (s *Scorer) Windows(words []string) []Window {
	w := s.windowSize
	if len(words) < w {
		return nil
	}
	windows := make([]Window, 0, len(words)-w+1)
	for i := 0; i+w <= len(words); i++ {
		tokens := words[i : i+w]
		windows = append(windows, Window{
			Words: tokens,
			Score: s.ScoreWindow(tokens),
			Start: i,
			End:   i + w - 1,
		})
	}
	return windows
}

// Sentence is one folded sentence of a review with its cached score.
type Sentence struct {
	Text  string   `json:"text"`
	Words []string `json:"words"`
	Score int      `json:"score"`
}

// Sentences splits review into folded sentences and scores each one.
func (s *Scorer) Sentences(review string) []Sentence {
	texts := textnorm.SplitSentences(review)
	sentences := make([]Sentence, len(texts))
	for i, text := range texts {
		words := strings.Fields(text)
		sentences[i] = Sentence{
			Text:  text,
			Words: words,
			Score: s.ScoreSentence(words),
		}
	}
	return sentences
}
