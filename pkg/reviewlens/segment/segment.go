// Package segment inserts word boundaries into whitespace-free text using a
// lexicon.
//
// Two modes are provided:
//
//   - Greedy returns one segmentation by longest-match-first scanning.
//   - Enumerate returns every segmentation whose tokens are each a lexicon
//     word, a single character, or accepted by an optional Validator.
//
// Greedy never backtracks: an early long match may strand later characters as
// single-character tokens. This is the contract of the greedy mode and it is
// what keeps the greedy result a member of the enumeration set.
//
// A Segmenter is safe for concurrent use.
package segment

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/reviewlens/pkg/reviewlens/lexicon"
	"github.com/cognicore/reviewlens/pkg/reviewlens/textnorm"
)

// DefaultMaxWordLen bounds the candidate length tried by Greedy.
const DefaultMaxWordLen = 20

// DefaultCacheSize is the number of substring validity verdicts kept by the
// enumeration memo.
const DefaultCacheSize = 100_000

// Segmentation is an ordered token sequence whose concatenation reproduces the
// segmented text exactly.
type Segmentation []string

// String joins the tokens with single spaces.
func (s Segmentation) String() string {
	return strings.Join(s, " ")
}

// Reconstruct joins the tokens without separators, yielding the input text.
func (s Segmentation) Reconstruct() string {
	return strings.Join(s, "")
}

// Segmenter holds the lexicon and validity settings shared by both modes.
type Segmenter struct {
	lex        *lexicon.Lexicon
	validator  lexicon.Validator
	maxWordLen int
	cache      *lru.Cache[string, bool]
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithMaxWordLen sets the longest candidate token, in characters, for both
// Greedy and Enumerate.
// n <= 0 uses the length of the longest lexicon entry.
func WithMaxWordLen(n int) Option {
	return func(s *Segmenter) {
		if n <= 0 {
			n = max(s.lex.MaxWordLen(), 1)
		}
		s.maxWordLen = n
	}
}

// WithValidator adds an extra single-word check consulted by Enumerate for
// substrings the lexicon does not contain.
func WithValidator(v lexicon.Validator) Option {
	return func(s *Segmenter) {
		s.validator = v
	}
}

// WithCacheSize sets the capacity of the substring validity memo.
// A size of 0 disables the memo.
func WithCacheSize(n int) Option {
	return func(s *Segmenter) {
		if n <= 0 {
			s.cache = nil
			return
		}
		cache, err := lru.New[string, bool](n)
		if err == nil {
			s.cache = cache
		}
	}
}

// New creates a segmenter over lex.
func New(lex *lexicon.Lexicon, opts ...Option) *Segmenter {
	s := &Segmenter{
		lex:        lex,
		maxWordLen: DefaultMaxWordLen,
	}
	WithCacheSize(DefaultCacheSize)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Greedy segments text by scanning left to right and, at each position,
// taking the longest substring (up to the max word length) that is a lexicon
// word. When nothing matches the next single character becomes a token.
//
// Lookups fold the candidate; emitted tokens keep the original spelling.
// Empty input yields an empty segmentation.
func (s *Segmenter) Greedy(text string) Segmentation {
	off := runeOffsets(text)
	n := len(off) - 1
	tokens := make(Segmentation, 0, n/4+1)

	for i := 0; i < n; {
		matched := 1
		for length := min(s.maxWordLen, n-i); length > 1; length-- {
			if s.lex.ContainsFolded(textnorm.Fold(text[off[i]:off[i+length]])) {
				matched = length
				break
			}
		}
		tokens = append(tokens, text[off[i]:off[i+matched]])
		i += matched
	}

	return tokens
}

// Auto cleans a raw review, segments every whitespace-separated chunk with
// Greedy and restores sentence-initial capitalization.
//
//	Auto("Thisfilm.Greatacting!") -> "This film. Great acting !"
func (s *Segmenter) Auto(review string) string {
	chunks := strings.Fields(textnorm.CleanReview(review))
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, s.Greedy(chunk).String())
	}
	return textnorm.Capitalize(strings.Join(parts, " "))
}

// acceptable reports whether the folded substring may appear as one token in
// an enumerated segmentation. Single characters are handled by the caller.
func (s *Segmenter) acceptable(folded string) bool {
	if s.lex.ContainsFolded(folded) {
		return true
	}
	if s.validator == nil {
		return false
	}
	if s.cache != nil {
		if ok, hit := s.cache.Get(folded); hit {
			return ok
		}
	}
	ok := s.validator.Valid(folded)
	if s.cache != nil {
		s.cache.Add(folded, ok)
	}
	return ok
}

// runeOffsets returns the byte offset of every rune start in text followed by
// len(text), so text[off[i]:off[j]] is the substring of runes i..j-1.
func runeOffsets(text string) []int {
	off := make([]int, 0, len(text)+1)
	for i := range text {
		off = append(off, i)
	}
	return append(off, len(text))
}
