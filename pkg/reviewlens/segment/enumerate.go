package segment

import (
	"fmt"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/textnorm"
)

// Limits bounds the cost of Enumerate. Zero values mean unbounded.
type Limits struct {
	// MaxResults stops the search once this many segmentations are found.
	MaxResults int
	// MaxNodes caps the number of search steps (token extensions).
	MaxNodes int
}

// Result is the outcome of Enumerate.
type Result struct {
	Segmentations []Segmentation
	// Truncated is set when a limit stopped the search before every
	// segmentation was produced.
	Truncated bool
	// Nodes is the number of search steps taken.
	Nodes int
}

// Enumerate returns every segmentation of text in which each token is a
// lexicon word, a single character, or accepted by the configured Validator.
// Tokens are at most the max word length long, the same bound Greedy uses, so
// the work per position is bounded regardless of the input length.
//
// Segmentations are produced in a fixed order: lexicographic on the split
// positions, so at each position shorter tokens come first. Distinct split
// positions give distinct token sequences, so the result has no duplicates.
// Enumerate("") returns exactly one, empty, segmentation.
//
// The candidate token set at each position is computed once per call, the
// first time the position is reached. Because every position can always be
// completed with single characters, every explored step leads to at least
// one result, which lets MaxResults stop the search without wasted work.
//
// When MaxNodes is exceeded the segmentations completed so far are returned
// with Truncated set, together with an error wrapping
// internalerr.ErrBudgetExceeded.
func (s *Segmenter) Enumerate(text string, limits Limits) (Result, error) {
	off := runeOffsets(text)
	e := &enumerator{
		s:      s,
		text:   text,
		off:    off,
		n:      len(off) - 1,
		limits: limits,
		next:   make([][]int, len(off)),
	}

	e.walk(0, make(Segmentation, 0, e.n))

	res := Result{
		Segmentations: e.results,
		Truncated:     e.truncated,
		Nodes:         e.nodes,
	}
	if e.overBudget {
		return res, fmt.Errorf("%w: enumeration stopped after %d nodes", internalerr.ErrBudgetExceeded, limits.MaxNodes)
	}
	return res, nil
}

type enumerator struct {
	s      *Segmenter
	text   string
	off    []int
	n      int
	limits Limits

	// next[i] lists, ascending, every j in (i, i+maxWordLen] such that
	// text[i:j] is an acceptable token. nil means not yet computed.
	next [][]int

	results    []Segmentation
	nodes      int
	truncated  bool
	overBudget bool
}

// walk extends path from rune position i. It returns false once the search
// must stop.
func (e *enumerator) walk(i int, path Segmentation) bool {
	if i == e.n {
		if e.limits.MaxResults > 0 && len(e.results) == e.limits.MaxResults {
			e.truncated = true
			return false
		}
		seg := make(Segmentation, len(path))
		copy(seg, path)
		e.results = append(e.results, seg)
		return true
	}

	for _, j := range e.candidates(i) {
		if e.limits.MaxResults > 0 && len(e.results) == e.limits.MaxResults {
			e.truncated = true
			return false
		}
		e.nodes++
		if e.limits.MaxNodes > 0 && e.nodes > e.limits.MaxNodes {
			e.truncated = true
			e.overBudget = true
			return false
		}
		if !e.walk(j, append(path, e.text[e.off[i]:e.off[j]])) {
			return false
		}
	}
	return true
}

func (e *enumerator) candidates(i int) []int {
	if e.next[i] != nil {
		return e.next[i]
	}
	js := []int{i + 1}
	last := min(i+e.s.maxWordLen, e.n)
	for j := i + 2; j <= last; j++ {
		if e.s.acceptable(textnorm.Fold(e.text[e.off[i]:e.off[j]])) {
			js = append(js, j)
		}
	}
	e.next[i] = js
	return js
}
