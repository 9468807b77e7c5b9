// Package textnorm holds the text primitives shared by the segmenter and the
// sentiment scorer: case folding, sentence splitting, capitalization
// restoration and review cleanup.
//
// All functions are pure and safe for concurrent use.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// sentenceBreak matches one or more sentence terminators.
var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Fold returns the case-normalized form of s used for every lexicon and
// sentiment lookup. Input is composed to NFC first so that decomposed and
// precomposed spellings of the same word fold to the same key.
func Fold(s string) string {
	// cases.Caser is stateful, so a fresh one per call.
	return cases.Fold().String(norm.NFC.String(s))
}

// SplitSentences splits text on runs of '.', '!' and '?', trims each piece,
// drops empty pieces and folds the rest.
//
//	SplitSentences("Great movie!! Terrible acting.") -> ["great movie", "terrible acting"]
func SplitSentences(text string) []string {
	parts := sentenceBreak.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		sentences = append(sentences, Fold(p))
	}
	return sentences
}

// Capitalize restores sentence-initial capitalization on folded text.
// The text is split on '.', each clause is trimmed, its first letter is
// uppercased, and the non-empty clauses are rejoined with ". ". A trailing '.'
// is kept iff the input ended with one.
//
//	Capitalize("the plot . it works .") -> "The plot. It works."
func Capitalize(text string) string {
	if text == "" {
		return text
	}

	parts := strings.Split(text, ".")
	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		clauses = append(clauses, upperFirstLetter(p))
	}

	result := strings.Join(clauses, ". ")
	if strings.HasSuffix(strings.TrimSpace(text), ".") {
		result += "."
	}
	return result
}

// upperFirstLetter uppercases the first alphabetic rune of s, leaving every
// other rune untouched.
func upperFirstLetter(s string) string {
	for i, r := range s {
		if unicode.IsLetter(r) {
			upper := unicode.ToUpper(r)
			if upper == r {
				return s
			}
			return s[:i] + string(upper) + s[i+len(string(r)):]
		}
	}
	return s
}

// CleanReview prepares free-form review text for segmentation: it folds the
// text, drops every rune that is not a letter, digit, underscore, whitespace or
// sentence terminator, and collapses whitespace runs to a single space.
func CleanReview(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range Fold(text) {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func keepRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
		return true
	case r == '_', r == '.', r == '!', r == '?':
		return true
	}
	return false
}
