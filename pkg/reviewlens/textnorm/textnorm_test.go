package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Great", "great"},
		{"GREAT MOVIE", "great movie"},
		{"", ""},
		{"Cafe\u0301", "caf\u00e9"}, // decomposed é composes before folding
		{"Straße", "strasse"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), "Fold(%q)", tt.in)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"two sentences", "Great movie. Terrible acting.", []string{"great movie", "terrible acting"}},
		{"terminator runs", "Wow!!! Really?! yes...", []string{"wow", "really", "yes"}},
		{"no terminator", "just words here", []string{"just words here"}},
		{"only punctuation", "...!?", []string{}},
		{"empty", "", []string{}},
		{"whitespace pieces", " a .  . b ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in))
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"the plot . it works .", "The plot. It works."},
		{"the plot.it works", "The plot. It works"},
		{"hello", "Hello"},
		{"  ...  ", "."},
		{"3 stars. 10 out of 10", "3 Stars. 10 Out of 10"},
		{"already Fine. ok", "Already Fine. Ok"},
		{"élan vital.", "Élan vital."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.in), "Capitalize(%q)", tt.in)
	}
}

func TestCleanReview(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Great, movie!!", "great movie!!"},
		{"  lots   of\tspace\n", "lots of space"},
		{"it's (really) good.", "its really good."},
		{"snake_case 42?", "snake_case 42?"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanReview(tt.in), "CleanReview(%q)", tt.in)
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text stays", "plain text stays"},
		{"First part.<br /><br />Second part.", "First part. Second part."},
		{"<p>Fish &amp; chips</p>", "Fish & chips"},
		{"A<b>bold</b>claim", "A bold claim"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripMarkup(tt.in), "StripMarkup(%q)", tt.in)
	}
}
