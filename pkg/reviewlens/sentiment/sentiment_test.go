package sentiment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer(opts ...Option) *Scorer {
	table := NewTable(map[string]int{
		"good":     3,
		"bad":      -2,
		"great":    3,
		"terrible": -3,
		"boring":   -2,
		"fun":      4,
	})
	return NewScorer(table, opts...)
}

func sentencesWithScores(scores ...int) []Sentence {
	out := make([]Sentence, len(scores))
	for i, sc := range scores {
		out[i] = Sentence{Text: string(rune('a' + i)), Score: sc}
	}
	return out
}

func TestScoreWord(t *testing.T) {
	s := newTestScorer()

	assert.Equal(t, 3, s.ScoreWord("good"))
	assert.Equal(t, 3, s.ScoreWord("Good"))
	assert.Equal(t, 0, s.ScoreWord("movie"))
}

func TestScoreSentence(t *testing.T) {
	s := newTestScorer()

	assert.Equal(t, 1, s.ScoreSentence([]string{"good", "bad"}))
	assert.Equal(t, 0, s.ScoreSentence(nil))
}

func TestScoreSentenceDoesNotDoubleCount(t *testing.T) {
	s := newTestScorer()
	words := []string{"good", "good", "good", "good"}

	windowSum := 0
	for _, w := range s.Windows(words) {
		windowSum += w.Score
	}
	assert.Equal(t, 12, s.ScoreSentence(words))
	assert.Equal(t, 18, windowSum)
}

func TestWindows(t *testing.T) {
	s := newTestScorer()

	got := s.Windows([]string{"a", "good", "bad", "film"})
	want := []Window{
		{Words: []string{"a", "good", "bad"}, Score: 1, Start: 0, End: 2},
		{Words: []string{"good", "bad", "film"}, Score: 1, Start: 1, End: 3},
	}
	assert.Equal(t, want, got)

	assert.Empty(t, s.Windows([]string{"good", "bad"}))

	two := newTestScorer(WithWindowSize(2))
	assert.Len(t, two.Windows([]string{"good", "bad"}), 1)
}

func TestSentences(t *testing.T) {
	s := newTestScorer()

	got := s.Sentences("Good fun! Bad...   boring?")
	want := []Sentence{
		{Text: "good fun", Words: []string{"good", "fun"}, Score: 7},
		{Text: "bad", Words: []string{"bad"}, Score: -2},
		{Text: "boring", Words: []string{"boring"}, Score: -2},
	}
	assert.Equal(t, want, got)
}

func TestExtremalSentence(t *testing.T) {
	pos, neg, ok := ExtremalSentence(sentencesWithScores(1, 5, -3, 5, -3))
	require.True(t, ok)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 2, neg)

	_, _, ok = ExtremalSentence(nil)
	assert.False(t, ok)
}

func TestExtremalSpan(t *testing.T) {
	s := newTestScorer()

	pos, neg, ok := s.ExtremalSpan(sentencesWithScores(1, 2, 3, -10, 0, 4))
	require.True(t, ok)

	assert.Equal(t, Span{Start: 0, End: 2, Sentences: []string{"a", "b", "c"}, Score: 6}, pos)
	assert.Equal(t, Span{Start: 2, End: 4, Sentences: []string{"c", "d", "e"}, Score: -7}, neg)
}

func TestExtremalSpanTieEarliestStart(t *testing.T) {
	s := newTestScorer()

	// Windows: [0..2]=3, [1..3]=3, [2..4]=3
	pos, neg, ok := s.ExtremalSpan(sentencesWithScores(1, 1, 1, 1, 1))
	require.True(t, ok)
	assert.Equal(t, 0, pos.Start)
	assert.Equal(t, 0, neg.Start)
	assert.Equal(t, 3, pos.Score)
}

func TestExtremalSpanShortReview(t *testing.T) {
	s := newTestScorer()

	pos, neg, ok := s.ExtremalSpan(sentencesWithScores(2, -1))
	require.True(t, ok)
	assert.Equal(t, Span{Start: 0, End: 1, Sentences: []string{"a", "b"}, Score: 1}, pos)
	assert.Equal(t, pos, neg)

	_, _, ok = s.ExtremalSpan(nil)
	assert.False(t, ok)
}

func TestExtremalSpanCustomSize(t *testing.T) {
	s := newTestScorer(WithSpanSize(1))

	pos, neg, ok := s.ExtremalSpan(sentencesWithScores(1, 4, -2))
	require.True(t, ok)
	assert.Equal(t, 1, pos.Start)
	assert.Equal(t, 2, neg.Start)
}

func TestMaxSubarraySpan(t *testing.T) {
	pos, neg, ok := MaxSubarraySpan(sentencesWithScores(2, -5, 3, 4, -1, -6, 1))
	require.True(t, ok)

	assert.Equal(t, 2, pos.Start)
	assert.Equal(t, 3, pos.End)
	assert.Equal(t, 7, pos.Score)

	assert.Equal(t, 4, neg.Start)
	assert.Equal(t, 5, neg.End)
	assert.Equal(t, -7, neg.Score)
}

func TestMaxSubarraySpanTies(t *testing.T) {
	// [0..0]=2 and [2..2]=2 and [0..2]=2 tie; earliest start then end wins.
	pos, _, ok := MaxSubarraySpan(sentencesWithScores(2, -2, 2))
	require.True(t, ok)
	assert.Equal(t, 0, pos.Start)
	assert.Equal(t, 0, pos.End)
}

func TestMaxSubarrayDoesNotOverrideFixedWindow(t *testing.T) {
	s := newTestScorer()
	sentences := s.Sentences("Fun. Terrible. Terrible. Fun fun fun. Good.")

	a := s.AnalyzeSentences(sentences)
	fixed, _, _ := s.ExtremalSpan(sentences)
	free, _, _ := MaxSubarraySpan(sentences)

	require.NotNil(t, a.MostPositiveSpan)
	assert.Equal(t, fixed, *a.MostPositiveSpan)
	assert.NotEqual(t, free, *a.MostPositiveSpan)
}

func TestAnalyze(t *testing.T) {
	s := newTestScorer()

	a := s.Analyze("Great movie. Terrible acting.")

	assert.Equal(t, 0, a.TotalScore)
	assert.Equal(t, 2, a.SentenceCount)
	require.NotNil(t, a.MostPositiveSentence)
	require.NotNil(t, a.MostNegativeSentence)
	assert.Equal(t, "great movie", *a.MostPositiveSentence)
	assert.Equal(t, "terrible acting", *a.MostNegativeSentence)

	require.NotNil(t, a.MostPositiveSpan)
	assert.Equal(t, []string{"great movie", "terrible acting"}, a.MostPositiveSpan.Sentences)
	assert.Equal(t, 0, a.MostPositiveSpan.Score)
}

func TestAnalyzeEmpty(t *testing.T) {
	s := newTestScorer()

	for _, review := range []string{"", "   ", "...!!!???"} {
		a := s.Analyze(review)
		assert.True(t, a.Empty())
		assert.Zero(t, a.TotalScore)
		assert.Nil(t, a.MostPositiveSentence)
		assert.Nil(t, a.MostNegativeSentence)
		assert.Nil(t, a.MostPositiveSpan)
		assert.Nil(t, a.MostNegativeSpan)
		assert.Equal(t, "Analysis(empty)", a.String())
	}
}

func TestAnalysisJSON(t *testing.T) {
	s := newTestScorer()

	data, err := json.Marshal(s.Analyze(""))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_score": 0,
		"sentence_count": 0,
		"most_pos_sentence": null,
		"most_neg_sentence": null,
		"most_pos_paragraph": null,
		"most_neg_paragraph": null
	}`, string(data))

	data, err = json.Marshal(s.Analyze("Good."))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_score": 3,
		"sentence_count": 1,
		"most_pos_sentence": "good",
		"most_neg_sentence": "good",
		"most_pos_paragraph": {"start": 0, "end": 0, "sentences": ["good"], "score": 3},
		"most_neg_paragraph": {"start": 0, "end": 0, "sentences": ["good"], "score": 3}
	}`, string(data))
}
