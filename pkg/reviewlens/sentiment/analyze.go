package sentiment

import "fmt"

// Analysis is the per-review result. Extremal fields are nil when the review
// has no sentences.
type Analysis struct {
	TotalScore           int     `json:"total_score"`
	SentenceCount        int     `json:"sentence_count"`
	MostPositiveSentence *string `json:"most_pos_sentence"`
	MostNegativeSentence *string `json:"most_neg_sentence"`
	MostPositiveSpan     *Span   `json:"most_pos_paragraph"`
	MostNegativeSpan     *Span   `json:"most_neg_paragraph"`
}

// Empty reports whether the review had no sentences.
func (a Analysis) Empty() bool {
	return a.SentenceCount == 0
}

// String returns a debug representation of the analysis.
func (a Analysis) String() string {
	if a.Empty() {
		return "Analysis(empty)"
	}
	return fmt.Sprintf("Analysis(total=%d, sentences=%d, pos=%q, neg=%q)",
		a.TotalScore, a.SentenceCount, *a.MostPositiveSentence, *a.MostNegativeSentence)
}

// Analyze scores review: the total over all sentences, the most positive and
// most negative sentence, and the most positive and most negative fixed-size
// span. A review with no sentences yields a zero total and nil extremal fields.
func (s *Scorer) Analyze(review string) Analysis {
	return s.AnalyzeSentences(s.Sentences(review))
}

// AnalyzeSentences is Analyze over already split and scored sentences.
func (s *Scorer) AnalyzeSentences(sentences []Sentence) Analysis {
	a := Analysis{SentenceCount: len(sentences)}
	for _, st := range sentences {
		a.TotalScore += st.Score
	}

	pos, neg, ok := ExtremalSentence(sentences)
	if !ok {
		return a
	}
	posText, negText := sentences[pos].Text, sentences[neg].Text
	a.MostPositiveSentence = &posText
	a.MostNegativeSentence = &negText

	posSpan, negSpan, _ := s.ExtremalSpan(sentences)
	a.MostPositiveSpan = &posSpan
	a.MostNegativeSpan = &negSpan
	return a
}
