package sentiment

// Span is a contiguous run of sentences. Start and End are inclusive sentence
// indices.
type Span struct {
	Start     int      `json:"start"`
	End       int      `json:"end"`
	Sentences []string `json:"sentences"`
	Score     int      `json:"score"`
}

func newSpan(sentences []Sentence, start, end, score int) Span {
	texts := make([]string, 0, end-start+1)
	for _, s := range sentences[start : end+1] {
		texts = append(texts, s.Text)
	}
	return Span{Start: start, End: end, Sentences: texts, Score: score}
}

// ExtremalSentence returns the indices of the highest and lowest scoring
// sentences, scanning in review order so the first of equal scores wins.
// ok is false when there are no sentences.
func ExtremalSentence(sentences []Sentence) (pos, neg int, ok bool) {
	if len(sentences) == 0 {
		return 0, 0, false
	}
	for i, s := range sentences[1:] {
		if s.Score > sentences[pos].Score {
			pos = i + 1
		}
		if s.Score < sentences[neg].Score {
			neg = i + 1
		}
	}
	return pos, neg, true
}

// ExtremalSpan scores every window of K = min(span size, len(sentences))
// consecutive sentences and returns the highest and lowest scoring ones. Ties
// resolve to the earliest start. ok is false when there are no sentences.
func (s *Scorer) ExtremalSpan(sentences []Sentence) (pos, neg Span, ok bool) {
	n := len(sentences)
	if n == 0 {
		return Span{}, Span{}, false
	}
	k := min(s.spanSize, n)

	score := 0
	for _, st := range sentences[:k] {
		score += st.Score
	}
	bestStart, bestScore := 0, score
	worstStart, worstScore := 0, score

	for start := 1; start+k <= n; start++ {
		score += sentences[start+k-1].Score - sentences[start-1].Score
		if score > bestScore {
			bestStart, bestScore = start, score
		}
		if score < worstScore {
			worstStart, worstScore = start, score
		}
	}

	pos = newSpan(sentences, bestStart, bestStart+k-1, bestScore)
	neg = newSpan(sentences, worstStart, worstStart+k-1, worstScore)
	return pos, neg, true
}

// MaxSubarraySpan returns the highest and lowest scoring spans of any length.
// Ties resolve to the earliest start, then the earliest end.
//
// This is a diagnostic companion to ExtremalSpan; Analyze does not use it.
func MaxSubarraySpan(sentences []Sentence) (pos, neg Span, ok bool) {
	n := len(sentences)
	if n == 0 {
		return Span{}, Span{}, false
	}

	var bestStart, bestEnd, worstStart, worstEnd int
	bestScore, worstScore := sentences[0].Score, sentences[0].Score
	for start := 0; start < n; start++ {
		score := 0
		for end := start; end < n; end++ {
			score += sentences[end].Score
			if score > bestScore {
				bestStart, bestEnd, bestScore = start, end, score
			}
			if score < worstScore {
				worstStart, worstEnd, worstScore = start, end, score
			}
		}
	}

	pos = newSpan(sentences, bestStart, bestEnd, bestScore)
	neg = newSpan(sentences, worstStart, worstEnd, worstScore)
	return pos, neg, true
}
