package batch

import (
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the review totals of one movie. Failed reviews are
// excluded.
type Summary struct {
	Reviews  int     `json:"reviews"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"stddev"`
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	Positive int     `json:"positive"`
	Negative int     `json:"negative"`
	Neutral  int     `json:"neutral"`
}

func summarize(results []ReviewResult) Summary {
	totals := make([]float64, 0, len(results))
	var s Summary
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		score := r.TotalScore
		if len(totals) == 0 || score < s.Min {
			s.Min = score
		}
		if len(totals) == 0 || score > s.Max {
			s.Max = score
		}
		switch {
		case score > 0:
			s.Positive++
		case score < 0:
			s.Negative++
		default:
			s.Neutral++
		}
		totals = append(totals, float64(score))
	}

	s.Reviews = len(totals)
	if s.Reviews == 0 {
		return s
	}
	s.Mean = stat.Mean(totals, nil)
	if s.Reviews > 1 {
		s.StdDev = stat.StdDev(totals, nil)
	}
	return s
}
