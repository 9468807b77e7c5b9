package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/reviewlens/pkg/reviewlens/catalog"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store/memstore"
)

func testScorer() *sentiment.Scorer {
	return sentiment.NewScorer(sentiment.NewTable(map[string]int{
		"great":    3,
		"good":     2,
		"bad":      -2,
		"terrible": -3,
		"boring":   -2,
	}))
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Movie{
		{ID: "tt2", Name: "Second", Reviews: []string{
			"Great movie. Terrible acting.",
			"",
			"Boring. Bad. Good ending.",
		}},
		{ID: "tt1", Name: "First", Reviews: []string{
			"<p>Great <b>fun</b>.</p> Good cast.",
		}},
		{ID: "tt3", Name: "Third"},
	})
}

func newRunner(t *testing.T, opts Options) *Runner {
	t.Helper()
	if opts.Scorer == nil {
		opts.Scorer = testScorer()
	}
	r, err := New(opts)
	require.NoError(t, err)
	return r
}

func TestNewRequiresScorer(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestRunOrderAndScores(t *testing.T) {
	r := newRunner(t, Options{Workers: 2, StripMarkup: true})

	report, err := r.Run(context.Background(), testCatalog())
	require.NoError(t, err)

	require.Len(t, report.Movies, 3)
	assert.Equal(t, "tt2", report.Movies[0].ID)
	assert.Equal(t, "tt1", report.Movies[1].ID)
	assert.Equal(t, "tt3", report.Movies[2].ID)
	assert.Equal(t, 4, report.Reviews)
	assert.Equal(t, 0, report.Failed)

	second := report.Movies[0]
	require.Len(t, second.Analysis, 3)
	assert.Equal(t, 0, second.Analysis[0].TotalScore)
	assert.Equal(t, "great movie", *second.Analysis[0].MostPositiveSentence)
	assert.Equal(t, "terrible acting", *second.Analysis[0].MostNegativeSentence)
	assert.True(t, second.Analysis[1].Empty())
	assert.Nil(t, second.Analysis[1].MostPositiveSpan)
	assert.Equal(t, -2, second.Analysis[2].TotalScore)

	first := report.Movies[1]
	require.Len(t, first.Analysis, 1)
	assert.Equal(t, 5, first.Analysis[0].TotalScore)

	assert.Empty(t, report.Movies[2].Analysis)
	assert.Equal(t, Summary{}, report.Movies[2].Summary)
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	var movies []catalog.Movie
	for i := 0; i < 20; i++ {
		movies = append(movies, catalog.Movie{
			ID: "tt" + strings.Repeat("1", i+1),
			Reviews: []string{
				"Great. Good. Bad.",
				strings.Repeat("Terrible plot. ", i%4) + "Good music.",
				"Boring.",
			},
		})
	}
	cat := catalog.New(movies)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	var outputs []string
	for _, workers := range []int{1, 8} {
		r := newRunner(t, Options{Workers: workers, Clock: clock})
		report, err := r.Run(context.Background(), cat)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, report.WriteJSON(&buf))
		outputs = append(outputs, buf.String())
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestRunSummary(t *testing.T) {
	r := newRunner(t, Options{})

	report, err := r.Run(context.Background(), testCatalog())
	require.NoError(t, err)

	s := report.Movies[0].Summary
	assert.Equal(t, 3, s.Reviews)
	assert.Equal(t, -2, s.Min)
	assert.Equal(t, 0, s.Max)
	assert.InDelta(t, -2.0/3.0, s.Mean, 1e-9)
	assert.Greater(t, s.StdDev, 0.0)
	assert.Equal(t, 0, s.Positive)
	assert.Equal(t, 1, s.Negative)
	assert.Equal(t, 2, s.Neutral)

	single := report.Movies[1].Summary
	assert.Equal(t, 1, single.Reviews)
	assert.Equal(t, 0.0, single.StdDev)
}

func TestRunMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := newRunner(t, Options{Metrics: m})

	_, err := r.Run(context.Background(), testCatalog())
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReviewsTotal.WithLabelValues(statusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsTotal.WithLabelValues(statusEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.AnalysisDuration))
}

func TestRunTimestamps(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	r := newRunner(t, Options{Clock: clock})

	report, err := r.Run(context.Background(), testCatalog())
	require.NoError(t, err)

	assert.Equal(t, start, report.StartedAt)
	assert.Equal(t, start, report.FinishedAt)
	assert.NotEmpty(t, report.RunID)
}

func TestRunPersists(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	r := newRunner(t, Options{Store: st})

	report, err := r.Run(ctx, testCatalog())
	require.NoError(t, err)

	run, err := st.GetRun(ctx, report.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Movies)
	assert.Equal(t, 4, run.Reviews)
	assert.Equal(t, 0, run.Failed)

	recs, err := st.AnalysesByMovie(ctx, "tt2")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, rec := range recs {
		assert.Equal(t, i, rec.ReviewIndex)
		assert.Equal(t, report.RunID, rec.RunID)
		assert.Equal(t, report.Movies[0].Analysis[i].Analysis, rec.Analysis)
	}
}

type flakyStore struct {
	*memstore.Store
	failMovie string
}

func (s *flakyStore) SaveAnalysis(ctx context.Context, a store.AnalysisRecord) error {
	if a.MovieID == s.failMovie {
		return errors.New("disk full")
	}
	return s.Store.SaveAnalysis(ctx, a)
}

func TestRunStoreFailureMarksReview(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Store: memstore.New(), failMovie: "tt1"}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := newRunner(t, Options{Store: st, Metrics: m})

	report, err := r.Run(ctx, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "disk full", report.Movies[1].Analysis[0].Error)
	assert.Equal(t, 0, report.Movies[1].Summary.Reviews)
	assert.Equal(t, 3, report.Movies[0].Summary.Reviews)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsTotal.WithLabelValues(statusFailed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReviewsTotal.WithLabelValues(statusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsTotal.WithLabelValues(statusEmpty)))

	run, err := st.GetRun(ctx, report.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Failed)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newRunner(t, Options{})

	_, err := r.Run(ctx, testCatalog())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteJSON(t *testing.T) {
	r := newRunner(t, Options{})
	report, err := r.Run(context.Background(), testCatalog())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	out := buf.String()
	assert.Less(t, strings.Index(out, `"tt2"`), strings.Index(out, `"tt1"`))
	assert.Less(t, strings.Index(out, `"tt1"`), strings.Index(out, `"tt3"`))

	var decoded map[string]struct {
		Name     string `json:"name"`
		Reviews  []string
		Analysis []json.RawMessage `json:"analysis"`
		Summary  Summary           `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "Second", decoded["tt2"].Name)
	assert.Len(t, decoded["tt2"].Analysis, 3)
	assert.Equal(t, 3, decoded["tt2"].Summary.Reviews)

	var first map[string]any
	require.NoError(t, json.Unmarshal(decoded["tt2"].Analysis[1], &first))
	assert.Contains(t, first, "most_pos_paragraph")
	assert.Nil(t, first["most_pos_paragraph"])
	assert.NotContains(t, first, "error")
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Report{}).WriteJSON(&buf))
	assert.Equal(t, "{}\n", buf.String())
}
