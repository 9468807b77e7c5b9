// Package storetest holds the behavior every store.Store implementation must
// share. Implementations call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store"
)

// Run exercises open() against the shared store contract. open must return
// a fresh, empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("RunRoundTrip", func(t *testing.T) { testRunRoundTrip(t, open(t)) })
	t.Run("RunNotFound", func(t *testing.T) { testRunNotFound(t, open(t)) })
	t.Run("AnalysisRoundTrip", func(t *testing.T) { testAnalysisRoundTrip(t, open(t)) })
	t.Run("AnalysisOrdering", func(t *testing.T) { testAnalysisOrdering(t, open(t)) })
	t.Run("AnalysisReplace", func(t *testing.T) { testAnalysisReplace(t, open(t)) })
	t.Run("SegmentedRoundTrip", func(t *testing.T) { testSegmentedRoundTrip(t, open(t)) })
	t.Run("InvalidInput", func(t *testing.T) { testInvalidInput(t, open(t)) })
}

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newScorer() *sentiment.Scorer {
	return sentiment.NewScorer(sentiment.NewTable(map[string]int{"great": 3, "terrible": -3}))
}

func testRunRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	run := store.Run{ID: "run-1", StartedAt: base, FinishedAt: base.Add(time.Minute), Movies: 2, Reviews: 5, Failed: 1}

	require.NoError(t, s.SaveRun(ctx, run))
	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.True(t, run.FinishedAt.Equal(got.FinishedAt))
	assert.Equal(t, 5, got.Reviews)
	assert.Equal(t, 1, got.Failed)

	run.Failed = 0
	require.NoError(t, s.SaveRun(ctx, run))
	got, err = s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Zero(t, got.Failed)
}

func testRunNotFound(t *testing.T, s store.Store) {
	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func testAnalysisRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	scorer := newScorer()
	require.NoError(t, s.SaveRun(ctx, store.Run{ID: "run-1", StartedAt: base}))

	full := scorer.Analyze("Great movie. Terrible acting.")
	empty := scorer.Analyze("...")
	require.NoError(t, s.SaveAnalysis(ctx, store.AnalysisRecord{ID: "a1", RunID: "run-1", MovieID: "tt1", ReviewIndex: 0, Analysis: full}))
	require.NoError(t, s.SaveAnalysis(ctx, store.AnalysisRecord{ID: "a2", RunID: "run-1", MovieID: "tt1", ReviewIndex: 1, Analysis: empty}))
	require.NoError(t, s.SaveAnalysis(ctx, store.AnalysisRecord{ID: "a3", RunID: "run-1", MovieID: "tt2", ReviewIndex: 0, Error: "boom"}))

	records, err := s.AnalysesByMovie(ctx, "tt1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, full, records[0].Analysis)
	assert.Equal(t, empty, records[1].Analysis)
	assert.Nil(t, records[1].Analysis.MostPositiveSentence)

	other, err := s.AnalysesByMovie(ctx, "tt2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "boom", other[0].Error)

	none, err := s.AnalysesByMovie(ctx, "tt404")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testAnalysisOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveRun(ctx, store.Run{ID: "late", StartedAt: base.Add(time.Hour)}))
	require.NoError(t, s.SaveRun(ctx, store.Run{ID: "early", StartedAt: base}))

	for _, rec := range []store.AnalysisRecord{
		{ID: "4", RunID: "late", MovieID: "tt1", ReviewIndex: 0},
		{ID: "3", RunID: "early", MovieID: "tt1", ReviewIndex: 2},
		{ID: "1", RunID: "early", MovieID: "tt1", ReviewIndex: 0},
	} {
		require.NoError(t, s.SaveAnalysis(ctx, rec))
	}

	records, err := s.AnalysesByMovie(ctx, "tt1")
	require.NoError(t, err)
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"1", "3", "4"}, ids)
}

func testAnalysisReplace(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveRun(ctx, store.Run{ID: "run-1", StartedAt: base}))

	require.NoError(t, s.SaveAnalysis(ctx, store.AnalysisRecord{ID: "a1", RunID: "run-1", MovieID: "tt1", Error: "first"}))
	require.NoError(t, s.SaveAnalysis(ctx, store.AnalysisRecord{ID: "a2", RunID: "run-1", MovieID: "tt1"}))

	records, err := s.AnalysesByMovie(ctx, "tt1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a2", records[0].ID)
	assert.Empty(t, records[0].Error)
}

func testSegmentedRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	ids := store.NewIDGenerator()

	first := store.SegmentedReview{ID: ids.New(base), MovieID: "tt1", Original: "greatmovie", Segmented: "Great movie", CreatedAt: base}
	second := store.SegmentedReview{ID: ids.New(base.Add(time.Second)), MovieID: "tt1", Original: "badplot", Segmented: "Bad plot", CreatedAt: base.Add(time.Second)}
	require.NoError(t, s.SaveSegmented(ctx, second))
	require.NoError(t, s.SaveSegmented(ctx, first))
	require.NoError(t, s.SaveSegmented(ctx, store.SegmentedReview{ID: ids.New(base), MovieID: "tt2", Segmented: "x"}))

	got, err := s.SegmentedByMovie(ctx, "tt1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Great movie", got[0].Segmented)
	assert.Equal(t, "Bad plot", got[1].Segmented)
	assert.True(t, got[0].CreatedAt.Equal(base))
}

func testInvalidInput(t *testing.T, s store.Store) {
	ctx := context.Background()

	assert.ErrorIs(t, s.SaveRun(ctx, store.Run{}), internalerr.ErrInvalidInput)
	assert.ErrorIs(t, s.SaveAnalysis(ctx, store.AnalysisRecord{RunID: "r"}), internalerr.ErrInvalidInput)
	assert.ErrorIs(t, s.SaveSegmented(ctx, store.SegmentedReview{ID: "x"}), internalerr.ErrInvalidInput)
}
