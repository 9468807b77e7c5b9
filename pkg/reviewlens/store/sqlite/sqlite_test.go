package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/reviewlens/pkg/reviewlens/store"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store/storetest"
)

func openTemp(t *testing.T) store.Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "reviewlens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreContract(t *testing.T) {
	storetest.Run(t, openTemp)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reviewlens.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, store.Run{ID: "run-1", StartedAt: started, Reviews: 3}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	run, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 3, run.Reviews)
	assert.True(t, run.StartedAt.Equal(started))
	assert.True(t, run.FinishedAt.IsZero())
}

func TestSQLiteAnalysisRequiresRun(t *testing.T) {
	s := openTemp(t)
	err := s.SaveAnalysis(context.Background(), store.AnalysisRecord{ID: "a", RunID: "missing", MovieID: "tt1"})
	assert.Error(t, err)
}
