package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store"
)

// Store is an in-memory implementation of store.Store for tests and dry runs.
type Store struct {
	mu        sync.RWMutex
	closed    bool
	runs      map[string]store.Run
	analyses  map[analysisKey]store.AnalysisRecord
	segmented map[string]store.SegmentedReview
}

type analysisKey struct {
	runID       string
	movieID     string
	reviewIndex int
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:      make(map[string]store.Run),
		analyses:  make(map[analysisKey]store.AnalysisRecord),
		segmented: make(map[string]store.SegmentedReview),
	}
}

// Close implements store.Store. Later calls fail with ErrStoreUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) check() error {
	if s.closed {
		return internalerr.ErrStoreUnavailable
	}
	return nil
}

// SaveRun inserts or updates a run.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return err
	}
	if r.ID == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(); err != nil {
		return store.Run{}, err
	}
	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, nil
}

// SaveAnalysis inserts or replaces the analysis of one review in one run.
func (s *Store) SaveAnalysis(ctx context.Context, a store.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return err
	}
	if a.ID == "" || a.RunID == "" || a.MovieID == "" {
		return fmt.Errorf("%w: analysis id, run id and movie id are required", internalerr.ErrInvalidInput)
	}
	if _, ok := s.runs[a.RunID]; !ok {
		return fmt.Errorf("run %s: %w", a.RunID, internalerr.ErrNotFound)
	}
	s.analyses[analysisKey{a.RunID, a.MovieID, a.ReviewIndex}] = a
	return nil
}

// AnalysesByMovie returns every analysis of a movie, oldest run first, then
// by review index.
func (s *Store) AnalysesByMovie(ctx context.Context, movieID string) ([]store.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(); err != nil {
		return nil, err
	}

	var records []store.AnalysisRecord
	for k, a := range s.analyses {
		if k.movieID == movieID {
			records = append(records, a)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		ri, rj := s.runs[records[i].RunID], s.runs[records[j].RunID]
		if !ri.StartedAt.Equal(rj.StartedAt) {
			return ri.StartedAt.Before(rj.StartedAt)
		}
		if records[i].RunID != records[j].RunID {
			return records[i].RunID < records[j].RunID
		}
		return records[i].ReviewIndex < records[j].ReviewIndex
	})
	return records, nil
}

// SaveSegmented inserts a segmented review.
func (s *Store) SaveSegmented(ctx context.Context, r store.SegmentedReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return err
	}
	if r.ID == "" || r.MovieID == "" {
		return fmt.Errorf("%w: segmented review id and movie id are required", internalerr.ErrInvalidInput)
	}
	s.segmented[r.ID] = r
	return nil
}

// SegmentedByMovie returns the segmented reviews of a movie ordered by id.
func (s *Store) SegmentedByMovie(ctx context.Context, movieID string) ([]store.SegmentedReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(); err != nil {
		return nil, err
	}

	var reviews []store.SegmentedReview
	for _, r := range s.segmented {
		if r.MovieID == movieID {
			reviews = append(reviews, r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}
