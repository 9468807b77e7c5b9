package store

import (
	"context"
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
)

// Store persists batch runs, per-review analyses and segmented reviews.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)

	// Analyses
	SaveAnalysis(ctx context.Context, a AnalysisRecord) error
	AnalysesByMovie(ctx context.Context, movieID string) ([]AnalysisRecord, error)

	// Segmented reviews
	SaveSegmented(ctx context.Context, s SegmentedReview) error
	SegmentedByMovie(ctx context.Context, movieID string) ([]SegmentedReview, error)
}

// Run summarizes one batch analysis run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Movies     int
	Reviews    int
	Failed     int
}

// AnalysisRecord is the stored analysis of one review.
type AnalysisRecord struct {
	ID          string
	RunID       string
	MovieID     string
	ReviewIndex int
	Analysis    sentiment.Analysis
	Error       string // non-empty when the review could not be analyzed
}

// SegmentedReview is a review after automatic segmentation.
type SegmentedReview struct {
	ID        string
	MovieID   string
	Original  string
	Segmented string
	CreatedAt time.Time
}

// IDGenerator produces lexically sortable ULIDs. It is safe for concurrent
// use.
type IDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewIDGenerator creates a generator backed by crypto/rand with monotonic
// entropy, so ids created within the same millisecond still sort in order.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a fresh id stamped with t.
func (g *IDGenerator) New(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}
