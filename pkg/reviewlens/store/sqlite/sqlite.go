package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// timeLayout is fixed width so that stored timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	// Pragmas in the DSN apply to every pooled connection.
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	movies INTEGER NOT NULL DEFAULT 0,
	reviews INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	movie_id TEXT NOT NULL,
	review_index INTEGER NOT NULL,
	total_score INTEGER NOT NULL,
	analysis_json TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	UNIQUE(run_id, movie_id, review_index),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_analyses_movie ON analyses(movie_id);

CREATE TABLE IF NOT EXISTS segmented_reviews (
	id TEXT PRIMARY KEY,
	movie_id TEXT NOT NULL,
	original TEXT NOT NULL,
	segmented TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_segmented_movie ON segmented_reviews(movie_id);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or updates a run
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}

	const stmt = `
INSERT INTO runs (id, started_at, finished_at, movies, reviews, failed)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	finished_at=excluded.finished_at,
	movies=excluded.movies,
	reviews=excluded.reviews,
	failed=excluded.failed;
`
	_, err := s.db.ExecContext(ctx, stmt,
		r.ID,
		formatTime(r.StartedAt),
		formatTime(r.FinishedAt),
		r.Movies,
		r.Reviews,
		r.Failed,
	)
	return err
}

// GetRun returns a run by id
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	const q = `SELECT id, started_at, finished_at, movies, reviews, failed FROM runs WHERE id = ?`

	var (
		r                   store.Run
		startedAt, finished string
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&r.ID, &startedAt, &finished, &r.Movies, &r.Reviews, &r.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	r.StartedAt = parseTime(startedAt)
	r.FinishedAt = parseTime(finished)
	return r, nil
}

// SaveAnalysis inserts or replaces the analysis of one review in one run
func (s *sqliteStore) SaveAnalysis(ctx context.Context, a store.AnalysisRecord) error {
	if a.ID == "" || a.RunID == "" || a.MovieID == "" {
		return fmt.Errorf("%w: analysis id, run id and movie id are required", internalerr.ErrInvalidInput)
	}

	payload, err := json.Marshal(a.Analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	const stmt = `
INSERT INTO analyses (id, run_id, movie_id, review_index, total_score, analysis_json, error)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id, movie_id, review_index) DO UPDATE SET
	id=excluded.id,
	total_score=excluded.total_score,
	analysis_json=excluded.analysis_json,
	error=excluded.error;
`
	_, err = s.db.ExecContext(ctx, stmt,
		a.ID,
		a.RunID,
		a.MovieID,
		a.ReviewIndex,
		a.Analysis.TotalScore,
		string(payload),
		a.Error,
	)
	return err
}

// AnalysesByMovie returns every stored analysis of a movie, oldest run first,
// then by review index
func (s *sqliteStore) AnalysesByMovie(ctx context.Context, movieID string) ([]store.AnalysisRecord, error) {
	const q = `
SELECT a.id, a.run_id, a.movie_id, a.review_index, a.analysis_json, a.error
FROM analyses a
JOIN runs r ON r.id = a.run_id
WHERE a.movie_id = ?
ORDER BY r.started_at, a.run_id, a.review_index;
`
	rows, err := s.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []store.AnalysisRecord
	for rows.Next() {
		var (
			rec     store.AnalysisRecord
			payload string
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.MovieID, &rec.ReviewIndex, &payload, &rec.Error); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &rec.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveSegmented inserts a segmented review
func (s *sqliteStore) SaveSegmented(ctx context.Context, r store.SegmentedReview) error {
	if r.ID == "" || r.MovieID == "" {
		return fmt.Errorf("%w: segmented review id and movie id are required", internalerr.ErrInvalidInput)
	}

	const stmt = `
INSERT INTO segmented_reviews (id, movie_id, original, segmented, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	original=excluded.original,
	segmented=excluded.segmented;
`
	_, err := s.db.ExecContext(ctx, stmt, r.ID, r.MovieID, r.Original, r.Segmented, formatTime(r.CreatedAt))
	return err
}

// SegmentedByMovie returns the segmented reviews of a movie in insertion order
func (s *sqliteStore) SegmentedByMovie(ctx context.Context, movieID string) ([]store.SegmentedReview, error) {
	const q = `
SELECT id, movie_id, original, segmented, created_at
FROM segmented_reviews
WHERE movie_id = ?
ORDER BY id;
`
	rows, err := s.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []store.SegmentedReview
	for rows.Next() {
		var (
			r         store.SegmentedReview
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.MovieID, &r.Original, &r.Segmented, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(createdAt)
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
