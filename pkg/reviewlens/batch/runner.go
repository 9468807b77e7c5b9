// Package batch analyzes every review of a movie catalog across a bounded
// worker pool and assembles per-movie reports in catalog order.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/reviewlens/pkg/reviewlens/catalog"
	"github.com/cognicore/reviewlens/pkg/reviewlens/logging"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store"
	"github.com/cognicore/reviewlens/pkg/reviewlens/textnorm"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// Options configures a Runner. Store, Metrics, Clock and Logger are optional.
type Options struct {
	Scorer      *sentiment.Scorer
	Workers     int
	StripMarkup bool
	Store       store.Store
	Metrics     *Metrics
	Clock       clockwork.Clock
	Logger      *slog.Logger
}

// Runner analyzes catalogs. It is safe for concurrent use.
type Runner struct {
	scorer      *sentiment.Scorer
	workers     int
	stripMarkup bool
	store       store.Store
	metrics     *Metrics
	clock       clockwork.Clock
	logger      *slog.Logger
	ids         *store.IDGenerator
}

// New creates a Runner. Options.Scorer is required.
func New(opts Options) (*Runner, error) {
	if opts.Scorer == nil {
		return nil, fmt.Errorf("batch: scorer is required")
	}
	r := &Runner{
		scorer:      opts.Scorer,
		workers:     opts.Workers,
		stripMarkup: opts.StripMarkup,
		store:       opts.Store,
		metrics:     opts.Metrics,
		clock:       opts.Clock,
		logger:      opts.Logger,
		ids:         store.NewIDGenerator(),
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	return r, nil
}

// ReviewResult is the analysis of one review. Error is set when the review
// could not be processed; the rest of the batch is unaffected.
type ReviewResult struct {
	sentiment.Analysis
	Error string `json:"error,omitempty"`
}

// MovieResult is a catalog movie with its review analyses.
type MovieResult struct {
	catalog.Movie
	Analysis []ReviewResult `json:"analysis"`
	Summary  Summary        `json:"summary"`
}

// Report is the outcome of one Run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Movies     []MovieResult
	Reviews    int
	Failed     int
}

type job struct {
	movie  int
	review int
}

// Run analyzes every review in cat. The report lists movies in catalog order
// and reviews in their original order regardless of the worker count. Run
// returns an error only when ctx is cancelled or the run record cannot be
// persisted.
func (r *Runner) Run(ctx context.Context, cat *catalog.Catalog) (*Report, error) {
	started := r.clock.Now()
	report := &Report{
		RunID:     r.ids.New(started),
		StartedAt: started,
		Movies:    make([]MovieResult, len(cat.Movies)),
	}

	var jobs []job
	for i, m := range cat.Movies {
		report.Movies[i] = MovieResult{
			Movie:    m,
			Analysis: make([]ReviewResult, len(m.Reviews)),
		}
		for j := range m.Reviews {
			jobs = append(jobs, job{movie: i, review: j})
		}
	}
	report.Reviews = len(jobs)

	r.logger.Info("batch run started",
		"run_id", report.RunID,
		"movies", len(cat.Movies),
		"reviews", len(jobs),
		"workers", r.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, jb := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			movie := cat.Movies[jb.movie]
			report.Movies[jb.movie].Analysis[jb.review] = r.analyze(movie.Reviews[jb.review])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch run %s: %w", report.RunID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch run %s: %w", report.RunID, err)
	}

	report.FinishedAt = r.clock.Now()

	if r.store != nil {
		if err := r.persist(ctx, report); err != nil {
			return nil, err
		}
	}

	for i := range report.Movies {
		mr := &report.Movies[i]
		for _, res := range mr.Analysis {
			if res.Error != "" {
				report.Failed++
			}
			r.countStatus(res)
		}
		mr.Summary = summarize(mr.Analysis)
	}

	if r.metrics != nil {
		r.metrics.RunsTotal.Inc()
	}
	r.logger.Info("batch run finished",
		"run_id", report.RunID,
		"reviews", report.Reviews,
		"failed", report.Failed,
		"elapsed", report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}

func (r *Runner) analyze(review string) ReviewResult {
	start := r.clock.Now()
	if r.stripMarkup {
		review = textnorm.StripMarkup(review)
	}
	res := ReviewResult{Analysis: r.scorer.Analyze(review)}
	if r.metrics != nil {
		r.metrics.AnalysisDuration.Observe(r.clock.Since(start).Seconds())
	}
	return res
}

// countStatus records the final status of one review, once.
func (r *Runner) countStatus(res ReviewResult) {
	if r.metrics == nil {
		return
	}
	status := statusOK
	switch {
	case res.Error != "":
		status = statusFailed
	case res.Empty():
		status = statusEmpty
	}
	r.metrics.ReviewsTotal.WithLabelValues(status).Inc()
}

// persist saves the run and then each review analysis. A failed analysis
// write marks that review and the remaining writes continue.
func (r *Runner) persist(ctx context.Context, report *Report) error {
	run := store.Run{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Movies:     len(report.Movies),
		Reviews:    report.Reviews,
	}
	if err := r.store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run %s: %w", report.RunID, err)
	}

	failed := 0
	for i := range report.Movies {
		mr := &report.Movies[i]
		for j := range mr.Analysis {
			rec := store.AnalysisRecord{
				ID:          r.ids.New(report.FinishedAt),
				RunID:       report.RunID,
				MovieID:     mr.ID,
				ReviewIndex: j,
				Analysis:    mr.Analysis[j].Analysis,
			}
			if err := r.store.SaveAnalysis(ctx, rec); err != nil {
				r.logger.Warn("save analysis failed",
					"run_id", report.RunID,
					"movie", mr.ID,
					"review", j,
					"error", err)
				mr.Analysis[j].Error = err.Error()
				failed++
			}
		}
	}

	if failed > 0 {
		run.Failed = failed
		if err := r.store.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("save run %s: %w", report.RunID, err)
		}
	}
	return nil
}
