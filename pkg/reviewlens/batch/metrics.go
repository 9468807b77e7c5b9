package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the batch runner collectors.
type Metrics struct {
	// ReviewsTotal counts analyzed reviews by status (ok, empty, failed).
	ReviewsTotal *prometheus.CounterVec

	// AnalysisDuration tracks per-review analysis latency in seconds.
	AnalysisDuration prometheus.Histogram

	// RunsTotal counts completed batch runs.
	RunsTotal prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReviewsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reviewlens_reviews_total",
				Help: "Total reviews analyzed by status",
			},
			[]string{"status"},
		),
		AnalysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reviewlens_analysis_duration_seconds",
				Help:    "Per-review analysis duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
		),
		RunsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reviewlens_runs_total",
				Help: "Total completed batch runs",
			},
		),
	}
}

const (
	statusOK     = "ok"
	statusEmpty  = "empty"
	statusFailed = "failed"
)
