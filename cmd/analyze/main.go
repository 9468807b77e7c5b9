package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cognicore/reviewlens/internal/cli"
	"github.com/cognicore/reviewlens/pkg/reviewlens/batch"
	"github.com/cognicore/reviewlens/pkg/reviewlens/catalog"
	"github.com/cognicore/reviewlens/pkg/reviewlens/config"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store/sqlite"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Config file (YAML)")
		sentiments  = flag.String("sentiments", "", "Sentiment table (AFINN format)")
		catalogPath = flag.String("catalog", "", "Movie catalog JSON")
		outPath     = flag.String("out", "", "Results JSON output path")
		dbPath      = flag.String("db", "", "SQLite database for persisting results (optional)")
		workers     = flag.Int("workers", 0, "Number of analysis workers")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address until interrupted")
	)
	flag.Parse()

	cfg, err := cli.Resolve(*configPath, cli.Overrides{
		Sentiments: *sentiments,
		Catalog:    *catalogPath,
		Results:    *outPath,
		DBPath:     *dbPath,
		Workers:    *workers,
		LogLevel:   *logLevel,
	})
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Sentiments == "" {
		log.Fatal("--sentiments required")
	}
	if cfg.Catalog == "" {
		log.Fatal("--catalog required")
	}
	if cfg.Results == "" {
		cfg.Results = filepath.Join("results", "results.json")
	}

	logger := cli.Logger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	metrics := batch.NewMetrics(reg)

	report, err := run(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Analyzed %d reviews across %d movies (%d failed)\n",
		report.Reviews, len(report.Movies), report.Failed)
	fmt.Printf("Results written to %s\n", cfg.Results)

	if *metricsAddr != "" {
		if err := serveMetrics(ctx, *metricsAddr, reg, logger); err != nil {
			logger.Error("metrics server failed", "error", err)
			os.Exit(1)
		}
	}
}

// run loads the configured components and catalog, analyzes every review and
// writes the report to cfg.Results.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *batch.Metrics) (*batch.Report, error) {
	loader := config.Loader{Config: cfg}
	components, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Info("loaded sentiments",
		"count", components.Table.Len(),
		"skipped", components.TableStats.Skipped)

	cat, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("loaded movies", "count", cat.Len(), "reviews", cat.ReviewCount())

	var st store.Store
	if cfg.DBPath != "" {
		st, err = sqlite.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	runner, err := batch.New(batch.Options{
		Scorer:      components.Scorer,
		Workers:     cfg.Batch.Workers,
		StripMarkup: cfg.Sentiment.StripMarkup,
		Store:       st,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	report, err := runner.Run(ctx, cat)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.Results); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create results dir: %w", err)
		}
	}
	if err := report.WriteFile(cfg.Results); err != nil {
		return nil, err
	}
	return report, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
