package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cognicore/reviewlens/internal/cli"
	"github.com/cognicore/reviewlens/pkg/reviewlens/catalog"
	"github.com/cognicore/reviewlens/pkg/reviewlens/config"
	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/segment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store"
	"github.com/cognicore/reviewlens/pkg/reviewlens/store/sqlite"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Config file (YAML)")
		lexiconPath = flag.String("lexicon", "", "Word list, one word per line")
		text        = flag.String("text", "", "Segment this text and exit (non-interactive mode)")
		all         = flag.Bool("all", false, "Enumerate every segmentation instead of the greedy one")
		limit       = flag.Int("limit", 0, "Maximum segmentations to print with --all (0 uses the config)")
		catalogPath = flag.String("catalog", "", "Movie catalog JSON, used to check --movie")
		movieID     = flag.String("movie", "", "Movie id to attach segmented reviews to")
		dbPath      = flag.String("db", "", "SQLite database for segmented reviews")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	cfg, err := cli.Resolve(*configPath, cli.Overrides{
		Lexicon:  *lexiconPath,
		Catalog:  *catalogPath,
		DBPath:   *dbPath,
		LogLevel: *logLevel,
	})
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Lexicon == "" {
		log.Fatal("--lexicon required")
	}
	if *movieID != "" && cfg.DBPath == "" {
		log.Fatal("--db required with --movie")
	}
	if *limit > 0 {
		cfg.Segment.MaxResults = *limit
	}

	logger := cli.Logger(cfg, os.Stderr)
	ctx := context.Background()

	s, cleanup, err := newSession(ctx, cfg, *movieID, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()
	s.all = *all

	// One-shot mode
	if *text != "" {
		if err := s.handle(ctx, os.Stdout, *text); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Interactive mode
	fmt.Println("===========================================")
	fmt.Println("  Review Segmentation")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Type a review without spaces (Ctrl+D to exit):")
	fmt.Println()

	s.interactive(ctx, os.Stdin, os.Stdout)

	fmt.Println("\nGoodbye!")
}

// session holds the loaded segmenter and the optional persistence target.
type session struct {
	seg     *segment.Segmenter
	limits  segment.Limits
	all     bool
	movieID string
	store   store.Store
	ids     *store.IDGenerator
	now     func() time.Time
	logger  *slog.Logger
}

func newSession(ctx context.Context, cfg config.Config, movieID string, logger *slog.Logger) (*session, func(), error) {
	loader := config.Loader{Config: cfg}
	components, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger.Info("loaded lexicon", "words", components.Lexicon.Len())

	s := &session{
		seg:     components.Segmenter,
		limits:  cfg.Limits(),
		movieID: movieID,
		ids:     store.NewIDGenerator(),
		now:     time.Now,
		logger:  logger,
	}
	cleanup := func() {}

	if movieID == "" {
		return s, cleanup, nil
	}

	if cfg.Catalog != "" {
		cat, err := catalog.LoadFile(cfg.Catalog)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", err)
		}
		if _, err := cat.Get(movieID); err != nil {
			return nil, nil, err
		}
	}

	st, err := sqlite.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	s.store = st
	cleanup = func() {
		st.Close()
	}
	return s, cleanup, nil
}

func (s *session) interactive(ctx context.Context, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := s.handle(ctx, out, line); err != nil {
			fmt.Fprintln(out, "Error:", err)
		}
	}
}

// handle segments one input and prints the result. With a movie configured
// the automatic segmentation is also saved.
func (s *session) handle(ctx context.Context, out io.Writer, text string) error {
	if s.all {
		return s.enumerate(out, text)
	}

	segmented := s.seg.Auto(text)
	fmt.Fprintf(out, "Original:  %s\n", text)
	fmt.Fprintf(out, "Segmented: %s\n", segmented)

	if s.store == nil {
		return nil
	}
	now := s.now()
	rec := store.SegmentedReview{
		ID:        s.ids.New(now),
		MovieID:   s.movieID,
		Original:  text,
		Segmented: segmented,
		CreatedAt: now,
	}
	if err := s.store.SaveSegmented(ctx, rec); err != nil {
		return fmt.Errorf("save segmented review: %w", err)
	}
	s.logger.Info("saved segmented review", "movie", s.movieID, "id", rec.ID)
	return nil
}

func (s *session) enumerate(out io.Writer, text string) error {
	res, err := s.seg.Enumerate(text, s.limits)
	if err != nil && !errors.Is(err, internalerr.ErrBudgetExceeded) {
		return err
	}

	for i, seg := range res.Segmentations {
		fmt.Fprintf(out, "%d: %s\n", i+1, seg)
	}
	fmt.Fprintf(out, "%d segmentations (%d steps)", len(res.Segmentations), res.Nodes)
	if res.Truncated {
		fmt.Fprint(out, ", truncated")
	}
	fmt.Fprintln(out)
	return err
}
