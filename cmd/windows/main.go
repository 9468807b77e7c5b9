package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/reviewlens/internal/cli"
	"github.com/cognicore/reviewlens/pkg/reviewlens/catalog"
	"github.com/cognicore/reviewlens/pkg/reviewlens/config"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/textnorm"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Config file (YAML)")
		sentiments  = flag.String("sentiments", "", "Sentiment table (AFINN format)")
		text        = flag.String("text", "", "Review text to inspect")
		catalogPath = flag.String("catalog", "", "Movie catalog JSON (used when --text is empty)")
		movieID     = flag.String("movie", "", "Movie id in the catalog (default: first movie)")
		review      = flag.Int("review", 0, "Review index within the movie")
		window      = flag.Int("window", 0, "Window size (0 uses the config)")
	)
	flag.Parse()

	cfg, err := cli.Resolve(*configPath, cli.Overrides{
		Sentiments: *sentiments,
		Catalog:    *catalogPath,
	})
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Sentiments == "" {
		log.Fatal("--sentiments required")
	}
	if *window > 0 {
		cfg.Sentiment.WindowSize = *window
	}

	loader := config.Loader{Config: cfg}
	components, err := loader.Load()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Loaded %d sentiment words\n", components.Table.Len())

	input := *text
	if input == "" {
		if cfg.Catalog == "" {
			log.Fatal("--text or --catalog required")
		}
		input, err = pickReview(cfg.Catalog, *movieID, *review)
		if err != nil {
			log.Fatal(err)
		}
	}
	if cfg.Sentiment.StripMarkup {
		input = textnorm.StripMarkup(input)
	}

	report(os.Stdout, components.Scorer, input)
}

func pickReview(path, movieID string, index int) (string, error) {
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return "", err
	}
	if cat.Len() == 0 {
		return "", fmt.Errorf("catalog %s has no movies", path)
	}

	movie := cat.Movies[0]
	if movieID != "" {
		if movie, err = cat.Get(movieID); err != nil {
			return "", err
		}
	}
	if index < 0 || index >= len(movie.Reviews) {
		return "", fmt.Errorf("movie %s has %d reviews, index %d out of range", movie.ID, len(movie.Reviews), index)
	}
	return movie.Reviews[index], nil
}

// report prints each sentence of review with its total score and every
// sliding window over its words.
func report(w io.Writer, scorer *sentiment.Scorer, review string) {
	for i, st := range scorer.Sentences(review) {
		fmt.Fprintf(w, "\nSentence %d: %q\n", i+1, st.Text)
		fmt.Fprintf(w, "  Total sentence sentiment score: %d\n", st.Score)
		for _, win := range scorer.Windows(st.Words) {
			fmt.Fprintf(w, "  Window %d-%d: [%s] -> Score: %d\n",
				win.Start, win.End, strings.Join(win.Words, " "), win.Score)
		}
	}
}
