package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/reviewlens/pkg/reviewlens/catalog"
)

func main() {
	var (
		urlLists   = flag.String("urls", "data/urls_neg.txt,data/urls_pos.txt", "Comma-separated review URL lists")
		reviewDirs = flag.String("reviews", "data/neg,data/pos", "Comma-separated review directories, paired with --urls")
		outPath    = flag.String("out", "data/imdb.json", "Catalog output path")
	)
	flag.Parse()

	cat, err := build(splitList(*urlLists), splitList(*reviewDirs))
	if err != nil {
		log.Fatal(err)
	}

	if err := writeCatalog(cat, *outPath); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote %d movies (%d reviews) to %s\n", cat.Len(), cat.ReviewCount(), *outPath)
}

// build concatenates the ids of every URL list and the reviews of every
// directory, in flag order, and pairs them up.
func build(urlLists, reviewDirs []string) (*catalog.Catalog, error) {
	if len(urlLists) != len(reviewDirs) {
		return nil, fmt.Errorf("got %d url lists for %d review directories", len(urlLists), len(reviewDirs))
	}

	var ids, reviews []string
	for i := range urlLists {
		f, err := os.Open(urlLists[i])
		if err != nil {
			return nil, fmt.Errorf("open url list: %w", err)
		}
		listIDs, err := catalog.ParseURLs(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", urlLists[i], err)
		}

		dirReviews, err := catalog.LoadReviewDir(reviewDirs[i])
		if err != nil {
			return nil, fmt.Errorf("load reviews: %w", err)
		}
		if len(listIDs) != len(dirReviews) {
			log.Printf("warning: %s has %d ids but %s has %d reviews", urlLists[i], len(listIDs), reviewDirs[i], len(dirReviews))
		}

		ids = append(ids, listIDs...)
		reviews = append(reviews, dirReviews...)
	}
	return catalog.Build(ids, reviews), nil
}

func writeCatalog(cat *catalog.Catalog, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create catalog: %w", err)
	}
	if err := cat.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("write catalog: %w", err)
	}
	return f.Close()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
