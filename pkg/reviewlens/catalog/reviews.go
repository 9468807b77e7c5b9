package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var imdbID = regexp.MustCompile(`tt\d+`)

// ParseURLs reads one review URL per line and returns the IMDB id of each
// line that carries one, in input order. Duplicates are kept: the n-th id
// belongs to the n-th review file.
func ParseURLs(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if id := imdbID.FindString(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return ids, nil
}

// LoadReviewDir reads every "<n>_<rating>.txt" file of dir, ordered by the
// numeric prefix n. Files without a numeric prefix sort last, by name.
func LoadReviewDir(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(paths, func(i, j int) bool {
		pi, oki := reviewPrefix(paths[i])
		pj, okj := reviewPrefix(paths[j])
		switch {
		case oki && okj && pi != pj:
			return pi < pj
		case oki != okj:
			return oki
		}
		return paths[i] < paths[j]
	})

	reviews := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read review %s: %w", p, err)
		}
		reviews = append(reviews, string(data))
	}
	return reviews, nil
}

func reviewPrefix(path string) (int, bool) {
	base := filepath.Base(path)
	prefix, _, _ := strings.Cut(base, "_")
	n, err := strconv.Atoi(prefix)
	return n, err == nil
}

// Build pairs the n-th id with the n-th review and groups reviews per movie.
// Movies appear in order of first occurrence. Surplus ids or reviews are
// ignored.
func Build(ids, reviews []string) *Catalog {
	c := New(nil)
	for i := 0; i < len(ids) && i < len(reviews); i++ {
		id := ids[i]
		if idx, ok := c.index[id]; ok {
			c.Movies[idx].Reviews = append(c.Movies[idx].Reviews, reviews[i])
			continue
		}
		c.add(Movie{ID: id, Reviews: []string{reviews[i]}})
	}
	return c
}
