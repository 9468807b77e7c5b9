package sentiment

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/textnorm"
)

// Table maps folded words to signed integer valence. Absent words score 0.
// A Table is never mutated after construction.
type Table struct {
	scores map[string]int
}

// NewTable builds a table from scores, folding every key. Keys that fold to
// the same word resolve by sort order: the key that sorts last wins.
func NewTable(scores map[string]int) *Table {
	keys := make([]string, 0, len(scores))
	for w := range scores {
		keys = append(keys, w)
	}
	sort.Strings(keys)

	t := &Table{scores: make(map[string]int, len(scores))}
	for _, w := range keys {
		t.scores[textnorm.Fold(w)] = scores[w]
	}
	return t
}

// Get returns the valence of word, folding it first.
func (t *Table) Get(word string) int {
	return t.scores[textnorm.Fold(word)]
}

// GetFolded is Get for a word that is already folded.
func (t *Table) GetFolded(word string) int {
	return t.scores[word]
}

// Len returns the number of scored words.
func (t *Table) Len() int {
	return len(t.scores)
}

// LoadStats reports what LoadTable read.
type LoadStats struct {
	Loaded  int // lines turned into entries
	Skipped int // non-blank lines with the wrong shape
}

// LoadTable reads a tab-delimited "word<TAB>score" table (AFINN format).
// Lines with the wrong field count or a non-integer score are skipped and
// counted in LoadStats.Skipped. Blank lines are ignored. A later line for the
// same word replaces an earlier one.
func LoadTable(r io.Reader) (*Table, LoadStats, error) {
	t := &Table{scores: make(map[string]int)}
	var stats LoadStats

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) != 2 {
			stats.Skipped++
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			stats.Skipped++
			continue
		}
		word := textnorm.Fold(strings.TrimSpace(parts[0]))
		if word == "" {
			stats.Skipped++
			continue
		}

		t.scores[word] = score
		stats.Loaded++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read sentiment table: %w", err)
	}

	return t, stats, nil
}

// LoadTableFile loads a sentiment table from path.
// A missing or unreadable file is reported as internalerr.ErrInvalidConfig.
func LoadTableFile(path string) (*Table, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("%w: open sentiment table %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	defer f.Close()

	t, stats, err := LoadTable(f)
	if err != nil {
		return nil, stats, fmt.Errorf("%w: sentiment table %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	return t, stats, nil
}
