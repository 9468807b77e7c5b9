package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/textnorm"
)

// Lexicon is the immutable set of known words used to validate segmentation
// tokens. Entries are stored folded; membership queries fold their argument,
// so lookups are case-insensitive.
//
// A Lexicon is built once by one of the constructors and never mutated
// afterwards, which makes it safe to share between goroutines.
type Lexicon struct {
	words      map[string]struct{}
	maxWordLen int // longest entry, in runes
}

// New builds a lexicon from words. Entries are trimmed and folded; blanks are
// dropped and duplicates collapse.
func New(words []string) *Lexicon {
	lex := &Lexicon{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		lex.add(w)
	}
	return lex
}

func (l *Lexicon) add(word string) {
	word = textnorm.Fold(strings.TrimSpace(word))
	if word == "" {
		return
	}
	l.words[word] = struct{}{}
	if n := utf8.RuneCountInString(word); n > l.maxWordLen {
		l.maxWordLen = n
	}
}

// Load reads a newline-delimited word list. Order is irrelevant and
// duplicates collapse.
func Load(r io.Reader) (*Lexicon, error) {
	lex := New(nil)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lex.add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return lex, nil
}

// LoadFile loads a newline-delimited word list from path.
// A missing or unreadable file is reported as internalerr.ErrInvalidConfig.
func LoadFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open lexicon %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	defer f.Close()

	lex, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%w: lexicon %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	return lex, nil
}

// LoadFromYAML loads a word list from a YAML file.
//
// Expected format:
//
//	words:
//	  - movie
//	  - plot
//	  - acting
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read lexicon %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	var doc struct {
		Words []string `yaml:"words"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse lexicon %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	return New(doc.Words), nil
}

// Contains reports whether word (folded) is a lexicon member.
func (l *Lexicon) Contains(word string) bool {
	_, ok := l.words[textnorm.Fold(word)]
	return ok
}

// ContainsFolded is Contains for a word the caller has already passed
// through textnorm.Fold.
func (l *Lexicon) ContainsFolded(word string) bool {
	_, ok := l.words[word]
	return ok
}

// Valid implements Validator by set membership.
func (l *Lexicon) Valid(word string) bool {
	return l.Contains(word)
}

// Len returns the number of distinct words.
func (l *Lexicon) Len() int {
	return len(l.words)
}

// MaxWordLen returns the rune length of the longest entry.
func (l *Lexicon) MaxWordLen() int {
	return l.maxWordLen
}

// Words returns all entries in sorted order.
func (l *Lexicon) Words() []string {
	result := make([]string, 0, len(l.words))
	for w := range l.words {
		result = append(result, w)
	}
	sort.Strings(result)
	return result
}
