// Package catalog reads the movie catalog the batch driver analyzes: a JSON
// object keyed by IMDB id whose values carry movie metadata and raw reviews.
//
// The catalog is an input collaborator only. Fetching metadata from a remote
// service is not part of this package.
package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// Movie is one catalog entry.
type Movie struct {
	ID            string   `json:"-"`
	Name          string   `json:"name"`
	Poster        string   `json:"poster"`
	Description   string   `json:"description"`
	Rating        *float64 `json:"rating"`
	Genres        []string `json:"genres"`
	DatePublished string   `json:"date_published"`
	Keywords      []string `json:"keywords"`
	Reviews       []string `json:"reviews"`
}

// Catalog is an ordered collection of movies. Order is the order of the
// source file, which keeps every derived output deterministic.
type Catalog struct {
	Movies []Movie
	index  map[string]int
}

// New builds a catalog from movies. A later movie with a duplicate ID
// replaces the earlier one in place.
func New(movies []Movie) *Catalog {
	c := &Catalog{index: make(map[string]int, len(movies))}
	for _, m := range movies {
		c.add(m)
	}
	return c
}

func (c *Catalog) add(m Movie) {
	if i, ok := c.index[m.ID]; ok {
		c.Movies[i] = m
		return
	}
	c.index[m.ID] = len(c.Movies)
	c.Movies = append(c.Movies, m)
}

// Load decodes a catalog object, preserving key order.
func Load(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	c := New(nil)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read movie id: %w", err)
		}
		id, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: movie id must be a string, got %v", internalerr.ErrInvalidInput, tok)
		}

		var m Movie
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode movie %s: %w", id, err)
		}
		m.ID = id
		c.add(m)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return c, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q in catalog, got %v", internalerr.ErrInvalidInput, want, tok)
	}
	return nil
}

// LoadFile loads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open catalog %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Get returns the movie with the given id.
func (c *Catalog) Get(id string) (Movie, error) {
	i, ok := c.index[id]
	if !ok {
		return Movie{}, fmt.Errorf("movie %s: %w", id, internalerr.ErrNotFound)
	}
	return c.Movies[i], nil
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	return len(c.Movies)
}

// ReviewCount returns the number of reviews across all movies.
func (c *Catalog) ReviewCount() int {
	total := 0
	for _, m := range c.Movies {
		total += len(m.Reviews)
	}
	return total
}

// Write encodes the catalog as a JSON object keyed by movie id, in catalog
// order.
func (c *Catalog) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("{")
	for i, m := range c.Movies {
		if i > 0 {
			bw.WriteString(",")
		}
		key, err := json.Marshal(m.ID)
		if err != nil {
			return fmt.Errorf("encode movie id: %w", err)
		}
		val, err := json.MarshalIndent(m, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode movie %s: %w", m.ID, err)
		}
		bw.WriteString("\n  ")
		bw.Write(key)
		bw.WriteString(": ")
		bw.Write(val)
	}
	if len(c.Movies) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("}\n")
	return bw.Flush()
}
