package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON writes the report as a JSON object keyed by movie id, in catalog
// order.
func (r *Report) WriteJSON(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("{"); err != nil {
		return err
	}
	for i, mr := range r.Movies {
		if i > 0 {
			bw.WriteString(",")
		}
		key, err := json.Marshal(mr.ID)
		if err != nil {
			return fmt.Errorf("encode movie id: %w", err)
		}
		val, err := json.MarshalIndent(mr, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode movie %s: %w", mr.ID, err)
		}
		bw.WriteString("\n  ")
		bw.Write(key)
		bw.WriteString(": ")
		bw.Write(val)
	}
	if len(r.Movies) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// WriteFile writes the report JSON to path.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write results %s: %w", path, err)
	}
	return f.Close()
}

// Movie returns the result for the movie with the given id.
func (r *Report) Movie(id string) (MovieResult, bool) {
	for _, mr := range r.Movies {
		if mr.ID == id {
			return mr, true
		}
	}
	return MovieResult{}, false
}
