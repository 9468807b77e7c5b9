package store

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorSortable(t *testing.T) {
	g := NewIDGenerator()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	ids := make([]string, 0, 100)
	for range 100 {
		ids = append(ids, g.New(now))
	}

	assert.True(t, sort.StringsAreSorted(ids))
	parsed, err := ulid.Parse(ids[0])
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), parsed.Time())
}

func TestIDGeneratorConcurrent(t *testing.T) {
	g := NewIDGenerator()
	now := time.Now()

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				id := g.New(now)
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 400)
}
