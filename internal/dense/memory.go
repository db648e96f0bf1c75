package dense

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/propseek/propseek/internal/models"
)

// MemoryStore is a brute-force in-memory VectorStore using cosine distance.
// Serves tests and deployments without an external vector database.
type MemoryStore struct {
	dimensions int
	mu         sync.RWMutex
	entries    []memoryEntry
}

type memoryEntry struct {
	listing models.Listing
	vector  []float32
}

// NewMemoryStore creates an in-memory store for vectors of the given width.
func NewMemoryStore(dimensions int) (*MemoryStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryStore{dimensions: dimensions}, nil
}

// Add appends listings with their embedding vectors.
func (s *MemoryStore) Add(ctx context.Context, listings []models.Listing, vectors [][]float32) error {
	if len(listings) != len(vectors) {
		return fmt.Errorf("listings and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, listing := range listings {
		if len(vectors[i]) != s.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), s.dimensions)
		}
		vec := make([]float32, s.dimensions)
		copy(vec, vectors[i])
		s.entries = append(s.entries, memoryEntry{listing: listing, vector: vec})
	}
	return nil
}

// Replace swaps the full contents of the store with the given listings and
// vectors. Used when the corpus is reloaded wholesale.
func (s *MemoryStore) Replace(ctx context.Context, listings []models.Listing, vectors [][]float32) error {
	if len(listings) != len(vectors) {
		return fmt.Errorf("listings and vectors length mismatch")
	}
	entries := make([]memoryEntry, 0, len(listings))
	for i, listing := range listings {
		if len(vectors[i]) != s.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), s.dimensions)
		}
		vec := make([]float32, s.dimensions)
		copy(vec, vectors[i])
		entries = append(entries, memoryEntry{listing: listing, vector: vec})
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Size returns the number of stored vectors.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Query implements VectorStore: filters entries, ranks them by cosine
// distance to the query embedding ascending, and returns up to k matches.
func (s *MemoryStore) Query(ctx context.Context, embedding []float32, k int, filter *Filter) ([]Match, error) {
	if len(embedding) != s.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(embedding), s.dimensions)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k <= 0 || len(s.entries) == 0 {
		return nil, nil
	}

	matches := make([]Match, 0, len(s.entries))
	for _, entry := range s.entries {
		if !matchesFilter(entry.listing.Metadata, filter) {
			continue
		}
		matches = append(matches, Match{
			ID:       entry.listing.ID,
			Distance: cosineDistance(embedding, entry.vector),
			Title:    entry.listing.Title,
			Content:  entry.listing.Content,
			Metadata: entry.listing.Metadata,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func matchesFilter(meta map[string]interface{}, filter *Filter) bool {
	if filter == nil {
		return true
	}
	for key, want := range filter.Equals {
		v, ok := meta[key]
		if !ok {
			return false
		}
		str, ok := v.(string)
		if !ok || !strings.EqualFold(strings.TrimSpace(str), want) {
			return false
		}
	}
	if filter.MaxPrice != nil {
		price, ok := numericValue(meta["price"])
		if !ok || price > *filter.MaxPrice {
			return false
		}
	}
	return true
}

func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// cosineDistance returns 1 - cosine similarity, in [0,2]. Zero-norm inputs
// get the neutral distance 1.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
