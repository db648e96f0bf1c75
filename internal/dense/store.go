// Package dense provides embedding-based retrieval over a vector store.
package dense

import "context"

// Filter holds the store's native filter predicates: exact string equality
// per field plus an optional price ceiling. Absent fields are omitted, not
// defaulted.
type Filter struct {
	Equals   map[string]string
	MaxPrice *float64
}

// Match is one nearest-neighbor hit returned by a vector store. Distance is
// the store's cosine distance in [0,2].
type Match struct {
	ID       string
	Distance float64
	Title    string
	Content  string
	Metadata map[string]interface{}
}

// VectorStore is the narrow interface the dense retriever calls. The core
// never owns the store; it only queries it.
type VectorStore interface {
	Query(ctx context.Context, embedding []float32, k int, filter *Filter) ([]Match, error)
}
