// Package embedding provides the query-embedding interface backed by an
// external provider. The retrieval core never computes embeddings itself;
// callers that have no provider substitute ZeroVector.
package embedding

import "context"

// DefaultDimensions is the embedding width the retrieval core assumes
// (text-embedding-3-small / ada-002 width).
const DefaultDimensions = 1536

// Embedder produces a vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// ZeroVector returns an all-zero vector of the given dimensionality,
// the stand-in callers use when no embedding provider is available.
func ZeroVector(dimensions int) []float32 {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return make([]float32, dimensions)
}
