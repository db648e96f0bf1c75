package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/propseek/propseek/pkg/utils"
)

// MockEmbedder is a deterministic Embedder for tests and offline runs.
// It hashes each token into a bucket and L2-normalizes the result, so
// similar texts get similar vectors without any network call.
type MockEmbedder struct {
	Dims int
	Err  error
}

// Embed implements Embedder.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	dims := m.Dimensions()
	vec := make([]float32, dims)
	for _, tok := range utils.Tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		bucket := int(h.Sum32()) % dims
		if bucket < 0 {
			bucket += dims
		}
		vec[bucket] += 1
	}
	utils.NormalizeL2(vec)
	if norm := l2(vec); norm == 0 && len(text) > 0 {
		vec[0] = 1
	}
	return vec, nil
}

// Dimensions returns the configured width, defaulting to DefaultDimensions.
func (m *MockEmbedder) Dimensions() int {
	if m.Dims > 0 {
		return m.Dims
	}
	return DefaultDimensions
}

func l2(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v * v)
	}
	return math.Sqrt(sum)
}
