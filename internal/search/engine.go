// Package search provides the hybrid retrieval engine: query transformation,
// concurrent dense and sparse retrieval, and score fusion.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propseek/propseek/internal/dense"
	"github.com/propseek/propseek/internal/embedding"
	"github.com/propseek/propseek/internal/fusion"
	"github.com/propseek/propseek/internal/models"
	"github.com/propseek/propseek/internal/sparse"
	"github.com/propseek/propseek/internal/transform"
)

// Engine runs the full query pipeline. All external failures degrade to
// partial or empty results; Search errors only on an invalid request.
type Engine struct {
	transformer *transform.Transformer
	dense       *dense.Retriever
	sparse      *sparse.Retriever
	embedder    embedding.Embedder
	candidates  int
	logger      *zap.Logger
}

// Config holds engine construction parameters.
type Config struct {
	Transformer *transform.Transformer
	Dense       *dense.Retriever
	Sparse      *sparse.Retriever
	// Embedder supplies query embeddings when the request carries none.
	// Optional; without it the zero vector stands in.
	Embedder embedding.Embedder
	// Candidates is the per-leg candidate pool size before fusion.
	Candidates int
	Logger     *zap.Logger
}

// NewEngine creates the hybrid retrieval engine.
func NewEngine(cfg Config) *Engine {
	candidates := cfg.Candidates
	if candidates <= 0 {
		candidates = 50
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	transformer := cfg.Transformer
	if transformer == nil {
		transformer = transform.NewTransformer(nil, transform.WithLogger(logger))
	}
	return &Engine{
		transformer: transformer,
		dense:       cfg.Dense,
		sparse:      cfg.Sparse,
		embedder:    cfg.Embedder,
		candidates:  candidates,
		logger:      logger,
	}
}

// Search transforms the query, runs the enabled retrieval legs concurrently,
// fuses the candidates, and returns the top results with diagnostics.
func (e *Engine) Search(ctx context.Context, req *models.RetrievalRequest) (*models.RetrievalResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	searchID := uuid.NewString()

	transformed := e.transformer.Transform(ctx, req.Query)
	filter := e.effectiveFilter(req, transformed)

	var (
		denseResults  []models.SearchResult
		sparseResults []models.SearchResult
		wg            sync.WaitGroup
	)

	// An empty query is not embeddable; the dense leg still runs when the
	// caller supplied a vector of their own.
	runDense := transformed.EmbeddingReady || len(req.Embedding) > 0

	if req.UseDense && runDense && e.dense != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			denseResults = e.dense.Search(ctx, e.queryEmbedding(ctx, req, transformed), e.candidates, filter)
		}()
	}

	if req.UseSparse && e.sparse != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sparseText := transformed.Expanded
			if sparseText == "" {
				sparseText = req.Query
			}
			sparseResults = e.sparse.Search(ctx, sparseText, e.candidates, filter)
		}()
	}

	wg.Wait()

	merged := fusion.Merge(denseResults, sparseResults)
	var fusionFilter *models.ListingSpecs
	if req.UseMetadata {
		fusionFilter = filter
	}
	results := fusion.Rerank(merged, fusionFilter, req.TopK)

	response := &models.RetrievalResponse{
		Results:     results,
		Transformed: transformed,
		Summary: models.RetrievalSummary{
			SearchID:        searchID,
			TotalCandidates: len(merged),
			TopScore:        topScore(results),
			StrategiesUsed:  strategiesUsed(results),
		},
		QueryTime: time.Since(start).Milliseconds(),
	}

	e.logger.Debug("search completed",
		zap.String("search_id", searchID),
		zap.Int("dense_candidates", len(denseResults)),
		zap.Int("sparse_candidates", len(sparseResults)),
		zap.Int("results", len(results)),
		zap.Float64("transformation_score", transformed.Score),
	)
	return response, nil
}

// effectiveFilter prefers the caller's explicit filter; parsed specs apply
// only when the caller set none and asked for metadata matching.
func (e *Engine) effectiveFilter(req *models.RetrievalRequest, transformed models.TransformedQuery) *models.ListingSpecs {
	if req.Filter != nil {
		return req.Filter
	}
	if req.UseMetadata && !transformed.Specs.Empty() {
		specs := transformed.Specs
		return &specs
	}
	return nil
}

// queryEmbedding resolves the dense leg's input vector: the caller's
// embedding when supplied, otherwise one computed over the rewritten text,
// falling back to the zero vector so dense retrieval still runs.
func (e *Engine) queryEmbedding(ctx context.Context, req *models.RetrievalRequest, transformed models.TransformedQuery) []float32 {
	if len(req.Embedding) > 0 {
		return req.Embedding
	}
	dims := embedding.DefaultDimensions
	if e.embedder != nil {
		dims = e.embedder.Dimensions()
		text := transformed.Rewritten
		if text == "" {
			text = req.Query
		}
		vec, err := e.embedder.Embed(ctx, text)
		if err == nil {
			return vec
		}
		e.logger.Warn("query embedding failed, using zero vector", zap.Error(err))
	}
	return embedding.ZeroVector(dims)
}

func topScore(results []models.SearchResult) float64 {
	if len(results) == 0 {
		return 0
	}
	return results[0].Score
}

// strategiesUsed returns the distinct strategies present, in first-seen order.
func strategiesUsed(results []models.SearchResult) []models.Strategy {
	seen := make(map[models.Strategy]bool, 4)
	var out []models.Strategy
	for _, res := range results {
		if !seen[res.Strategy] {
			seen[res.Strategy] = true
			out = append(out, res.Strategy)
		}
	}
	return out
}
