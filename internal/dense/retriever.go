package dense

import (
	"context"

	"go.uber.org/zap"

	"github.com/propseek/propseek/internal/models"
	"github.com/propseek/propseek/pkg/utils"
)

// Retriever runs nearest-neighbor search and converts distances to
// normalized similarities. Store failures degrade to an empty result.
type Retriever struct {
	store  VectorStore
	logger *zap.Logger
}

// NewRetriever creates a dense retriever over store.
func NewRetriever(store VectorStore, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{store: store, logger: logger}
}

// Search requests topK nearest neighbors, translating specs into the store's
// native predicates. Each hit gets similarity = 1 - distance/2, clamped to
// [0,1]. A store failure logs and returns an empty list, never an error.
func (r *Retriever) Search(ctx context.Context, embedding []float32, topK int, specs *models.ListingSpecs) []models.SearchResult {
	if r.store == nil || len(embedding) == 0 || topK <= 0 {
		return nil
	}

	matches, err := r.store.Query(ctx, embedding, topK, translateSpecs(specs))
	if err != nil {
		r.logger.Warn("vector store query failed", zap.Error(err))
		return nil
	}

	results := make([]models.SearchResult, 0, len(matches))
	for _, m := range matches {
		similarity := utils.Clamp01(1 - m.Distance/2)
		results = append(results, models.SearchResult{
			ID:         m.ID,
			Title:      m.Title,
			Content:    m.Content,
			Score:      similarity,
			Strategy:   models.StrategyDense,
			DenseScore: models.Float64Ptr(similarity),
			Metadata:   m.Metadata,
		})
	}
	return results
}

// translateSpecs converts structured filters into the store's predicates:
// location and type as equality, budget as a price ceiling. Absent fields
// are omitted.
func translateSpecs(specs *models.ListingSpecs) *Filter {
	if specs.Empty() {
		return nil
	}
	filter := &Filter{}
	if specs.Location != "" || specs.Type != "" {
		filter.Equals = make(map[string]string)
		if specs.Location != "" {
			filter.Equals["location"] = specs.Location
		}
		if specs.Type != "" {
			filter.Equals["type"] = string(specs.Type)
		}
	}
	if specs.BudgetMax != nil {
		max := float64(*specs.BudgetMax)
		filter.MaxPrice = &max
	}
	if filter.Equals == nil && filter.MaxPrice == nil {
		return nil
	}
	return filter
}
