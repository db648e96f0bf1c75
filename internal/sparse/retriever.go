// Package sparse provides keyword retrieval over an in-memory Bleve index.
// Indexing builds a fresh generation and publishes it atomically; searches
// always observe exactly one consistent generation.
package sparse

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"go.uber.org/zap"

	"github.com/propseek/propseek/internal/models"
)

// indexedListing is the shape handed to Bleve; only title and content are
// keyword-searchable, metadata stays on the side in the generation map.
type indexedListing struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// generation is one immutable build of the index: the Bleve index plus the
// listing map for metadata filtering and display fields.
type generation struct {
	index bleve.Index
	docs  map[string]models.Listing
	size  int
}

// Retriever is the sparse (keyword) retriever. Safe for concurrent use;
// Index replaces the whole corpus, it never updates incrementally.
type Retriever struct {
	gen    atomic.Pointer[generation]
	logger *zap.Logger
}

// NewRetriever creates an empty sparse retriever. Searches return no results
// until Index is called.
func NewRetriever(logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{logger: logger}
}

// Index builds a new in-memory generation from docs and atomically publishes
// it. In-flight searches keep their old snapshot until they finish; the old
// generation is reclaimed by the GC (memory-only indexes hold no OS handles).
func (r *Retriever) Index(docs []models.Listing) error {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textField := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming, so listing terms
	// match queries verbatim.
	textField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textField)
	docMapping.AddFieldMappingsAt("content", textField)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return fmt.Errorf("failed to create keyword index: %w", err)
	}

	batch := index.NewBatch()
	byID := make(map[string]models.Listing, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			continue
		}
		byID[doc.ID] = doc
		if err := batch.Index(doc.ID, indexedListing{Title: doc.Title, Content: doc.Content}); err != nil {
			return fmt.Errorf("failed to batch listing %s: %w", doc.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index listings: %w", err)
	}

	r.gen.Store(&generation{index: index, docs: byID, size: len(byID)})
	r.logger.Debug("keyword index rebuilt", zap.Int("listings", len(byID)))
	return nil
}

// Size returns the number of listings in the current generation.
func (r *Retriever) Size() int {
	gen := r.gen.Load()
	if gen == nil {
		return 0
	}
	return gen.size
}

// Search scores the whole corpus for query, drops non-positive scores,
// normalizes by the batch maximum (the top hit scores 1.0), applies the
// metadata post-filter, and cuts to topK. An unbuilt index yields no results
// and no error; the returned count can be smaller than topK.
func (r *Retriever) Search(ctx context.Context, query string, topK int, filter *models.ListingSpecs) []models.SearchResult {
	gen := r.gen.Load()
	if gen == nil || gen.size == 0 || topK <= 0 {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = gen.size
	res, err := gen.index.SearchInContext(ctx, req)
	if err != nil {
		r.logger.Warn("keyword search failed", zap.Error(err))
		return nil
	}
	if len(res.Hits) == 0 {
		return nil
	}

	maxScore := 0.0
	for _, hit := range res.Hits {
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}
	if maxScore <= 0 {
		return nil
	}

	results := make([]models.SearchResult, 0, topK)
	for _, hit := range res.Hits {
		if hit.Score <= 0 {
			continue
		}
		doc, ok := gen.docs[hit.ID]
		if !ok {
			continue
		}
		if !filter.MatchesMetadata(doc.Metadata) {
			continue
		}
		norm := hit.Score / maxScore
		results = append(results, models.SearchResult{
			ID:          doc.ID,
			Title:       doc.Title,
			Content:     doc.Content,
			Score:       norm,
			Strategy:    models.StrategySparse,
			SparseScore: models.Float64Ptr(norm),
			Metadata:    doc.Metadata,
		})
		if len(results) == topK {
			break
		}
	}
	return results
}
