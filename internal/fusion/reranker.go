// Package fusion merges dense and sparse candidate sets and reranks them by
// a weighted combination of the signals each candidate carries.
package fusion

import (
	"sort"

	"github.com/propseek/propseek/internal/models"
)

// Signal weights. A result's combined score divides by the sum of the
// weights actually present, so a dense-only result keeps its dense score
// exactly.
const (
	DenseWeight    = 0.4
	SparseWeight   = 0.3
	MetadataWeight = 0.3

	// noSignalScore is assigned when a candidate carries no signal at all.
	noSignalScore = 0.5
)

// Merge unions dense and sparse candidates by ID. When both legs return the
// same listing, the sparse score is copied onto the existing dense entry
// (which becomes hybrid) instead of creating a duplicate. Dense-then-sparse
// insertion order is preserved for stable tie-breaking downstream.
func Merge(dense, sparse []models.SearchResult) []models.SearchResult {
	merged := make([]models.SearchResult, 0, len(dense)+len(sparse))
	position := make(map[string]int, len(dense))

	for _, res := range dense {
		position[res.ID] = len(merged)
		merged = append(merged, res)
	}
	for _, res := range sparse {
		if i, seen := position[res.ID]; seen {
			merged[i].SparseScore = res.SparseScore
			merged[i].Strategy = models.StrategyHybrid
			continue
		}
		position[res.ID] = len(merged)
		merged = append(merged, res)
	}
	return merged
}

// Rerank computes each candidate's combined score from its present signals,
// sorts descending with a stable sort (ties keep merge insertion order), and
// truncates to topK. After Rerank, Score equals *CombinedScore on every
// returned result.
func Rerank(results []models.SearchResult, filter *models.ListingSpecs, topK int) []models.SearchResult {
	reranked := make([]models.SearchResult, len(results))
	copy(reranked, results)

	for i := range reranked {
		res := &reranked[i]
		if res.MetadataScore == nil && filter != nil && res.Metadata != nil {
			if fraction, ok := filter.MetadataFraction(res.Metadata); ok {
				res.MetadataScore = models.Float64Ptr(fraction)
			}
		}

		var weighted, weightSum float64
		if res.DenseScore != nil {
			weighted += *res.DenseScore * DenseWeight
			weightSum += DenseWeight
		}
		if res.SparseScore != nil {
			weighted += *res.SparseScore * SparseWeight
			weightSum += SparseWeight
		}
		if res.MetadataScore != nil {
			weighted += *res.MetadataScore * MetadataWeight
			weightSum += MetadataWeight
		}

		combined := noSignalScore
		if weightSum > 0 {
			combined = weighted / weightSum
		}
		res.CombinedScore = models.Float64Ptr(combined)
		res.Score = combined
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return *reranked[i].CombinedScore > *reranked[j].CombinedScore
	})

	if topK > 0 && len(reranked) > topK {
		reranked = reranked[:topK]
	}
	return reranked
}
