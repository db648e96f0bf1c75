package models

import (
	"encoding/json"
	"fmt"
)

// Strategy tags the retrieval signal that produced a result.
type Strategy uint8

const (
	StrategyDense Strategy = iota
	StrategySparse
	StrategyMetadata
	StrategyHybrid
)

// String returns the wire name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyDense:
		return "dense"
	case StrategySparse:
		return "sparse"
	case StrategyMetadata:
		return "metadata"
	case StrategyHybrid:
		return "hybrid"
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// MarshalJSON encodes the strategy as its string name.
func (s Strategy) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// SearchResult is a single scored candidate. Per-signal scores are nil
// unless that signal fired. After fusion, Score equals *CombinedScore.
type SearchResult struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Content       string                 `json:"content"`
	Score         float64                `json:"score"`
	Strategy      Strategy               `json:"strategy"`
	DenseScore    *float64               `json:"dense_score,omitempty"`
	SparseScore   *float64               `json:"sparse_score,omitempty"`
	MetadataScore *float64               `json:"metadata_score,omitempty"`
	CombinedScore *float64               `json:"combined_score,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// RetrievalSummary is the diagnostic summary attached to every response.
type RetrievalSummary struct {
	SearchID        string     `json:"search_id"`
	TotalCandidates int        `json:"total_candidates"`
	TopScore        float64    `json:"top_score"`
	StrategiesUsed  []Strategy `json:"strategies_used"`
}

// RetrievalResponse is the engine's output for one request.
type RetrievalResponse struct {
	Results     []SearchResult   `json:"results"`
	Transformed TransformedQuery `json:"transformed_query"`
	Summary     RetrievalSummary `json:"summary"`
	QueryTime   int64            `json:"query_time_ms"`
}

// Float64Ptr returns a pointer to v; convenience for optional scores.
func Float64Ptr(v float64) *float64 { return &v }
