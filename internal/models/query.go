package models

import "fmt"

// TransformedQuery is the retrieval-optimized form of a raw query.
// Created fresh per request by the transformer, immutable once returned.
type TransformedQuery struct {
	// Original is the raw, trimmed input.
	Original string `json:"original"`
	// Rewritten is a short hypothetical listing generated to resemble an
	// ideal match, capped at 300 characters.
	Rewritten string `json:"rewritten"`
	// Expanded is the original query with domain synonyms injected and
	// duplicate tokens removed.
	Expanded string `json:"expanded"`
	// Specs holds the structured filters extracted from the query.
	Specs ListingSpecs `json:"parsed_specs"`
	// EmbeddingReady is false only when the original query was empty.
	EmbeddingReady bool `json:"embedding_ready"`
	// Score is a confidence heuristic over transformation quality, in [0,1].
	Score float64 `json:"transformation_score"`
}

// RetrievalRequest is the engine's typed input: one request per query.
type RetrievalRequest struct {
	Query       string        `json:"query"`
	Embedding   []float32     `json:"-"`
	Filter      *ListingSpecs `json:"filter,omitempty"`
	TopK        int           `json:"top_k,omitempty"`
	UseDense    bool          `json:"use_dense,omitempty"`
	UseSparse   bool          `json:"use_sparse,omitempty"`
	UseMetadata bool          `json:"use_metadata,omitempty"`
}

// Validate normalizes the request: defaults TopK to 10, caps it at 100,
// and enables both retrievers when neither is set. An empty query is valid
// (it yields a well-defined empty transformation), a nil request is not.
func (r *RetrievalRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("request cannot be nil")
	}
	if r.TopK <= 0 {
		r.TopK = 10
	}
	if r.TopK > 100 {
		r.TopK = 100
	}
	if !r.UseDense && !r.UseSparse {
		r.UseDense = true
		r.UseSparse = true
	}
	return nil
}
