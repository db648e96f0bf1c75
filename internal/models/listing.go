// Package models defines core data structures for listings, queries, and search results.
package models

// Listing represents a corpus document: one property, vehicle, or service
// listing with freeform metadata (location, price, type, bedrooms, ...).
type Listing struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
