package sparse

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/propseek/propseek/internal/models"
)

func testCorpus() []models.Listing {
	return []models.Listing{
		{
			ID:      "l1",
			Title:   "Cozy apartment in Kyrenia",
			Content: "Two bedroom furnished apartment near the harbour with sea view.",
			Metadata: map[string]interface{}{
				"location": "kyrenia", "type": "apartment", "price": 600.0, "bedrooms": 2,
			},
		},
		{
			ID:      "l2",
			Title:   "Large villa in Nicosia",
			Content: "Four bedroom villa with private pool and garden.",
			Metadata: map[string]interface{}{
				"location": "nicosia", "type": "house", "price": 1800.0, "bedrooms": 4,
			},
		},
		{
			ID:      "l3",
			Title:   "Budget studio in Kyrenia",
			Content: "Small studio apartment close to the university, unfurnished.",
			Metadata: map[string]interface{}{
				"location": "kyrenia", "type": "apartment", "price": 350.0, "bedrooms": 1,
			},
		},
	}
}

func TestSearch_UnbuiltIndexReturnsEmpty(t *testing.T) {
	r := NewRetriever(nil)
	results := r.Search(context.Background(), "apartment", 5, nil)
	if len(results) != 0 {
		t.Errorf("expected no results before indexing, got %d", len(results))
	}
}

func TestIndexAndSearch(t *testing.T) {
	r := NewRetriever(nil)
	if err := r.Index(testCorpus()); err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if r.Size() != 3 {
		t.Fatalf("expected 3 listings, got %d", r.Size())
	}

	results := r.Search(context.Background(), "apartment kyrenia", 10, nil)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Score != 1.0 {
		t.Errorf("top hit should normalize to 1.0, got %f", results[0].Score)
	}
	for _, res := range results {
		if res.SparseScore == nil || *res.SparseScore <= 0 {
			t.Errorf("result %s has non-positive sparse score", res.ID)
		}
		if res.Strategy != models.StrategySparse {
			t.Errorf("result %s has strategy %s", res.ID, res.Strategy)
		}
		if res.DenseScore != nil {
			t.Errorf("result %s should not carry a dense score", res.ID)
		}
	}
}

func TestSearch_MetadataFilter(t *testing.T) {
	r := NewRetriever(nil)
	if err := r.Index(testCorpus()); err != nil {
		t.Fatalf("index failed: %v", err)
	}

	budget := 700
	filter := &models.ListingSpecs{Location: "kyrenia", BudgetMax: &budget}
	results := r.Search(context.Background(), "apartment", 10, filter)
	for _, res := range results {
		if res.Metadata["location"] != "kyrenia" {
			t.Errorf("result %s violates location filter", res.ID)
		}
		if price := res.Metadata["price"].(float64); price > 700 {
			t.Errorf("result %s violates budget filter (price %f)", res.ID, price)
		}
	}
	if len(results) == 0 {
		t.Error("expected kyrenia apartments under budget")
	}
}

func TestSearch_TopKCut(t *testing.T) {
	r := NewRetriever(nil)
	if err := r.Index(testCorpus()); err != nil {
		t.Fatalf("index failed: %v", err)
	}
	results := r.Search(context.Background(), "apartment villa studio", 1, nil)
	if len(results) > 1 {
		t.Errorf("expected at most 1 result, got %d", len(results))
	}
}

func TestSearch_NoMatches(t *testing.T) {
	r := NewRetriever(nil)
	if err := r.Index(testCorpus()); err != nil {
		t.Fatalf("index failed: %v", err)
	}
	results := r.Search(context.Background(), "zzzzqqqq", 10, nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestIndex_FullReplace(t *testing.T) {
	r := NewRetriever(nil)
	if err := r.Index(testCorpus()); err != nil {
		t.Fatalf("index failed: %v", err)
	}
	replacement := []models.Listing{
		{ID: "n1", Title: "Rental car in Famagusta", Content: "Compact car for daily hire."},
	}
	if err := r.Index(replacement); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	if r.Size() != 1 {
		t.Errorf("expected full replace to 1 listing, got %d", r.Size())
	}
	if results := r.Search(context.Background(), "apartment", 10, nil); len(results) != 0 {
		t.Errorf("old corpus should be gone, got %d results", len(results))
	}
}

func TestConcurrentSearchDuringReindex(t *testing.T) {
	r := NewRetriever(nil)
	if err := r.Index(testCorpus()); err != nil {
		t.Fatalf("index failed: %v", err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				results := r.Search(context.Background(), "apartment kyrenia", 10, nil)
				// Every search sees one consistent generation: either all
				// hits resolve to listings or none are returned.
				for _, res := range results {
					if res.Title == "" {
						t.Error("search observed a partially built generation")
						return
					}
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		docs := testCorpus()
		docs = append(docs, models.Listing{
			ID:      fmt.Sprintf("extra-%d", i),
			Title:   "Modern apartment in Kyrenia centre",
			Content: "Newly renovated apartment with parking.",
		})
		if err := r.Index(docs); err != nil {
			t.Errorf("reindex failed: %v", err)
		}
	}
	close(stop)
	wg.Wait()
}
