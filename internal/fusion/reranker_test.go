package fusion

import (
	"math"
	"testing"

	"github.com/propseek/propseek/internal/models"
)

func denseResult(id string, score float64) models.SearchResult {
	return models.SearchResult{
		ID: id, Strategy: models.StrategyDense,
		Score: score, DenseScore: models.Float64Ptr(score),
	}
}

func sparseResult(id string, score float64) models.SearchResult {
	return models.SearchResult{
		ID: id, Strategy: models.StrategySparse,
		Score: score, SparseScore: models.Float64Ptr(score),
	}
}

func TestMerge_SharedIDCopiesSparseScore(t *testing.T) {
	dense := []models.SearchResult{denseResult("a", 0.9), denseResult("b", 0.7)}
	sparse := []models.SearchResult{sparseResult("b", 0.8), sparseResult("c", 0.6)}

	merged := Merge(dense, sparse)
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged results, got %d", len(merged))
	}
	b := merged[1]
	if b.ID != "b" || b.DenseScore == nil || b.SparseScore == nil {
		t.Fatalf("expected b to carry both scores, got %+v", b)
	}
	if *b.SparseScore != 0.8 {
		t.Errorf("expected sparse score 0.8, got %f", *b.SparseScore)
	}
	if b.Strategy != models.StrategyHybrid {
		t.Errorf("expected hybrid strategy, got %s", b.Strategy)
	}
	// Insertion order: dense first, then sparse-only entries.
	if merged[0].ID != "a" || merged[2].ID != "c" {
		t.Errorf("unexpected merge order: %s, %s, %s", merged[0].ID, merged[1].ID, merged[2].ID)
	}
}

func TestRerank_DenseOnlyKeepsDenseScore(t *testing.T) {
	results := Rerank([]models.SearchResult{denseResult("a", 0.8), denseResult("b", 0.3)}, nil, 10)
	for _, res := range results {
		if res.CombinedScore == nil {
			t.Fatalf("result %s missing combined score", res.ID)
		}
		if *res.CombinedScore != *res.DenseScore {
			t.Errorf("dense-only result %s: combined %f != dense %f", res.ID, *res.CombinedScore, *res.DenseScore)
		}
		if res.Score != *res.CombinedScore {
			t.Errorf("result %s: score %f != combined %f", res.ID, res.Score, *res.CombinedScore)
		}
	}
}

func TestRerank_WeightedAverage(t *testing.T) {
	res := models.SearchResult{
		ID:            "a",
		DenseScore:    models.Float64Ptr(0.8),
		SparseScore:   models.Float64Ptr(0.6),
		MetadataScore: models.Float64Ptr(2.0 / 3.0),
	}
	out := Rerank([]models.SearchResult{res}, nil, 10)
	want := (0.8*0.4 + 0.6*0.3 + (2.0/3.0)*0.3) / (0.4 + 0.3 + 0.3)
	if math.Abs(*out[0].CombinedScore-want) > 1e-9 {
		t.Errorf("expected combined %f, got %f", want, *out[0].CombinedScore)
	}
}

func TestRerank_MetadataFractionFromFilter(t *testing.T) {
	budget := 600
	bedrooms := 2
	filter := &models.ListingSpecs{
		Location:  "kyrenia",
		BudgetMax: &budget,
		Bedrooms:  &bedrooms,
	}
	res := denseResult("a", 0.5)
	res.Metadata = map[string]interface{}{
		"location": "kyrenia", "price": 550.0, "bedrooms": 3,
	}
	out := Rerank([]models.SearchResult{res}, filter, 10)
	if out[0].MetadataScore == nil {
		t.Fatal("expected a metadata score")
	}
	// 2 of 3 applicable criteria matched (bedrooms differ).
	if math.Abs(*out[0].MetadataScore-2.0/3.0) > 1e-9 {
		t.Errorf("expected metadata score 0.667, got %f", *out[0].MetadataScore)
	}
}

func TestRerank_NoSignalsDefaults(t *testing.T) {
	out := Rerank([]models.SearchResult{{ID: "a"}}, nil, 10)
	if out[0].Score != 0.5 || *out[0].CombinedScore != 0.5 {
		t.Errorf("expected default 0.5, got %f", out[0].Score)
	}
}

func TestRerank_StableTieOrder(t *testing.T) {
	results := []models.SearchResult{
		denseResult("first", 0.7),
		denseResult("second", 0.7),
		denseResult("third", 0.7),
	}
	out := Rerank(results, nil, 10)
	if out[0].ID != "first" || out[1].ID != "second" || out[2].ID != "third" {
		t.Errorf("ties should keep insertion order, got %s, %s, %s", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestRerank_Deterministic(t *testing.T) {
	input := Merge(
		[]models.SearchResult{denseResult("a", 0.9), denseResult("b", 0.9)},
		[]models.SearchResult{sparseResult("c", 0.9), sparseResult("a", 0.4)},
	)
	first := Rerank(input, nil, 10)
	second := Rerank(input, nil, 10)
	if len(first) != len(second) {
		t.Fatal("rerank length changed between runs")
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Score != second[i].Score {
			t.Errorf("position %d differs between runs: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestRerank_Truncates(t *testing.T) {
	results := []models.SearchResult{
		denseResult("a", 0.9), denseResult("b", 0.8), denseResult("c", 0.7),
	}
	out := Rerank(results, nil, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("expected top two by score, got %s, %s", out[0].ID, out[1].ID)
	}
}

func TestRerank_DoesNotMutateInput(t *testing.T) {
	input := []models.SearchResult{denseResult("a", 0.9)}
	Rerank(input, nil, 10)
	if input[0].CombinedScore != nil {
		t.Error("rerank should not mutate its input slice")
	}
}
