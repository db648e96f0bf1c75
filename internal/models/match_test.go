package models

import "testing"

func kyreniaApartment() map[string]interface{} {
	return map[string]interface{}{
		"location": "Kyrenia",
		"type":     "apartment",
		"price":    600.0,
		"bedrooms": 2,
	}
}

func TestMatchesMetadata(t *testing.T) {
	budget := 700
	specs := &ListingSpecs{Type: TypeApartment, Location: "kyrenia", BudgetMax: &budget}

	if !specs.MatchesMetadata(kyreniaApartment()) {
		t.Error("expected metadata to match")
	}

	over := kyreniaApartment()
	over["price"] = 900.0
	if specs.MatchesMetadata(over) {
		t.Error("expected over-budget listing to be rejected")
	}

	wrongPlace := kyreniaApartment()
	wrongPlace["location"] = "nicosia"
	if specs.MatchesMetadata(wrongPlace) {
		t.Error("expected wrong location to be rejected")
	}

	var nilSpecs *ListingSpecs
	if !nilSpecs.MatchesMetadata(kyreniaApartment()) {
		t.Error("nil specs should match everything")
	}
}

func TestMatchesMetadata_CaseInsensitive(t *testing.T) {
	specs := &ListingSpecs{Location: "KYRENIA"}
	if !specs.MatchesMetadata(kyreniaApartment()) {
		t.Error("location comparison should ignore case")
	}
}

func TestMetadataFraction(t *testing.T) {
	budget := 700
	bedrooms := 2
	specs := &ListingSpecs{
		Type:      TypeApartment,
		Location:  "kyrenia",
		BudgetMax: &budget,
		Bedrooms:  &bedrooms,
	}

	frac, ok := specs.MetadataFraction(kyreniaApartment())
	if !ok || frac != 1.0 {
		t.Errorf("expected full match 1.0, got %f ok=%v", frac, ok)
	}

	partial := kyreniaApartment()
	partial["price"] = 900.0
	partial["location"] = "nicosia"
	frac, ok = specs.MetadataFraction(partial)
	if !ok || frac != 0.5 {
		t.Errorf("expected 2/4 match, got %f ok=%v", frac, ok)
	}
}

func TestMetadataFraction_NoCriteria(t *testing.T) {
	specs := &ListingSpecs{Amenities: []string{"pool"}}
	if _, ok := specs.MetadataFraction(kyreniaApartment()); ok {
		t.Error("amenities alone carry no metadata criteria")
	}

	var nilSpecs *ListingSpecs
	if _, ok := nilSpecs.MetadataFraction(kyreniaApartment()); ok {
		t.Error("nil specs should report no applicable criteria")
	}
}
