package models

import "strings"

// MatchesMetadata reports whether metadata satisfies every applicable filter
// criterion: exact location/type, price at or under budget. Used as the
// sparse retriever's post-filter. Nil or empty specs match everything.
func (s *ListingSpecs) MatchesMetadata(meta map[string]interface{}) bool {
	if s == nil {
		return true
	}
	if s.Location != "" && !metaStringEquals(meta, "location", s.Location) {
		return false
	}
	if s.Type != "" && !metaStringEquals(meta, "type", string(s.Type)) {
		return false
	}
	if s.BudgetMax != nil {
		price, ok := metaNumber(meta, "price")
		if !ok || price > float64(*s.BudgetMax) {
			return false
		}
	}
	return true
}

// MetadataFraction returns the fraction of applicable criteria (location,
// type, budget, bedrooms) that metadata satisfies. ok is false when the
// specs carry no applicable criteria.
func (s *ListingSpecs) MetadataFraction(meta map[string]interface{}) (float64, bool) {
	total := s.CriteriaCount()
	if total == 0 {
		return 0, false
	}
	matched := 0
	if s.Location != "" && metaStringEquals(meta, "location", s.Location) {
		matched++
	}
	if s.Type != "" && metaStringEquals(meta, "type", string(s.Type)) {
		matched++
	}
	if s.BudgetMax != nil {
		if price, ok := metaNumber(meta, "price"); ok && price <= float64(*s.BudgetMax) {
			matched++
		}
	}
	if s.Bedrooms != nil {
		if n, ok := metaNumber(meta, "bedrooms"); ok && int(n) == *s.Bedrooms {
			matched++
		}
	}
	return float64(matched) / float64(total), true
}

func metaStringEquals(meta map[string]interface{}, key, want string) bool {
	v, ok := meta[key]
	if !ok {
		return false
	}
	str, ok := v.(string)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(str), want)
}

// metaNumber coerces the common numeric encodings a metadata map picks up
// from JSON or SQL sources.
func metaNumber(meta map[string]interface{}, key string) (float64, bool) {
	v, ok := meta[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
