package models

// ListingType classifies what kind of listing a query is after.
type ListingType string

const (
	TypeApartment ListingType = "apartment"
	TypeHouse     ListingType = "house"
	TypeCar       ListingType = "car"
	TypeService   ListingType = "service"
)

// ListingSpecs holds structured filters extracted from a query or supplied
// by the caller. Pointer fields distinguish "not detected" from zero values;
// empty strings mean unset.
type ListingSpecs struct {
	Type      ListingType `json:"type,omitempty"`
	Bedrooms  *int        `json:"bedrooms,omitempty"`
	Location  string      `json:"location,omitempty"`
	BudgetMax *int        `json:"budget_max,omitempty"`
	Currency  string      `json:"currency,omitempty"`
	Amenities []string    `json:"amenities,omitempty"`
}

// Empty reports whether no filter criteria are set.
func (s *ListingSpecs) Empty() bool {
	return s == nil || (s.Type == "" && s.Bedrooms == nil && s.Location == "" &&
		s.BudgetMax == nil && len(s.Amenities) == 0)
}

// CriteriaCount returns the number of set filter criteria among location,
// type, budget, and bedrooms (the criteria metadata scoring considers).
func (s *ListingSpecs) CriteriaCount() int {
	if s == nil {
		return 0
	}
	n := 0
	if s.Location != "" {
		n++
	}
	if s.Type != "" {
		n++
	}
	if s.BudgetMax != nil {
		n++
	}
	if s.Bedrooms != nil {
		n++
	}
	return n
}
