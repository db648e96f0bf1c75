package transform

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/propseek/propseek/internal/models"
)

// budgetPatterns are tried in order; the first match wins and later patterns
// are not consulted, even if they would yield a smaller amount.
var budgetPatterns = []struct {
	re       *regexp.Regexp
	currency string
}{
	{regexp.MustCompile(`€\s*([\d,]+)`), "EUR"},
	{regexp.MustCompile(`([\d,]+)\s*(?:euros?|eur)\b`), "EUR"},
	{regexp.MustCompile(`£\s*([\d,]+)`), "GBP"},
	{regexp.MustCompile(`([\d,]+)\s*(?:pounds?|gbp)\b`), "GBP"},
}

var bedroomsPattern = regexp.MustCompile(`(\d+)\s*(?:bed(?:room)?s?|br)\b`)

// typePatterns classify listings into disjoint keyword classes; the first
// matching class wins.
var typePatterns = []struct {
	re   *regexp.Regexp
	kind models.ListingType
}{
	{regexp.MustCompile(`\b(?:apartments?|flats?|studios?|penthouses?)\b`), models.TypeApartment},
	{regexp.MustCompile(`\b(?:houses?|villas?|bungalows?|townhouses?)\b`), models.TypeHouse},
	{regexp.MustCompile(`\b(?:cars?|vehicles?|suvs?|jeeps?)\b`), models.TypeCar},
	{regexp.MustCompile(`\b(?:services?|cleaning|repairs?|transfers?)\b`), models.TypeService},
}

// locationAliases maps spelling variants to a canonical city key.
// Checked in order; the first match wins.
var locationAliases = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`\b(?:kyrenia|girne)\b`), "kyrenia"},
	{regexp.MustCompile(`\b(?:nicosia|lefkosa|lefkoşa)\b`), "nicosia"},
	{regexp.MustCompile(`\b(?:famagusta|gazimagusa|magusa)\b`), "famagusta"},
	{regexp.MustCompile(`\b(?:iskele|trikomo)\b`), "iskele"},
	{regexp.MustCompile(`\b(?:guzelyurt|morphou)\b`), "guzelyurt"},
	{regexp.MustCompile(`\b(?:lapta|alsancak|esentepe)\b`), "kyrenia-district"},
}

// amenityPatterns are tested independently; all matches are collected.
var amenityPatterns = []struct {
	re  *regexp.Regexp
	tag string
}{
	{regexp.MustCompile(`\bfurnished\b`), "furnished"},
	{regexp.MustCompile(`\bunfurnished\b`), "unfurnished"},
	{regexp.MustCompile(`\bmodern\b`), "modern"},
	{regexp.MustCompile(`\bluxur(?:y|ious)\b`), "luxury"},
	{regexp.MustCompile(`\b(?:beach|seafront|sea\s*view)\b`), "beach_access"},
	{regexp.MustCompile(`\b(?:parking|garage)\b`), "parking"},
	{regexp.MustCompile(`\b(?:pool|swimming)\b`), "pool"},
}

// ExtractSpecs pulls structured filters out of a raw query. Pure function:
// no external calls, shared by the normal and degraded transform paths.
func ExtractSpecs(query string) models.ListingSpecs {
	q := strings.ToLower(query)
	specs := models.ListingSpecs{}

	for _, p := range budgetPatterns {
		m := p.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		if amount, err := strconv.ParseFloat(raw, 64); err == nil {
			budget := int(amount)
			specs.BudgetMax = &budget
			specs.Currency = p.currency
		}
		break
	}

	if m := bedroomsPattern.FindStringSubmatch(q); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			specs.Bedrooms = &n
		}
	}

	for _, p := range typePatterns {
		if p.re.MatchString(q) {
			specs.Type = p.kind
			break
		}
	}

	for _, a := range locationAliases {
		if a.re.MatchString(q) {
			specs.Location = a.canonical
			break
		}
	}

	for _, a := range amenityPatterns {
		if a.re.MatchString(q) {
			specs.Amenities = append(specs.Amenities, a.tag)
		}
	}

	return specs
}
