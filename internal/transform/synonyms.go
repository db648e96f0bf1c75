package transform

import (
	"regexp"
	"strings"

	"github.com/propseek/propseek/pkg/utils"
)

// synonymRules is an ordered table of case-insensitive pattern -> phrase
// substitutions. Rules run in order over the lower-cased query; inserted
// phrases deliberately repeat the trigger word so the original term survives
// expansion.
var synonymRules = []struct {
	re     *regexp.Regexp
	phrase string
}{
	{regexp.MustCompile(`\bapartments?\b`), "apartment flat studio rental residential"},
	{regexp.MustCompile(`\bhouses?\b`), "house villa home residence property"},
	{regexp.MustCompile(`\bcars?\b`), "car vehicle auto rental transport"},
	{regexp.MustCompile(`\brent(?:al|ing)?\b`), "rent rental lease hire"},
	{regexp.MustCompile(`\b(?:cheap|budget|affordable)\b`), "cheap budget affordable economical"},
	{regexp.MustCompile(`\bluxur(?:y|ious)\b`), "luxury premium upscale high-end"},
	{regexp.MustCompile(`\b(?:kyrenia|girne)\b`), "kyrenia girne"},
	{regexp.MustCompile(`\b(?:nicosia|lefkosa)\b`), "nicosia lefkosa"},
	{regexp.MustCompile(`\b(?:famagusta|magusa)\b`), "famagusta gazimagusa"},
	{regexp.MustCompile(`\b(?:euros?|eur)\b`), "eur euro"},
	{regexp.MustCompile(`\b(?:pounds?|gbp)\b`), "gbp pound sterling"},
	{regexp.MustCompile(`\b(?:beach|seafront)\b`), "beach seaside coastal seafront"},
}

// Expand injects domain synonyms into the query, then removes duplicate
// tokens while preserving first-occurrence order.
func Expand(query string) string {
	expanded := strings.ToLower(query)
	for _, rule := range synonymRules {
		expanded = rule.re.ReplaceAllString(expanded, rule.phrase)
	}
	tokens := utils.DedupeTokens(strings.Fields(expanded))
	return strings.Join(tokens, " ")
}
