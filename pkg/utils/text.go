package utils

import "strings"

// Truncate returns s truncated to maxLen bytes. If maxLen is 0 or negative,
// returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// Tokenize lower-cases s and splits it on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// DedupeTokens removes duplicate tokens (case-insensitive), preserving
// first-occurrence order.
func DedupeTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		key := strings.ToLower(tok)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tok)
	}
	return out
}

// TokenOverlap returns the fraction of tokens in a that also appear in b.
// Returns 0 when a is empty.
func TokenOverlap(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	inB := make(map[string]bool, len(b))
	for _, tok := range b {
		inB[strings.ToLower(tok)] = true
	}
	matched := 0
	for _, tok := range a {
		if inB[strings.ToLower(tok)] {
			matched++
		}
	}
	return float64(matched) / float64(len(a))
}
