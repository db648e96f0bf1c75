package transform

import (
	"strings"
	"testing"
)

func TestExpand_InjectsSynonyms(t *testing.T) {
	expanded := Expand("cheap apartment in girne")
	for _, want := range []string{"flat", "studio", "budget", "affordable", "kyrenia", "girne"} {
		if !strings.Contains(expanded, want) {
			t.Errorf("expected %q in expansion %q", want, expanded)
		}
	}
}

func TestExpand_NoDuplicateTokens(t *testing.T) {
	expanded := Expand("apartment Apartment rental rent luxury luxurious")
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(expanded) {
		key := strings.ToLower(tok)
		if seen[key] {
			t.Fatalf("duplicate token %q in %q", tok, expanded)
		}
		seen[key] = true
	}
}

func TestExpand_PreservesFirstOccurrenceOrder(t *testing.T) {
	expanded := Expand("villa in kyrenia")
	tokens := strings.Fields(expanded)
	if len(tokens) == 0 || tokens[0] != "villa" {
		t.Errorf("expected expansion to start with the original leading token, got %q", expanded)
	}
	// "kyrenia" appears once, at its first occurrence.
	first := strings.Index(expanded, "kyrenia")
	last := strings.LastIndex(expanded, "kyrenia")
	if first != last {
		t.Errorf("kyrenia duplicated in %q", expanded)
	}
}

func TestExpand_UntouchedQueryPassesThrough(t *testing.T) {
	if got := Expand("quiet garden view"); got != "quiet garden view" {
		t.Errorf("expected passthrough, got %q", got)
	}
}
