package utils

import (
	"reflect"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 3); got != "hel" {
		t.Errorf("expected hel, got %q", got)
	}
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := Truncate("hello", 0); got != "hello" {
		t.Errorf("maxLen 0 should return unchanged, got %q", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  Cozy Apartment in KYRENIA ")
	want := []string{"cozy", "apartment", "in", "kyrenia"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDedupeTokens(t *testing.T) {
	got := DedupeTokens([]string{"flat", "Flat", "studio", "flat", "rental"})
	want := []string{"flat", "studio", "rental"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenOverlap(t *testing.T) {
	a := []string{"two", "bedroom", "apartment", "kyrenia"}
	b := []string{"apartment", "in", "kyrenia", "harbour"}
	if got := TokenOverlap(a, b); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
	if got := TokenOverlap(nil, b); got != 0 {
		t.Errorf("empty a should give 0, got %f", got)
	}
}
