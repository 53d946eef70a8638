package service

import (
	"math"
	"testing"
)

func TestNameSimilarity_NormalizedEquality(t *testing.T) {
	cases := [][2]string{
		{"Acme Corp.", "ACME corp"},
		{"Harbor-Co", "harbor co"},
		{"Globex, Inc.", "globexinc"},
	}
	for _, pair := range cases {
		if got := nameSimilarity(pair[0], pair[1]); got != 1 {
			t.Fatalf("nameSimilarity(%q, %q) = %v, want 1", pair[0], pair[1], got)
		}
	}
}

func TestNameSimilarity_EmptyNames(t *testing.T) {
	cases := [][2]string{
		{"", "Acme"},
		{"Acme", ""},
		{"!!!", "Acme"},
		{"", ""},
	}
	for _, pair := range cases {
		if got := nameSimilarity(pair[0], pair[1]); got != 0 {
			t.Fatalf("nameSimilarity(%q, %q) = %v, want 0", pair[0], pair[1], got)
		}
	}
}

func TestNameSimilarity_KnownScore(t *testing.T) {
	// "acmecorp" vs "acmecorporation": distance 7 over length 15.
	got := nameSimilarity("Acme Corp", "Acme Corporation")
	want := 1 - 7.0/15.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("nameSimilarity = %v, want %v", got, want)
	}
}

func TestNameSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Acme Corp", "Acme Corporation"},
		{"Cobalt Analytics", "Cobalt Analytic"},
		{"Vertex Foods", "Juniper Media"},
	}
	for _, pair := range pairs {
		forward := nameSimilarity(pair[0], pair[1])
		backward := nameSimilarity(pair[1], pair[0])
		if forward != backward {
			t.Fatalf("nameSimilarity not symmetric for %q/%q: %v vs %v", pair[0], pair[1], forward, backward)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"same", "same", 0},
		{"ab", "ba", 2},
	}
	for _, tc := range cases {
		if got := levenshtein([]rune(tc.a), []rune(tc.b)); got != tc.want {
			t.Fatalf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
