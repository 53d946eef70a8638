package service

import (
	"strings"
	"unicode"
)

// normalizeName lowercases a name and strips every non-alphanumeric rune so
// punctuation and spacing differences do not affect the edit distance.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nameSimilarity scores two names in [0, 1] as 1 - distance/max(len).
// Empty or fully non-alphanumeric names score 0.
func nameSimilarity(a, b string) float64 {
	left := []rune(normalizeName(a))
	right := []rune(normalizeName(b))
	if len(left) == 0 || len(right) == 0 {
		return 0
	}
	longest := len(left)
	if len(right) > longest {
		longest = len(right)
	}
	distance := levenshtein(left, right)
	return 1 - float64(distance)/float64(longest)
}

// levenshtein computes the classic edit distance with two rolling rows.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[j] = minOf(current[j-1]+1, previous[j]+1, previous[j-1]+cost)
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}

func minOf(values ...int) int {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
