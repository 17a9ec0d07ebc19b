package errors

import (
	"fmt"
	"strings"
)

// SuggestVersion suggests a registered grammar version when an unknown one
// is requested. It uses Levenshtein distance to find the closest version.
func SuggestVersion(unknown string, supported []string) string {
	if len(supported) == 0 {
		return ""
	}

	best, dist := closest(unknown, supported)

	// Version strings are short; more than 3 edits is a different version
	if dist <= 3 {
		return fmt.Sprintf("Did you mean '%s'?", best)
	}

	return fmt.Sprintf("Supported versions: %s", strings.Join(supported, ", "))
}

// SuggestWord returns the vocabulary entry closest to word, or "" if
// nothing is within a reasonable distance.
func SuggestWord(word string, vocabulary []string) string {
	if len(vocabulary) == 0 || word == "" {
		return ""
	}

	best, dist := closest(word, vocabulary)

	// Allow roughly one edit per three characters, at least one
	limit := max(len(word)/3, 1)
	if dist <= limit {
		return best
	}
	return ""
}

// closest returns the candidate with the smallest edit distance to s.
// Ties go to the earliest candidate.
func closest(s string, candidates []string) (string, int) {
	minDistance := -1
	var bestMatch string

	for _, c := range candidates {
		dist := levenshteinDistance(s, c)
		if minDistance < 0 || dist < minDistance {
			minDistance = dist
			bestMatch = c
		}
	}

	return bestMatch, minDistance
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	// Two rolling rows are enough
	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			curr[j] = min(
				prev[j]+1,      // Deletion
				curr[j-1]+1,    // Insertion
				prev[j-1]+cost, // Substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}
