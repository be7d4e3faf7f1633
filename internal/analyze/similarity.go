// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import "strings"

// levenshtein computes the edit distance between two strings using
// two-row dynamic programming.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter string so the rows are as small as possible.
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1]
			} else {
				curr[i] = 1 + min(prev[i-1], prev[i], curr[i-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// similarity returns the normalized edit-distance similarity of two strings:
// (maxLen - distance) / maxLen, in [0, 1]. Two empty strings are identical.
func similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-levenshtein(a, b)) / float64(maxLen)
}

// foldText lowercases a string and collapses all whitespace runs to single
// spaces, so case and spacing differences do not count as edits.
func foldText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
