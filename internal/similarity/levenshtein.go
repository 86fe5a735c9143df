// internal/similarity/levenshtein.go
package similarity

// levenshteinScore averages 1 - dist/maxLen over all unordered pairs.
func levenshteinScore(texts []string) float64 {
	return averagePairwise(texts, normalizedLevenshtein)
}

// EditDistance returns the raw Levenshtein distance between two strings,
// counted in runes.
func EditDistance(a, b string) int {
	return levenshtein([]rune(a), []rune(b))
}

// normalizedLevenshtein maps edit distance into [0,1], where 1.0 means
// identical strings. Two empty strings are identical by definition.
func normalizedLevenshtein(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein(ra, rb)
	return 1.0 - float64(dist)/float64(longest)
}

// levenshtein computes edit distance with two rolling rows, keeping memory
// proportional to the shorter string.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
