// internal/similarity/jaccard.go
package similarity

import "strings"

// jaccardTokensScore counts a token as common only when it appears in every
// string; the score is |common| / |union|.
func jaccardTokensScore(texts []string) float64 {
	union := make(map[string]int)
	for _, t := range texts {
		seen := make(map[string]bool)
		for _, tok := range strings.Fields(t) {
			if !seen[tok] {
				seen[tok] = true
				union[tok]++
			}
		}
	}
	if len(union) == 0 {
		// All strings empty: indistinguishable.
		return 1.0
	}
	common := 0
	for _, docCount := range union {
		if docCount == len(texts) {
			common++
		}
	}
	return clampScore(float64(common) / float64(len(union)))
}
