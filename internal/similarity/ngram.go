// internal/similarity/ngram.go
package similarity

import "strings"

// charNGrams returns the set of rune n-grams of text. Text shorter than n
// contributes itself as a single gram so short outputs still compare.
func charNGrams(text string, n int) map[string]bool {
	grams := make(map[string]bool)
	runes := []rune(text)
	if len(runes) == 0 {
		return grams
	}
	if len(runes) < n {
		grams[text] = true
		return grams
	}
	for i := 0; i+n <= len(runes); i++ {
		grams[string(runes[i:i+n])] = true
	}
	return grams
}

// wordNGrams returns the set of whitespace-token n-grams of text.
func wordNGrams(text string, n int) map[string]bool {
	grams := make(map[string]bool)
	words := strings.Fields(text)
	if len(words) == 0 {
		return grams
	}
	if len(words) < n {
		grams[strings.Join(words, " ")] = true
		return grams
	}
	for i := 0; i+n <= len(words); i++ {
		grams[strings.Join(words[i:i+n], " ")] = true
	}
	return grams
}

// ngramJaccard is the Jaccard index of two gram sets. Two empty sets are
// identical; one empty set against a populated one is maximally divergent.
func ngramJaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for g := range a {
		if b[g] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return clampScore(float64(intersection) / float64(union))
}
