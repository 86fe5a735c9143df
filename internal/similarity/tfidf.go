// internal/similarity/tfidf.go
package similarity

import (
	"math"
	"sort"
	"strings"
)

// tfidfCosineScore builds a shared vocabulary across the group, weights
// term frequencies by smoothed inverse document frequency, and averages
// pairwise cosine similarity of the resulting vectors.
func tfidfCosineScore(texts []string) float64 {
	tokenized := make([][]string, len(texts))
	docFreq := make(map[string]int)
	for i, t := range texts {
		tokenized[i] = strings.Fields(t)
		seen := make(map[string]bool)
		for _, tok := range tokenized[i] {
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	// Sorted vocabulary keeps vector layout deterministic.
	vocab := make([]string, 0, len(docFreq))
	for tok := range docFreq {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)

	idf := make([]float64, len(vocab))
	n := float64(len(texts))
	for i, tok := range vocab {
		idf[i] = math.Log((n+1)/(float64(docFreq[tok])+1)) + 1
	}

	vectors := make([][]float64, len(texts))
	for i, tokens := range tokenized {
		counts := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			counts[tok]++
		}
		vec := make([]float64, len(vocab))
		if len(tokens) > 0 {
			for j, tok := range vocab {
				tf := float64(counts[tok]) / float64(len(tokens))
				vec[j] = tf * idf[j]
			}
		}
		vectors[i] = vec
	}

	total := 0.0
	pairs := 0
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			// Identical documents contribute exactly 1.0; their shared
			// vector would otherwise round below it.
			if texts[i] == texts[j] {
				total += 1.0
			} else {
				total += cosineSimilarity(vectors[i], vectors[j])
			}
			pairs++
		}
	}
	if pairs == 0 {
		return 1.0
	}
	return clampScore(total / float64(pairs))
}

// cosineSimilarity maps two vectors into [0,1]. Two zero vectors (both
// documents empty) are identical; a zero vector against a populated one is
// maximally divergent.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 && normB == 0 {
		return 1.0
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return clampScore(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
