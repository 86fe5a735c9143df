// internal/similarity/semantic.go
package similarity

import "context"

// Embedder turns text into a dense vector. Implementations may call out to
// an external service; the engine treats the capability as optional.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// SemanticResult carries a semantic score together with whether the token
// Jaccard fallback was used, so callers can surface the degradation.
type SemanticResult struct {
	Score    float64
	FellBack bool
}

// SemanticScore embeds every string and averages pairwise cosine similarity
// of the vectors. With no embedder, or on any embedding failure, it falls
// back to token Jaccard and reports that it did. It never returns an error:
// degraded scoring is the declared failure mode.
func SemanticScore(ctx context.Context, embedder Embedder, texts []string, opts Options) SemanticResult {
	if len(texts) < 2 {
		return SemanticResult{Score: 1.0}
	}
	if embedder == nil {
		return SemanticResult{Score: jaccardTokensScore(texts), FellBack: true}
	}

	vectors := make([][]float64, len(texts))
	for i, t := range texts {
		vec, err := embedder.Embed(ctx, t)
		if err != nil || len(vec) == 0 {
			return SemanticResult{Score: jaccardTokensScore(texts), FellBack: true}
		}
		vectors[i] = vec
	}

	total := 0.0
	pairs := 0
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			if len(vectors[i]) != len(vectors[j]) {
				return SemanticResult{Score: jaccardTokensScore(texts), FellBack: true}
			}
			// Identical texts are exactly similar regardless of how their
			// shared vector rounds through the cosine.
			if texts[i] == texts[j] {
				total += 1.0
			} else {
				total += cosineSimilarity(vectors[i], vectors[j])
			}
			pairs++
		}
	}
	return SemanticResult{Score: clampScore(total / float64(pairs))}
}

// CosinePair maps the cosine similarity of two embedding vectors into
// [0,1], with the same zero-vector semantics as the TF-IDF scorer.
func CosinePair(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	return cosineSimilarity(a, b)
}
