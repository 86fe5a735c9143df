// internal/similarity/similarity.go
package similarity

// Options tunes the scoring strategies that take parameters.
type Options struct {
	// NGramSize is the n-gram length used by NGramChars and NGramWords.
	// Values below 1 fall back to DefaultNGramSize.
	NGramSize int
}

// DefaultNGramSize is used when a config does not set an n-gram length.
const DefaultNGramSize = 3

func (o Options) ngramSize() int {
	if o.NGramSize < 1 {
		return DefaultNGramSize
	}
	return o.NGramSize
}

// Score computes the similarity of an ordered set of normalized strings
// under the given method. Fewer than two strings trivially score 1.0.
// SemanticEmbedding is not dispatched here because it requires an injected
// capability; Score treats it as its declared fallback, token Jaccard.
func Score(method Method, texts []string, opts Options) float64 {
	if len(texts) < 2 {
		return 1.0
	}
	// Identical inputs score exactly 1.0 under every method. The vector
	// methods would otherwise drift below 1.0 through float rounding.
	if exactMatchScore(texts) == 1.0 {
		return 1.0
	}
	switch method {
	case ExactMatch:
		return exactMatchScore(texts)
	case NormalizedLevenshtein:
		return levenshteinScore(texts)
	case JaccardTokens, SemanticEmbedding:
		return jaccardTokensScore(texts)
	case NGramChars:
		return averagePairwise(texts, func(a, b string) float64 {
			return ngramJaccard(charNGrams(a, opts.ngramSize()), charNGrams(b, opts.ngramSize()))
		})
	case NGramWords:
		return averagePairwise(texts, func(a, b string) float64 {
			return ngramJaccard(wordNGrams(a, opts.ngramSize()), wordNGrams(b, opts.ngramSize()))
		})
	case TFIDFCosine:
		return tfidfCosineScore(texts)
	default:
		return 0.0
	}
}

// ScorePair computes the similarity of exactly two strings under a method.
// It backs pairwise-matrix and divergence computations.
func ScorePair(method Method, a, b string, opts Options) float64 {
	if a == b {
		return 1.0
	}
	return Score(method, []string{a, b}, opts)
}

// exactMatchScore returns 1.0 iff every string equals the first.
func exactMatchScore(texts []string) float64 {
	for _, t := range texts[1:] {
		if t != texts[0] {
			return 0.0
		}
	}
	return 1.0
}

// averagePairwise averages a pair scorer over all unordered pairs.
func averagePairwise(texts []string, pairScore func(a, b string) float64) float64 {
	total := 0.0
	pairs := 0
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			total += pairScore(texts[i], texts[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 1.0
	}
	return clampScore(total / float64(pairs))
}

// clampScore restricts a score to [0,1], absorbing float drift.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
