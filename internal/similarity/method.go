// internal/similarity/method.go
// Package similarity scores how alike a set of normalized strings are.
// Every method is pure: identical input always produces an identical score,
// and every score lies in [0,1].
package similarity

import (
	"fmt"
	"sort"
	"strings"
)

// Method identifies one similarity scoring strategy.
type Method string

const (
	// ExactMatch scores 1.0 iff every string equals the first, else 0.0.
	ExactMatch Method = "exact_match"
	// NormalizedLevenshtein averages pairwise normalized edit distance.
	NormalizedLevenshtein Method = "normalized_levenshtein"
	// JaccardTokens scores shared whitespace tokens over the token union.
	JaccardTokens Method = "jaccard_tokens"
	// NGramChars averages pairwise Jaccard over character n-gram sets.
	NGramChars Method = "ngram_chars"
	// NGramWords averages pairwise Jaccard over word n-gram sets.
	NGramWords Method = "ngram_words"
	// TFIDFCosine averages pairwise cosine similarity of TF-IDF vectors.
	TFIDFCosine Method = "tfidf_cosine"
	// SemanticEmbedding scores via an injected embedding capability,
	// falling back to JaccardTokens when none is available.
	SemanticEmbedding Method = "semantic_embedding"
)

// Methods returns every known method in a stable order.
func Methods() []Method {
	return []Method{
		ExactMatch,
		NormalizedLevenshtein,
		JaccardTokens,
		NGramChars,
		NGramWords,
		TFIDFCosine,
		SemanticEmbedding,
	}
}

// ParseMethod validates a method name, listing the valid names on failure.
func ParseMethod(name string) (Method, error) {
	m := Method(strings.TrimSpace(strings.ToLower(name)))
	for _, known := range Methods() {
		if m == known {
			return m, nil
		}
	}
	names := make([]string, 0, len(Methods()))
	for _, known := range Methods() {
		names = append(names, string(known))
	}
	sort.Strings(names)
	return "", fmt.Errorf("unknown similarity method %q (valid: %s)", name, strings.Join(names, ", "))
}

// Reliability returns the fixed trust weight used by confidence scoring.
// Exact string comparison is fully reliable; looser metrics rank lower.
func (m Method) Reliability() float64 {
	switch m {
	case ExactMatch:
		return 1.0
	case NormalizedLevenshtein:
		return 0.9
	case JaccardTokens:
		return 0.85
	case NGramChars, NGramWords:
		return 0.8
	case TFIDFCosine:
		return 0.75
	case SemanticEmbedding:
		return 0.7
	default:
		return 0.0
	}
}

// Description returns a one-line human-readable summary for CLI listings.
func (m Method) Description() string {
	switch m {
	case ExactMatch:
		return "All outputs byte-identical after normalization"
	case NormalizedLevenshtein:
		return "Average pairwise normalized edit distance"
	case JaccardTokens:
		return "Tokens shared by every output over the token union"
	case NGramChars:
		return "Average pairwise Jaccard over character n-gram sets"
	case NGramWords:
		return "Average pairwise Jaccard over word n-gram sets"
	case TFIDFCosine:
		return "Average pairwise cosine similarity of TF-IDF vectors"
	case SemanticEmbedding:
		return "Cosine similarity of embedding vectors (falls back to token Jaccard)"
	default:
		return "unknown method"
	}
}
