// internal/consistency/analyzer.go
package consistency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mwiater/concord/internal/normalize"
	"github.com/mwiater/concord/internal/similarity"
)

const (
	// maxPairwiseOutputs caps the flattened pairwise matrix. Above this,
	// the matrix is omitted and a constraint recorded instead of running
	// an unbounded O(n²) computation.
	maxPairwiseOutputs = 50
	// minSignalChars is the average normalized length below which outputs
	// are flagged as too short to carry a similarity signal.
	minSignalChars = 10
)

// AnalyzeGroup produces one GroupResult for a single group. It never
// returns an error: malformed content degrades to lower scores, and
// degenerate conditions are recorded as constraints on the result.
func AnalyzeGroup(ctx context.Context, group PromptExecutionGroup, cfg Config, embedder similarity.Embedder) GroupResult {
	cfg = cfg.withDefaults()

	texts := make([]string, len(group.Outputs))
	for i, out := range group.Outputs {
		texts[i] = out.Content
	}
	normalized := normalize.All(texts, cfg.normalizeOptions())

	result := GroupResult{
		GroupID:     group.ID,
		Provider:    group.Provider,
		Model:       group.Model,
		PromptHash:  promptHash(group),
		SourceTest:  group.SourceTest,
		Method:      cfg.PrimaryMethod,
		OutputCount: len(group.Outputs),
		AnalyzedAt:  time.Now().UTC(),
	}

	if allIdentical(normalized) {
		result.Constraints = append(result.Constraints, ConstraintIdenticalOutputs)
	}
	if averageRuneLength(normalized) < minSignalChars {
		result.Constraints = append(result.Constraints, ConstraintOutputsTooShort)
	}

	primary, fellBack := scoreMethod(ctx, cfg.PrimaryMethod, normalized, cfg, embedder)
	result.ConsistencyScore = primary
	result.IsConsistent = primary >= cfg.ConsistencyThreshold
	if fellBack {
		result.Constraints = append(result.Constraints, ConstraintEmbeddingUnavailable)
	}

	for _, method := range cfg.AdditionalMethods {
		// The primary method is reported once as consistency_score and
		// never duplicated as a secondary entry.
		if method == cfg.PrimaryMethod {
			continue
		}
		score, fb := scoreMethod(ctx, method, normalized, cfg, embedder)
		if result.AdditionalScores == nil {
			result.AdditionalScores = make(map[similarity.Method]float64)
		}
		result.AdditionalScores[method] = score
		if fb && !containsString(result.Constraints, ConstraintEmbeddingUnavailable) {
			result.Constraints = append(result.Constraints, ConstraintEmbeddingUnavailable)
		}
	}

	if cfg.TokenAnalysis {
		result.TokenStats = computeTokenStats(normalized)
	}
	if cfg.CharVariance {
		result.CharStats = computeCharStats(normalized)
	}

	keepMatrix := cfg.ComputePairwiseMatrix && len(normalized) <= maxPairwiseOutputs
	matrix, meanSims, pairsFellBack := pairwiseScores(ctx, cfg.PrimaryMethod, normalized, cfg, embedder, keepMatrix)
	if pairsFellBack && !containsString(result.Constraints, ConstraintEmbeddingUnavailable) {
		result.Constraints = append(result.Constraints, ConstraintEmbeddingUnavailable)
	}

	if cfg.ComputePairwiseMatrix {
		if len(normalized) > maxPairwiseOutputs {
			result.Constraints = append(result.Constraints, ConstraintPairwiseMatrixLarge)
		} else {
			result.PairwiseMatrix = matrix
		}
	}

	result.RepresentativeIndex, result.DivergentIndex, result.DivergenceScore = detectOutliers(meanSims)

	return result
}

// promptHash returns the group's declared prompt hash, or the SHA-256 of
// the prompt text when absent.
func promptHash(group PromptExecutionGroup) string {
	if group.PromptHash != "" {
		return group.PromptHash
	}
	sum := sha256.Sum256([]byte(group.Prompt))
	return hex.EncodeToString(sum[:])
}

// scoreMethod dispatches a method over the whole group, routing the
// semantic method through the injected embedder. The second return reports
// whether the semantic fallback fired.
func scoreMethod(ctx context.Context, method similarity.Method, texts []string, cfg Config, embedder similarity.Embedder) (float64, bool) {
	if method == similarity.SemanticEmbedding {
		res := similarity.SemanticScore(ctx, embedder, texts, cfg.similarityOptions())
		return res.Score, res.FellBack
	}
	return similarity.Score(method, texts, cfg.similarityOptions()), false
}

// pairwiseScores scores every unordered pair under the primary method. It
// always accumulates each output's mean similarity to the others (outlier
// detection needs those for any group size) and materializes the row-major
// upper-triangle matrix only when asked, so memory stays linear above the
// matrix cap. For the semantic method each text is embedded once; any
// embedding failure drops the whole computation to the token Jaccard
// fallback.
func pairwiseScores(ctx context.Context, method similarity.Method, texts []string, cfg Config, embedder similarity.Embedder, keepMatrix bool) (matrix []float64, meanSims []float64, fellBack bool) {
	n := len(texts)
	if n < 2 {
		return nil, nil, false
	}

	scorePair := func(i, j int) float64 {
		return similarity.ScorePair(method, texts[i], texts[j], cfg.similarityOptions())
	}
	if method == similarity.SemanticEmbedding {
		if vectors, ok := embedAll(ctx, embedder, texts); ok {
			scorePair = func(i, j int) float64 {
				if texts[i] == texts[j] {
					return 1.0
				}
				return similarity.CosinePair(vectors[i], vectors[j])
			}
		} else {
			fellBack = true
			method = similarity.JaccardTokens
		}
	}

	if keepMatrix {
		matrix = make([]float64, 0, n*(n-1)/2)
	}
	meanSims = make([]float64, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := scorePair(i, j)
			meanSims[i] += s
			meanSims[j] += s
			if keepMatrix {
				matrix = append(matrix, s)
			}
		}
	}
	for i := range meanSims {
		meanSims[i] /= float64(n - 1)
	}
	return matrix, meanSims, fellBack
}

// embedAll embeds every text once, reporting false if the capability is
// missing or any call fails.
func embedAll(ctx context.Context, embedder similarity.Embedder, texts []string) ([][]float64, bool) {
	if embedder == nil {
		return nil, false
	}
	vectors := make([][]float64, len(texts))
	for i, t := range texts {
		vec, err := embedder.Embed(ctx, t)
		if err != nil || len(vec) == 0 {
			return nil, false
		}
		if i > 0 && len(vec) != len(vectors[0]) {
			return nil, false
		}
		vectors[i] = vec
	}
	return vectors, true
}

// detectOutliers picks roles from each output's mean similarity to all
// others. The output closest to the group centroid is the representative;
// the farthest is the most divergent, and 1 minus its mean similarity is
// the divergence score. Ties resolve to the lowest index for the
// representative and the highest index for the divergent output, so a
// two-output group names both roles distinctly.
func detectOutliers(meanSims []float64) (representative, divergent int, divergence float64) {
	if len(meanSims) < 2 {
		return 0, 0, 0
	}

	representative = 0
	divergent = 0
	for i, sim := range meanSims {
		if sim > meanSims[representative] {
			representative = i
		}
		if sim <= meanSims[divergent] {
			divergent = i
		}
	}
	divergence = clampFloat(1.0-meanSims[divergent], 0, 1)
	return representative, divergent, divergence
}

// computeTokenStats summarizes whitespace-token counts and the cross-output
// token intersection and union.
func computeTokenStats(texts []string) *TokenStats {
	counts := make([]float64, len(texts))
	union := make(map[string]int)
	for i, t := range texts {
		tokens := strings.Fields(t)
		counts[i] = float64(len(tokens))
		seen := make(map[string]bool)
		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				union[tok]++
			}
		}
	}

	intersection := 0
	for _, docCount := range union {
		if docCount == len(texts) {
			intersection++
		}
	}

	mean := meanFloat64(counts)
	stddev := stddevFromValues(counts, mean)
	min, max := minMaxFloat64(counts)

	return &TokenStats{
		AvgTokens:        mean,
		MinTokens:        int(min),
		MaxTokens:        int(max),
		StddevTokens:     stddev,
		CoefficientOfVar: coefficientOfVariation(stddev, mean),
		IntersectionSize: intersection,
		UnionSize:        len(union),
	}
}

// computeCharStats summarizes rune counts and pairwise edit distances.
func computeCharStats(texts []string) *CharStats {
	counts := make([]float64, len(texts))
	for i, t := range texts {
		counts[i] = float64(utf8.RuneCountInString(t))
	}
	mean := meanFloat64(counts)

	var distances []float64
	maxDist := 0
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			d := similarity.EditDistance(texts[i], texts[j])
			distances = append(distances, float64(d))
			if d > maxDist {
				maxDist = d
			}
		}
	}

	return &CharStats{
		AvgChars:        mean,
		StddevChars:     stddevFromValues(counts, mean),
		AvgEditDistance: meanFloat64(distances),
		MaxEditDistance: maxDist,
	}
}

func allIdentical(texts []string) bool {
	for _, t := range texts[1:] {
		if t != texts[0] {
			return false
		}
	}
	return true
}

func averageRuneLength(texts []string) float64 {
	if len(texts) == 0 {
		return 0
	}
	total := 0
	for _, t := range texts {
		total += utf8.RuneCountInString(t)
	}
	return float64(total) / float64(len(texts))
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
