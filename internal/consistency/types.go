// internal/consistency/types.go
// Package consistency quantifies how much repeated outputs of the same
// prompt against the same model vary, and classifies the pairing as
// consistent or not. The engine is a pure function over in-memory data: it
// performs no I/O and holds no state between invocations.
package consistency

import (
	"time"

	"github.com/mwiater/concord/internal/similarity"
)

// Soft constraints recorded during a run. They adjust downstream confidence
// but never abort processing.
const (
	ConstraintIdenticalOutputs     = "identical_outputs_detected"
	ConstraintOutputsTooShort      = "outputs_too_short"
	ConstraintPairwiseMatrixLarge  = "pairwise_matrix_too_large"
	ConstraintEmbeddingUnavailable = "semantic_embedding_unavailable"
)

// ExecutionOutput is one realized response within a group. It is immutable
// once produced.
type ExecutionOutput struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Sequence    int       `json:"sequence"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
	LatencyMs   int       `json:"latency_ms,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	TokenCount  int       `json:"token_count,omitempty"`
}

// PromptExecutionGroup is the unit of analysis: every repeated execution of
// one fixed prompt against one fixed model. Groups with fewer than two
// outputs are invalid; consistency has no meaning for a single sample.
type PromptExecutionGroup struct {
	ID             string            `json:"id"`
	Prompt         string            `json:"prompt"`
	PromptHash     string            `json:"prompt_hash,omitempty"`
	Provider       string            `json:"provider"`
	Model          string            `json:"model"`
	Outputs        []ExecutionOutput `json:"outputs"`
	ExpectedOutput string            `json:"expected_output,omitempty"`
	SourceTest     string            `json:"source_test,omitempty"`
}

// TokenStats summarizes whitespace-token counts across a group's outputs.
type TokenStats struct {
	AvgTokens        float64 `json:"avg_tokens"`
	MinTokens        int     `json:"min_tokens"`
	MaxTokens        int     `json:"max_tokens"`
	StddevTokens     float64 `json:"stddev_tokens"`
	CoefficientOfVar float64 `json:"coefficient_of_variation"`
	IntersectionSize int     `json:"intersection_size"`
	UnionSize        int     `json:"union_size"`
}

// CharStats summarizes character counts and edit distances across a group.
type CharStats struct {
	AvgChars        float64 `json:"avg_chars"`
	StddevChars     float64 `json:"stddev_chars"`
	AvgEditDistance float64 `json:"avg_edit_distance"`
	MaxEditDistance int     `json:"max_edit_distance"`
}

// GroupResult is the outcome of analyzing one PromptExecutionGroup.
type GroupResult struct {
	GroupID    string `json:"group_id"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	PromptHash string `json:"prompt_hash"`
	SourceTest string `json:"source_test,omitempty"`

	// ConsistencyScore is always the configured primary method's score,
	// never a blend.
	ConsistencyScore float64                       `json:"consistency_score"`
	IsConsistent     bool                          `json:"is_consistent"`
	Method           similarity.Method             `json:"method"`
	AdditionalScores map[similarity.Method]float64 `json:"additional_scores,omitempty"`

	OutputCount int         `json:"output_count"`
	TokenStats  *TokenStats `json:"token_stats,omitempty"`
	CharStats   *CharStats  `json:"char_stats,omitempty"`

	// PairwiseMatrix is the upper triangle of the pairwise similarity
	// matrix, flattened row-major. Omitted above the group size cap.
	PairwiseMatrix []float64 `json:"pairwise_matrix,omitempty"`

	RepresentativeIndex int     `json:"representative_index"`
	DivergentIndex      int     `json:"divergent_index"`
	DivergenceScore     float64 `json:"divergence_score"`

	Constraints []string  `json:"constraints,omitempty"`
	AnalyzedAt  time.Time `json:"analyzed_at"`
}

// ModelStats aggregates group results for one (provider, model) pair.
type ModelStats struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`

	GroupCount  int `json:"group_count"`
	OutputCount int `json:"output_count"`

	MeanScore   float64 `json:"mean_score"`
	MinScore    float64 `json:"min_score"`
	MaxScore    float64 `json:"max_score"`
	StddevScore float64 `json:"stddev_score"`
	P50Score    float64 `json:"p50_score"`
	P95Score    float64 `json:"p95_score"`
	P99Score    float64 `json:"p99_score"`

	ConsistentGroups int     `json:"consistent_groups"`
	ConsistencyRate  float64 `json:"consistency_rate"`

	// AvgTokenCV is only populated when token analysis ran.
	AvgTokenCV float64 `json:"avg_token_cv,omitempty"`
}

// ModelRef names a model together with its mean score, for best/worst
// rankings in the run summary.
type ModelRef struct {
	Provider  string  `json:"provider"`
	Model     string  `json:"model"`
	MeanScore float64 `json:"mean_score"`
}

// Score distribution bucket names, highest to lowest.
const (
	BucketHighlyConsistent     = "highly_consistent"     // score >= 0.95
	BucketConsistent           = "consistent"            // 0.85 <= score < 0.95
	BucketModeratelyConsistent = "moderately_consistent" // 0.70 <= score < 0.85
	BucketInconsistent         = "inconsistent"          // 0.50 <= score < 0.70
	BucketHighlyInconsistent   = "highly_inconsistent"   // score < 0.50
)

// Summary is the run-level rollup over every group result.
type Summary struct {
	TotalGroups  int `json:"total_groups"`
	TotalOutputs int `json:"total_outputs"`
	TotalModels  int `json:"total_models"`

	OverallMeanScore       float64 `json:"overall_mean_score"`
	OverallConsistencyRate float64 `json:"overall_consistency_rate"`

	MostConsistentModel  *ModelRef `json:"most_consistent_model,omitempty"`
	LeastConsistentModel *ModelRef `json:"least_consistent_model,omitempty"`

	ScoreDistribution map[string]int `json:"score_distribution"`
}

// ConfidenceReport is the run-level confidence scalar plus its weighted
// factor breakdown, so a caller can audit why confidence is low. Each
// factor is the raw 0-1 value before weighting.
type ConfidenceReport struct {
	Score float64 `json:"score"`

	SampleSizeFactor        float64 `json:"sample_size_factor"`
	OutputsPerGroupFactor   float64 `json:"outputs_per_group_factor"`
	MethodReliabilityFactor float64 `json:"method_reliability_factor"`
	OutputLengthFactor      float64 `json:"output_length_factor"`
	ScoreStabilityFactor    float64 `json:"score_stability_factor"`
}

// AnalysisResult is the full payload returned to the caller. A surrounding
// system persists it as an immutable decision record; the engine never
// writes it anywhere itself.
type AnalysisResult struct {
	RunID string `json:"run_id"`

	Results    []GroupResult    `json:"results"`
	ModelStats []ModelStats     `json:"model_stats"`
	Summary    Summary          `json:"summary"`
	Confidence ConfidenceReport `json:"confidence"`

	Config             Config   `json:"config"`
	ConstraintsApplied []string `json:"constraints_applied,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}
