// internal/consistency/config.go
package consistency

import (
	"github.com/mwiater/concord/internal/normalize"
	"github.com/mwiater/concord/internal/similarity"
)

// DefaultConsistencyThreshold classifies a group as consistent when its
// primary score meets or exceeds it.
const DefaultConsistencyThreshold = 0.85

// Config is the configuration for one analysis run.
type Config struct {
	PrimaryMethod     similarity.Method   `json:"primary_method"`
	AdditionalMethods []similarity.Method `json:"additional_methods,omitempty"`

	NGramSize            int     `json:"ngram_size"`
	ConsistencyThreshold float64 `json:"consistency_threshold"`

	TrimOutputs         bool `json:"trim_outputs"`
	CaseSensitive       bool `json:"case_sensitive"`
	NormalizeWhitespace bool `json:"normalize_whitespace"`

	TokenAnalysis         bool `json:"token_analysis"`
	CharVariance          bool `json:"char_variance"`
	ComputePairwiseMatrix bool `json:"compute_pairwise_matrix"`
}

// DefaultConfig returns the configuration used when the caller supplies no
// override.
func DefaultConfig() Config {
	return Config{
		PrimaryMethod:        similarity.NormalizedLevenshtein,
		NGramSize:            similarity.DefaultNGramSize,
		ConsistencyThreshold: DefaultConsistencyThreshold,
		TrimOutputs:          true,
		CaseSensitive:        false,
		NormalizeWhitespace:  true,
		TokenAnalysis:        true,
		CharVariance:         true,
	}
}

// withDefaults fills zero values so a partially specified config behaves
// sensibly.
func (c Config) withDefaults() Config {
	if c.PrimaryMethod == "" {
		c.PrimaryMethod = similarity.NormalizedLevenshtein
	}
	if c.NGramSize < 1 {
		c.NGramSize = similarity.DefaultNGramSize
	}
	if c.ConsistencyThreshold <= 0 {
		c.ConsistencyThreshold = DefaultConsistencyThreshold
	}
	return c
}

// normalizeOptions maps the config's normalization flags onto the
// normalizer.
func (c Config) normalizeOptions() normalize.Options {
	return normalize.Options{
		Trim:               c.TrimOutputs,
		CaseSensitive:      c.CaseSensitive,
		CollapseWhitespace: c.NormalizeWhitespace,
	}
}

// similarityOptions maps the config onto the metric library's options.
func (c Config) similarityOptions() similarity.Options {
	return similarity.Options{NGramSize: c.NGramSize}
}
