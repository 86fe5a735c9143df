// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/concord/internal/consistency"
	"github.com/mwiater/concord/internal/similarity"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultEmbeddingTimeout is the fallback timeout for embedding requests.
	defaultEmbeddingTimeout = 30 * time.Second
)

// Config represents the top-level application configuration.
type Config struct {
	Debug   bool   `json:"debug"`
	LogFile string `json:"logFile,omitempty"`
	Workers int    `json:"workers,omitempty"`

	// Embedding host for the optional semantic similarity method. Left
	// empty, the semantic method falls back to token Jaccard.
	EmbeddingHost           string `json:"embeddingHost,omitempty"`
	EmbeddingModel          string `json:"embeddingModel,omitempty"`
	EmbeddingTimeoutSeconds int    `json:"embeddingTimeout,omitempty"`

	Analysis AnalysisConfig `json:"analysis"`

	ConfigPath string `json:"-"`
}

// AnalysisConfig holds the defaults applied to every analysis run. Pointer
// fields distinguish "unset" from an explicit false/zero so the engine's
// defaults only apply when the file is silent.
type AnalysisConfig struct {
	PrimaryMethod         string   `json:"primaryMethod,omitempty"`
	AdditionalMethods     []string `json:"additionalMethods,omitempty"`
	NGramSize             int      `json:"ngramSize,omitempty"`
	ConsistencyThreshold  float64  `json:"consistencyThreshold,omitempty"`
	CaseSensitive         *bool    `json:"caseSensitive,omitempty"`
	TrimOutputs           *bool    `json:"trimOutputs,omitempty"`
	NormalizeWhitespace   *bool    `json:"normalizeWhitespace,omitempty"`
	TokenAnalysis         *bool    `json:"tokenAnalysis,omitempty"`
	CharVariance          *bool    `json:"charVariance,omitempty"`
	ComputePairwiseMatrix *bool    `json:"computePairwiseMatrix,omitempty"`
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "concord.log"
}

// WorkerCount returns the number of analysis workers, at least 1.
func (c Config) WorkerCount() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}

// EmbeddingTimeout returns the timeout for embedding requests, falling back
// to the default if not specified.
func (c Config) EmbeddingTimeout() time.Duration {
	if c.EmbeddingTimeoutSeconds <= 0 {
		return defaultEmbeddingTimeout
	}
	return time.Duration(c.EmbeddingTimeoutSeconds) * time.Second
}

// ConsistencyConfig resolves the analysis section into the engine's
// configuration, validating any configured method names.
func (c Config) ConsistencyConfig() (consistency.Config, error) {
	cfg := consistency.DefaultConfig()

	if c.Analysis.PrimaryMethod != "" {
		method, err := similarity.ParseMethod(c.Analysis.PrimaryMethod)
		if err != nil {
			return consistency.Config{}, fmt.Errorf("primaryMethod: %w", err)
		}
		cfg.PrimaryMethod = method
	}
	for _, name := range c.Analysis.AdditionalMethods {
		method, err := similarity.ParseMethod(name)
		if err != nil {
			return consistency.Config{}, fmt.Errorf("additionalMethods: %w", err)
		}
		cfg.AdditionalMethods = append(cfg.AdditionalMethods, method)
	}
	if c.Analysis.NGramSize > 0 {
		cfg.NGramSize = c.Analysis.NGramSize
	}
	if c.Analysis.ConsistencyThreshold > 0 {
		cfg.ConsistencyThreshold = c.Analysis.ConsistencyThreshold
	}
	if c.Analysis.CaseSensitive != nil {
		cfg.CaseSensitive = *c.Analysis.CaseSensitive
	}
	if c.Analysis.TrimOutputs != nil {
		cfg.TrimOutputs = *c.Analysis.TrimOutputs
	}
	if c.Analysis.NormalizeWhitespace != nil {
		cfg.NormalizeWhitespace = *c.Analysis.NormalizeWhitespace
	}
	if c.Analysis.TokenAnalysis != nil {
		cfg.TokenAnalysis = *c.Analysis.TokenAnalysis
	}
	if c.Analysis.CharVariance != nil {
		cfg.CharVariance = *c.Analysis.CharVariance
	}
	if c.Analysis.ComputePairwiseMatrix != nil {
		cfg.ComputePairwiseMatrix = *c.Analysis.ComputePairwiseMatrix
	}
	return cfg, nil
}

// Load reads the application configuration from the specified path. A
// missing file at the default path is not an error: analysis runs fine on
// built-in defaults.
func Load(path string) (Config, error) {
	usedDefault := path == ""
	if usedDefault {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if usedDefault {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
