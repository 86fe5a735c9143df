// internal/consistency/engine.go
package consistency

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwiater/concord/internal/similarity"
)

// MaxBatchGroups caps how many execution groups one invocation accepts.
const MaxBatchGroups = 500

// Validation errors. They reject the whole batch before any group is
// analyzed; nothing is partially processed.
var (
	ErrBatchEmpty    = errors.New("batch contains no execution groups")
	ErrBatchTooLarge = fmt.Errorf("batch exceeds the maximum of %d execution groups", MaxBatchGroups)
	ErrTooFewOutputs = errors.New("group requires at least two outputs")
)

// Engine runs consistency analysis over batches of execution groups. It is
// stateless between invocations; the zero-value-equivalent NewEngine() is a
// fully working engine with no embedding capability.
type Engine struct {
	embedder similarity.Embedder
	workers  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithEmbedder injects the optional semantic-embedding capability. Without
// it the semantic method degrades to token Jaccard and reports that it did.
func WithEmbedder(embedder similarity.Embedder) Option {
	return func(e *Engine) { e.embedder = embedder }
}

// WithWorkers fans per-group analysis out across n goroutines. Group
// results do not depend on each other, so any worker count produces
// identical output; values below 2 keep processing sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze validates the batch, analyzes every group, and assembles the full
// run result: per-group results in input order, per-model stats, the run
// summary, and the confidence report. A nil cfg uses DefaultConfig.
func (e *Engine) Analyze(ctx context.Context, groups []PromptExecutionGroup, cfg *Config) (*AnalysisResult, error) {
	config := DefaultConfig()
	if cfg != nil {
		config = cfg.withDefaults()
	}

	if err := ValidateBatch(groups); err != nil {
		return nil, err
	}

	started := time.Now().UTC()
	results := e.analyzeAll(ctx, groups, config)
	modelStats := AggregateModelStats(results)
	completed := time.Now().UTC()

	return &AnalysisResult{
		RunID:              uuid.NewString(),
		Results:            results,
		ModelStats:         modelStats,
		Summary:            BuildSummary(results, modelStats),
		Confidence:         ScoreConfidence(results, config),
		Config:             config,
		ConstraintsApplied: collectConstraints(results),
		StartedAt:          started,
		CompletedAt:        completed,
		DurationMs:         completed.Sub(started).Milliseconds(),
	}, nil
}

// ValidateBatch applies the input validation rules: 1-500 groups, each with
// at least two outputs. The first violation rejects the whole batch.
func ValidateBatch(groups []PromptExecutionGroup) error {
	if len(groups) == 0 {
		return ErrBatchEmpty
	}
	if len(groups) > MaxBatchGroups {
		return fmt.Errorf("%w: got %d", ErrBatchTooLarge, len(groups))
	}
	for _, g := range groups {
		if len(g.Outputs) < 2 {
			return fmt.Errorf("group %q: %w (got %d)", g.ID, ErrTooFewOutputs, len(g.Outputs))
		}
	}
	return nil
}

// analyzeAll runs AnalyzeGroup over every group, sequentially or fanned out
// across the configured worker count. Results land in an index-addressed
// slice so output order matches input order regardless of scheduling.
func (e *Engine) analyzeAll(ctx context.Context, groups []PromptExecutionGroup, cfg Config) []GroupResult {
	results := make([]GroupResult, len(groups))

	if e.workers < 2 || len(groups) < 2 {
		for i, g := range groups {
			results[i] = AnalyzeGroup(ctx, g, cfg, e.embedder)
		}
		return results
	}

	workers := e.workers
	if workers > len(groups) {
		workers = len(groups)
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = AnalyzeGroup(ctx, groups[i], cfg, e.embedder)
			}
		}()
	}
	for i := range groups {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return results
}

// collectConstraints unions every group's soft constraints into a sorted,
// deduplicated run-level list.
func collectConstraints(results []GroupResult) []string {
	seen := make(map[string]bool)
	for _, r := range results {
		for _, c := range r.Constraints {
			seen[c] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	constraints := make([]string, 0, len(seen))
	for c := range seen {
		constraints = append(constraints, c)
	}
	sort.Strings(constraints)
	return constraints
}
