// internal/consistency/engine_test.go
package consistency

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/mwiater/concord/internal/similarity"
)

func batchOfGroups(n int) []PromptExecutionGroup {
	groups := make([]PromptExecutionGroup, n)
	for i := range groups {
		groups[i] = makeGroup(
			fmt.Sprintf("group-%03d", i),
			"openai", "gpt-4",
			fmt.Sprintf("answer variant %d alpha beta gamma", i),
			fmt.Sprintf("answer variant %d alpha beta delta", i),
			fmt.Sprintf("answer variant %d alpha beta gamma", i),
		)
	}
	return groups
}

func TestAnalyzeBatch(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	groups := batchOfGroups(4)

	result, err := engine.Analyze(context.Background(), groups, nil)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.RunID == "" {
		t.Fatal("expected a run ID")
	}
	if len(result.Results) != 4 {
		t.Fatalf("results count = %d want 4", len(result.Results))
	}
	for i, r := range result.Results {
		if want := fmt.Sprintf("group-%03d", i); r.GroupID != want {
			t.Fatalf("result %d group = %s want %s (ordering must match input)", i, r.GroupID, want)
		}
	}
	if len(result.ModelStats) != 1 {
		t.Fatalf("model stats count = %d want 1", len(result.ModelStats))
	}
	if result.Summary.TotalGroups != 4 || result.Summary.TotalOutputs != 12 {
		t.Fatalf("summary totals = %d/%d", result.Summary.TotalGroups, result.Summary.TotalOutputs)
	}
	if result.Confidence.Score <= 0 || result.Confidence.Score > 1 {
		t.Fatalf("confidence = %v out of (0,1]", result.Confidence.Score)
	}
	if result.Config.PrimaryMethod != similarity.NormalizedLevenshtein {
		t.Fatalf("config method = %s want default", result.Config.PrimaryMethod)
	}
	if result.CompletedAt.Before(result.StartedAt) {
		t.Fatal("completed before started")
	}
}

func TestAnalyzeRejectsEmptyBatch(t *testing.T) {
	t.Parallel()

	_, err := NewEngine().Analyze(context.Background(), nil, nil)
	if !errors.Is(err, ErrBatchEmpty) {
		t.Fatalf("err = %v want ErrBatchEmpty", err)
	}
}

func TestAnalyzeRejectsOversizedBatch(t *testing.T) {
	t.Parallel()

	// Scenario: 501 groups must be rejected before any result is computed.
	_, err := NewEngine().Analyze(context.Background(), batchOfGroups(MaxBatchGroups+1), nil)
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("err = %v want ErrBatchTooLarge", err)
	}
}

func TestAnalyzeRejectsSingleOutputGroup(t *testing.T) {
	t.Parallel()

	groups := batchOfGroups(3)
	groups[1].Outputs = groups[1].Outputs[:1]

	_, err := NewEngine().Analyze(context.Background(), groups, nil)
	if !errors.Is(err, ErrTooFewOutputs) {
		t.Fatalf("err = %v want ErrTooFewOutputs", err)
	}
}

func TestAnalyzeAtBatchCap(t *testing.T) {
	t.Parallel()

	result, err := NewEngine().Analyze(context.Background(), batchOfGroups(MaxBatchGroups), nil)
	if err != nil {
		t.Fatalf("Analyze at the cap returned error: %v", err)
	}
	if len(result.Results) != MaxBatchGroups {
		t.Fatalf("results count = %d want %d", len(result.Results), MaxBatchGroups)
	}
}

func TestAnalyzeWorkerCountsAgree(t *testing.T) {
	t.Parallel()

	groups := batchOfGroups(25)
	cfg := DefaultConfig()
	cfg.ComputePairwiseMatrix = true
	cfg.AdditionalMethods = []similarity.Method{similarity.TFIDFCosine}

	sequential, err := NewEngine().Analyze(context.Background(), groups, &cfg)
	if err != nil {
		t.Fatalf("sequential Analyze error: %v", err)
	}

	for _, workers := range []int{2, 4, 8} {
		concurrent, err := NewEngine(WithWorkers(workers)).Analyze(context.Background(), groups, &cfg)
		if err != nil {
			t.Fatalf("Analyze with %d workers error: %v", workers, err)
		}
		for i := range sequential.Results {
			a, b := sequential.Results[i], concurrent.Results[i]
			// Timestamps vary between runs; everything else is identical.
			a.AnalyzedAt = b.AnalyzedAt
			if !reflect.DeepEqual(a, b) {
				t.Fatalf("result %d differs with %d workers:\n%+v\nvs\n%+v", i, workers, a, b)
			}
		}
	}
}

func TestAnalyzeCollectsConstraints(t *testing.T) {
	t.Parallel()

	groups := []PromptExecutionGroup{
		makeGroup("identical", "openai", "gpt-4",
			"the very same answer text here", "the very same answer text here"),
		makeGroup("short", "openai", "gpt-4", "ok", "no"),
	}

	result, err := NewEngine().Analyze(context.Background(), groups, nil)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if !containsString(result.ConstraintsApplied, ConstraintIdenticalOutputs) {
		t.Fatalf("run constraints missing %s: %v", ConstraintIdenticalOutputs, result.ConstraintsApplied)
	}
	if !containsString(result.ConstraintsApplied, ConstraintOutputsTooShort) {
		t.Fatalf("run constraints missing %s: %v", ConstraintOutputsTooShort, result.ConstraintsApplied)
	}
}

func TestAnalyzeGroupsIndependent(t *testing.T) {
	t.Parallel()

	groups := batchOfGroups(6)

	full, err := NewEngine().Analyze(context.Background(), groups, nil)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	// Result for group i must not depend on the presence of other groups.
	solo, err := NewEngine().Analyze(context.Background(), groups[2:3], nil)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	a, b := full.Results[2], solo.Results[0]
	a.AnalyzedAt = b.AnalyzedAt
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("group result depends on batch context:\n%+v\nvs\n%+v", a, b)
	}
}

func TestAnalyzeSemanticWithEmbedder(t *testing.T) {
	t.Parallel()

	embedder := staticEmbedder{dims: 4}
	cfg := DefaultConfig()
	cfg.PrimaryMethod = similarity.SemanticEmbedding

	groups := []PromptExecutionGroup{
		makeGroup("sem", "openai", "gpt-4", "hello world today", "hello world today"),
	}
	result, err := NewEngine(WithEmbedder(embedder)).Analyze(context.Background(), groups, &cfg)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if containsString(result.ConstraintsApplied, ConstraintEmbeddingUnavailable) {
		t.Fatal("fallback constraint recorded despite a working embedder")
	}
	if result.Results[0].ConsistencyScore != 1.0 {
		t.Fatalf("semantic score = %v want 1.0 for identical texts", result.Results[0].ConsistencyScore)
	}
}

// staticEmbedder maps every text to a deterministic unit-ish vector.
type staticEmbedder struct{ dims int }

func (s staticEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, s.dims)
	for i, r := range text {
		vec[i%s.dims] += float64(r)
	}
	return vec, nil
}
