// internal/consistency/confidence_test.go
package consistency

import (
	"math"
	"testing"

	"github.com/mwiater/concord/internal/similarity"
)

func uniformResults(groups, outputsPerGroup int, score, avgTokens float64) []GroupResult {
	results := make([]GroupResult, groups)
	for i := range results {
		results[i] = GroupResult{
			Provider:         "openai",
			Model:            "gpt-4",
			ConsistencyScore: score,
			OutputCount:      outputsPerGroup,
			TokenStats:       &TokenStats{AvgTokens: avgTokens},
		}
	}
	return results
}

func TestScoreConfidenceFactors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.PrimaryMethod = similarity.ExactMatch

	report := ScoreConfidence(uniformResults(99, 10, 0.9, 200), cfg)

	// log10(100)/2 = 1.0
	if math.Abs(report.SampleSizeFactor-1.0) > 1e-9 {
		t.Fatalf("sample size factor = %v want 1.0", report.SampleSizeFactor)
	}
	if report.OutputsPerGroupFactor != 1.0 {
		t.Fatalf("outputs factor = %v want 1.0 at 10 outputs/group", report.OutputsPerGroupFactor)
	}
	if report.MethodReliabilityFactor != 1.0 {
		t.Fatalf("method factor = %v want 1.0 for exact_match", report.MethodReliabilityFactor)
	}
	if report.OutputLengthFactor != 1.0 {
		t.Fatalf("length factor = %v want 1.0 at 200 tokens", report.OutputLengthFactor)
	}
	if report.ScoreStabilityFactor != 1.0 {
		t.Fatalf("stability factor = %v want 1.0 with zero variance", report.ScoreStabilityFactor)
	}
	if math.Abs(report.Score-1.0) > 1e-9 {
		t.Fatalf("confidence = %v want 1.0", report.Score)
	}
}

func TestScoreConfidenceOutputsPerGroupFloor(t *testing.T) {
	t.Parallel()

	report := ScoreConfidence(uniformResults(5, 2, 0.9, 100), DefaultConfig())
	if report.OutputsPerGroupFactor != 0.0 {
		t.Fatalf("outputs factor = %v want 0.0 at the two-output floor", report.OutputsPerGroupFactor)
	}

	report = ScoreConfidence(uniformResults(5, 6, 0.9, 100), DefaultConfig())
	if report.OutputsPerGroupFactor != 0.5 {
		t.Fatalf("outputs factor = %v want 0.5 at six outputs", report.OutputsPerGroupFactor)
	}
}

func TestScoreConfidenceMonotonicInSampleSize(t *testing.T) {
	t.Parallel()

	prev := -1.0
	for _, groups := range []int{1, 2, 5, 10, 50, 100, 400} {
		report := ScoreConfidence(uniformResults(groups, 5, 0.9, 150), DefaultConfig())
		if report.Score < prev {
			t.Fatalf("confidence decreased at %d groups: %v < %v", groups, report.Score, prev)
		}
		prev = report.Score
	}
}

func TestScoreConfidenceMonotonicInOutputsPerGroup(t *testing.T) {
	t.Parallel()

	prev := -1.0
	for _, outputs := range []int{2, 3, 5, 8, 10, 20} {
		report := ScoreConfidence(uniformResults(10, outputs, 0.9, 150), DefaultConfig())
		if report.Score < prev {
			t.Fatalf("confidence decreased at %d outputs/group: %v < %v", outputs, report.Score, prev)
		}
		prev = report.Score
	}
}

func TestScoreConfidencePenalizesScoreVariance(t *testing.T) {
	t.Parallel()

	stable := ScoreConfidence(uniformResults(10, 5, 0.9, 150), DefaultConfig())

	volatile := uniformResults(10, 5, 0.9, 150)
	for i := range volatile {
		if i%2 == 0 {
			volatile[i].ConsistencyScore = 0.1
		}
	}
	unstable := ScoreConfidence(volatile, DefaultConfig())

	if unstable.Score >= stable.Score {
		t.Fatalf("volatile scores should lower confidence: %v >= %v", unstable.Score, stable.Score)
	}
	if unstable.ScoreStabilityFactor >= stable.ScoreStabilityFactor {
		t.Fatalf("stability factor should drop: %v >= %v", unstable.ScoreStabilityFactor, stable.ScoreStabilityFactor)
	}
}

func TestScoreConfidenceEmptyResults(t *testing.T) {
	t.Parallel()

	report := ScoreConfidence(nil, DefaultConfig())
	if report.SampleSizeFactor != 0 || report.OutputsPerGroupFactor != 0 {
		t.Fatalf("empty run factors = %+v", report)
	}
	if math.IsNaN(report.Score) {
		t.Fatal("confidence must not be NaN for an empty run")
	}
	// Method reliability still contributes even with no results.
	if report.MethodReliabilityFactor != similarity.NormalizedLevenshtein.Reliability() {
		t.Fatalf("method factor = %v", report.MethodReliabilityFactor)
	}
}
