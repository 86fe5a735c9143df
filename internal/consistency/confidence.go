// internal/consistency/confidence.go
package consistency

import "math"

// Confidence factor weights. They sum to 1.0 so the score stays in [0,1].
const (
	weightSampleSize        = 0.20
	weightOutputsPerGroup   = 0.25
	weightMethodReliability = 0.20
	weightOutputLength      = 0.15
	weightScoreStability    = 0.20
)

// referenceOutputTokens is the token count treated as a fully informative
// output for the length factor.
const referenceOutputTokens = 200.0

// ScoreConfidence computes how trustworthy the analysis run itself is,
// independent of the consistency scores it produced. The returned report
// carries the raw per-factor values so callers can audit a low score.
func ScoreConfidence(results []GroupResult, cfg Config) ConfidenceReport {
	cfg = cfg.withDefaults()

	report := ConfidenceReport{
		MethodReliabilityFactor: cfg.PrimaryMethod.Reliability(),
	}

	// More groups analyzed means more evidence; log-scaled so the factor
	// saturates around 100 groups.
	report.SampleSizeFactor = math.Min(1.0, math.Log10(float64(len(results))+1)/2.0)

	if len(results) > 0 {
		totalOutputs := 0
		tokenCounts := make([]float64, 0, len(results))
		scores := make([]float64, 0, len(results))
		for _, r := range results {
			totalOutputs += r.OutputCount
			scores = append(scores, r.ConsistencyScore)
			if r.TokenStats != nil {
				tokenCounts = append(tokenCounts, r.TokenStats.AvgTokens)
			}
		}

		// Two outputs per group is the floor; ten or more saturates.
		avgOutputs := float64(totalOutputs) / float64(len(results))
		report.OutputsPerGroupFactor = clampFloat((avgOutputs-2.0)/8.0, 0, 1)

		report.OutputLengthFactor = clampFloat(meanFloat64(tokenCounts)/referenceOutputTokens, 0, 1)

		mean := meanFloat64(scores)
		variance := varianceFromValues(scores, mean)
		report.ScoreStabilityFactor = math.Max(0, 1.0-math.Sqrt(variance)*2.0)
	}

	report.Score = clampFloat(
		weightSampleSize*report.SampleSizeFactor+
			weightOutputsPerGroup*report.OutputsPerGroupFactor+
			weightMethodReliability*report.MethodReliabilityFactor+
			weightOutputLength*report.OutputLengthFactor+
			weightScoreStability*report.ScoreStabilityFactor,
		0, 1)

	return report
}
