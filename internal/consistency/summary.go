// internal/consistency/summary.go
package consistency

// BuildSummary rolls the full result set and per-model stats into the
// run-level summary. Zero results yield zero rates and absent best/worst
// models, never an error.
func BuildSummary(results []GroupResult, modelStats []ModelStats) Summary {
	summary := Summary{
		TotalGroups:       len(results),
		TotalModels:       len(modelStats),
		ScoreDistribution: emptyDistribution(),
	}

	scores := make([]float64, 0, len(results))
	consistent := 0
	for _, r := range results {
		summary.TotalOutputs += r.OutputCount
		scores = append(scores, r.ConsistencyScore)
		if r.IsConsistent {
			consistent++
		}
		summary.ScoreDistribution[distributionBucket(r.ConsistencyScore)]++
	}

	summary.OverallMeanScore = meanFloat64(scores)
	if len(results) > 0 {
		summary.OverallConsistencyRate = float64(consistent) / float64(len(results))
	}

	for i := range modelStats {
		ms := modelStats[i]
		ref := &ModelRef{Provider: ms.Provider, Model: ms.Model, MeanScore: ms.MeanScore}
		if summary.MostConsistentModel == nil || ms.MeanScore > summary.MostConsistentModel.MeanScore {
			summary.MostConsistentModel = ref
		}
		if summary.LeastConsistentModel == nil || ms.MeanScore < summary.LeastConsistentModel.MeanScore {
			summary.LeastConsistentModel = ref
		}
	}

	return summary
}

// distributionBucket maps a consistency score onto its histogram bucket.
func distributionBucket(score float64) string {
	switch {
	case score >= 0.95:
		return BucketHighlyConsistent
	case score >= 0.85:
		return BucketConsistent
	case score >= 0.70:
		return BucketModeratelyConsistent
	case score >= 0.50:
		return BucketInconsistent
	default:
		return BucketHighlyInconsistent
	}
}

// DistributionBuckets returns the histogram bucket names from most to least
// consistent, for stable rendering.
func DistributionBuckets() []string {
	return []string{
		BucketHighlyConsistent,
		BucketConsistent,
		BucketModeratelyConsistent,
		BucketInconsistent,
		BucketHighlyInconsistent,
	}
}

func emptyDistribution() map[string]int {
	dist := make(map[string]int, 5)
	for _, b := range DistributionBuckets() {
		dist[b] = 0
	}
	return dist
}
