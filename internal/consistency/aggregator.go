// internal/consistency/aggregator.go
package consistency

import "sort"

// AggregateModelStats groups results by (provider, model) and derives the
// per-model statistics. Output ordering is stable: sorted by provider, then
// model. It is a pure function of the result list.
func AggregateModelStats(results []GroupResult) []ModelStats {
	type bucket struct {
		provider, model string
		scores          []float64
		outputs         int
		consistent      int
		tokenCVs        []float64
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0)
	for _, r := range results {
		key := r.Provider + "\x00" + r.Model
		b, ok := buckets[key]
		if !ok {
			b = &bucket{provider: r.Provider, model: r.Model}
			buckets[key] = b
			order = append(order, key)
		}
		b.scores = append(b.scores, r.ConsistencyScore)
		b.outputs += r.OutputCount
		if r.IsConsistent {
			b.consistent++
		}
		if r.TokenStats != nil {
			b.tokenCVs = append(b.tokenCVs, r.TokenStats.CoefficientOfVar)
		}
	}
	sort.Strings(order)

	stats := make([]ModelStats, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		mean := meanFloat64(b.scores)
		min, max := minMaxFloat64(b.scores)

		ms := ModelStats{
			Provider:         b.provider,
			Model:            b.model,
			GroupCount:       len(b.scores),
			OutputCount:      b.outputs,
			MeanScore:        mean,
			MinScore:         min,
			MaxScore:         max,
			StddevScore:      stddevFromValues(b.scores, mean),
			P50Score:         percentileNearestRank(b.scores, 50),
			P95Score:         percentileNearestRank(b.scores, 95),
			P99Score:         percentileNearestRank(b.scores, 99),
			ConsistentGroups: b.consistent,
		}
		if len(b.scores) > 0 {
			ms.ConsistencyRate = float64(b.consistent) / float64(len(b.scores))
		}
		if len(b.tokenCVs) > 0 {
			ms.AvgTokenCV = meanFloat64(b.tokenCVs)
		}
		stats = append(stats, ms)
	}
	return stats
}
