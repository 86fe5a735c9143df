// internal/consistency/stats.go
package consistency

import (
	"math"
	"sort"
)

// meanFloat64 calculates the mean of a slice of float64 values. An empty
// slice yields 0, never NaN.
func meanFloat64(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// stddevFromValues calculates the population standard deviation of values
// given their mean. An empty slice yields 0.
func stddevFromValues(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)))
}

// varianceFromValues calculates the population variance of values given
// their mean.
func varianceFromValues(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(values))
}

// percentileNearestRank returns the p-th percentile of values using the
// nearest-rank method: index = ceil(p/100 * n) - 1, clamped at 0. An empty
// slice yields 0.
func percentileNearestRank(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Ceil(p/100.0*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// coefficientOfVariation is stddev/mean, defined as 0 when the mean is 0.
func coefficientOfVariation(stddev, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return stddev / mean
}

// minMaxFloat64 returns the smallest and largest value in values. An empty
// slice yields (0, 0).
func minMaxFloat64(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// clampFloat restricts a float64 value to a given range.
func clampFloat(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
