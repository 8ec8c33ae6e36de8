// Package trend estimates a discrete rate of change over irregularly
// sampled series using a fixed lookback interval and an adaptive time
// tolerance. Provider cadence is uneven and occasionally missing, so this
// is deliberately more forgiving than fixed-step differencing.
package trend

import (
	"math"
	"sort"
)

const minToleranceS = 30.0

// Calculate returns one per-hour rate per input index: the difference
// between values[i] and the value at the other sample nearest to
// times[i]-interval, divided by the interval in hours. Indexes with no
// sample inside tolerance, or with a NaN on either side, get NaN. No
// ordering is assumed on the inputs.
func Calculate(values []float64, times []int64, intervalMinutes float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 || len(times) != n || intervalMinutes <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	intervalS := intervalMinutes * 60.0
	tolerance := math.Max(minToleranceS, 0.35*intervalS)
	if step := medianStep(times); step > 0 {
		tolerance = math.Max(tolerance, 1.5*step)
	}

	intervalH := intervalMinutes / 60.0
	for i := 0; i < n; i++ {
		target := float64(times[i]) - intervalS

		best := -1
		bestDiff := math.Inf(1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			if d := math.Abs(float64(times[j]) - target); d < bestDiff {
				bestDiff = d
				best = j
			}
		}

		if best < 0 || bestDiff > tolerance ||
			math.IsNaN(values[i]) || math.IsNaN(values[best]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (values[i] - values[best]) / intervalH
	}
	return out
}

// medianStep infers the series' typical sampling step as the median of the
// positive consecutive deltas of the sorted timestamps. Returns 0 when no
// positive delta exists.
func medianStep(times []int64) float64 {
	if len(times) < 2 {
		return 0
	}
	sorted := make([]int64, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var deltas []float64
	for i := 1; i < len(sorted); i++ {
		if d := sorted[i] - sorted[i-1]; d > 0 {
			deltas = append(deltas, float64(d))
		}
	}
	if len(deltas) == 0 {
		return 0
	}
	sort.Float64s(deltas)
	mid := len(deltas) / 2
	if len(deltas)%2 == 1 {
		return deltas[mid]
	}
	return (deltas[mid-1] + deltas[mid]) / 2
}
