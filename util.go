package isocontour

import (
	"math"
	"slices"
)

// Levels returns n thresholds evenly spaced over [lo, hi], both ends included.
// A single level sits at the midpoint.
func Levels(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{mix(lo, hi, 0.5)}
	}
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = mix(lo, hi, float64(i)/float64(n-1))
	}
	levels[n-1] = hi
	return levels
}

// InteriorLevels returns n thresholds evenly spaced strictly inside (lo, hi).
func InteriorLevels(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = mix(lo, hi, float64(i+1)/float64(n+1))
	}
	return levels
}

// Range returns the minimum and maximum of values, ignoring NaNs.
// An empty or all NaN input returns (+Inf, -Inf).
func Range(values []float64) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// mix does a linear interpolation from x to y, a = [0,1]
func mix(x, y, a float64) float64 {
	return x + (a * (y - x))
}

// sortedThresholds returns a sorted copy of thresholds without duplicates or NaNs.
func sortedThresholds(thresholds []float64) []float64 {
	out := make([]float64, 0, len(thresholds))
	for _, t := range thresholds {
		if !math.IsNaN(t) {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
