package analysis

import (
	"math"
	"sort"
)

// Quantile returns the q-quantile of sorted values using linear
// interpolation between closest ranks. Empty input yields NaN.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*w
}

// Sorted returns a sorted copy of vals without NaNs.
func Sorted(vals []float64) []float64 {
	cp := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			cp = append(cp, v)
		}
	}
	sort.Float64s(cp)
	return cp
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	cp := Sorted(vals)
	if len(cp) == 0 {
		return math.NaN(), math.NaN()
	}
	median = Quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = Quantile(dev, 0.5)
	return
}
