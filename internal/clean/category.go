package clean

import (
	"math"

	"github.com/KaramelBytes/recipe-eda/internal/analysis"
	"github.com/KaramelBytes/recipe-eda/internal/dataset"
)

// TercileEdges returns the distinct equal-frequency bin edges of values: the
// 0, 1/3, 2/3 and 1 quantiles with duplicates removed.
func TercileEdges(values []float64) []float64 {
	sorted := analysis.Sorted(values)
	if len(sorted) == 0 {
		return nil
	}
	edges := make([]float64, 0, 4)
	for _, q := range []float64{0, 1.0 / 3, 2.0 / 3, 1} {
		e := analysis.Quantile(sorted, q)
		if len(edges) > 0 && e == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, e)
	}
	return edges
}

// Terciles assigns each value a calorie category by equal-frequency binning.
// Bins are right-closed with the lowest edge included. When ties collapse
// edges, the remaining bins take labels from Low upward; a constant column is
// all Low.
func Terciles(values []float64) ([]dataset.CalorieCategory, error) {
	out := make([]dataset.CalorieCategory, len(values))
	if len(values) == 0 {
		return out, nil
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return nil, errMissingCalories
		}
	}
	edges := TercileEdges(values)
	for i, v := range values {
		out[i] = dataset.CategoryLabels[binIndex(edges, v)]
	}
	return out, nil
}

// binIndex finds the right-closed interval (edges[k], edges[k+1]] holding v;
// values at the lowest edge land in the first bin.
func binIndex(edges []float64, v float64) int {
	bins := len(edges) - 1
	if bins <= 0 {
		return 0
	}
	for k := 0; k < bins; k++ {
		if v <= edges[k+1] {
			return k
		}
	}
	return bins - 1
}
