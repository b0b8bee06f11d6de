// Package analysis computes descriptive statistics over the merged recipe
// table and renders them as a compact report.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
)

// Summary is a describe-style summary of a numeric column.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Summarize describes vals, ignoring NaNs. An empty column has Count 0 and
// NaN statistics.
func Summarize(vals []float64) Summary {
	sorted := Sorted(vals)
	if len(sorted) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}
	s := Summary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Std:    math.NaN(),
		Min:    sorted[0],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

// RatingCount is the number of recipes sharing one average rating.
type RatingCount struct {
	Rating float64
	Count  int
}

// Options controls the statistics.
type Options struct {
	// HighRating marks ratings counted as high (>=).
	HighRating float64
	// ClipPercentile is the calorie percentile above which values are outliers.
	ClipPercentile float64
	// RobustThreshold is the |z| cutoff of the MAD-based outlier count.
	RobustThreshold float64
}

// DefaultOptions mirrors the plot defaults: high rating 4.5, clip at P95.
func DefaultOptions() Options {
	return Options{HighRating: 4.5, ClipPercentile: 0.95, RobustThreshold: 3.5}
}

// Stats is the statistics bundle behind the report and the plots.
type Stats struct {
	Name           string
	Rows           int
	Calories       Summary
	MissingCalorie int
	P95            float64
	P99            float64
	ClipPercentile float64
	ClipValue      float64
	Outliers       int // calories strictly above ClipValue
	// Robust outliers via MAD z-score.
	RobustOutliers  int
	RobustThreshold float64

	AvgRating     Summary
	RatingCounts  []RatingCount
	MissingRating int
	HighRating    float64
	HighRated     int
	HighRatedPct  float64
}

// Describe computes Stats over the merged table.
func Describe(rows []dataset.RecipeRatingCalories, opt Options) *Stats {
	cals := dataset.Calories(rows)
	sorted := Sorted(cals)
	s := &Stats{
		Rows:            len(rows),
		Calories:        Summarize(cals),
		MissingCalorie:  len(rows) - len(cals),
		P95:             Quantile(sorted, 0.95),
		P99:             Quantile(sorted, 0.99),
		ClipPercentile:  opt.ClipPercentile,
		ClipValue:       Quantile(sorted, opt.ClipPercentile),
		HighRating:      opt.HighRating,
		RobustThreshold: opt.RobustThreshold,
	}
	for _, c := range sorted {
		if c > s.ClipValue {
			s.Outliers++
		}
	}
	if s.RobustThreshold > 0 && len(sorted) >= 8 {
		median, mad := medianMAD(sorted)
		if mad > 0 {
			for _, v := range sorted {
				if math.Abs(0.6745*(v-median)/mad) > s.RobustThreshold {
					s.RobustOutliers++
				}
			}
		}
	}

	ratings := make([]float64, 0, len(rows))
	for _, r := range rows {
		ratings = append(ratings, r.AvgRating)
	}
	s.AvgRating = Summarize(ratings)

	counts := map[float64]int{}
	for _, r := range rows {
		if math.IsNaN(r.AvgRating) {
			s.MissingRating++
			continue
		}
		counts[r.AvgRating]++
		if r.AvgRating >= opt.HighRating {
			s.HighRated++
		}
	}
	s.RatingCounts = make([]RatingCount, 0, len(counts))
	for v, n := range counts {
		s.RatingCounts = append(s.RatingCounts, RatingCount{Rating: v, Count: n})
	}
	sort.Slice(s.RatingCounts, func(i, j int) bool { return s.RatingCounts[i].Rating < s.RatingCounts[j].Rating })
	if s.Rows > 0 {
		s.HighRatedPct = float64(s.HighRated) * 100 / float64(s.Rows)
	}
	return s
}
