// Package clean filters the merged table and derives the five-star flag and
// calorie category features.
package clean

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/recipe-eda/internal/analysis"
	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/KaramelBytes/recipe-eda/internal/logger"
	"github.com/KaramelBytes/recipe-eda/internal/utils"
)

var errMissingCalories = errors.New("calorie categories require complete calorie values")

// Bounds are the inclusive ranges a cleaned row must satisfy.
type Bounds struct {
	MinCalories float64
	MaxCalories float64
	MinRating   float64
	MaxRating   float64
}

// DefaultBounds keeps 10..5000 calories and ratings 0..5.
func DefaultBounds() Bounds {
	return Bounds{MinCalories: 10, MaxCalories: 5000, MinRating: 0, MaxRating: 5}
}

// Summary describes a numeric column at one point of the pipeline.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

func summarize(df dataframe.DataFrame, col string) Summary {
	s := analysis.Summarize(df.Col(col).Float())
	return Summary{Count: s.Count, Min: s.Min, Max: s.Max, Mean: s.Mean, Median: s.Median}
}

// Result holds the cleaned table and what each step removed.
type Result struct {
	Input           int
	DroppedMissing  int
	DroppedCalories int
	DroppedRating   int
	FiveStar        int
	CategoryCounts  map[dataset.CalorieCategory]int
	CaloriesBefore  Summary // after missing-value removal, before bounds
	CaloriesAfter   Summary
	RatingsAfter    Summary
	Rows            []dataset.CleanedRecipe
}

// Removed returns the total number of dropped rows.
func (r *Result) Removed() int { return r.DroppedMissing + r.DroppedCalories + r.DroppedRating }

// Clean applies the filter pipeline in order: missing values, calorie bounds,
// rating bounds, then derives is_five_star and calorie_category.
func Clean(rows []dataset.RecipeRatingCalories, b Bounds) (*Result, error) {
	res := &Result{Input: len(rows), CategoryCounts: map[dataset.CalorieCategory]int{}}

	df, err := keep(dataset.MergedFrame(rows), &res.DroppedMissing,
		dataset.Present(dataset.ColRecipeID),
		dataset.Present(dataset.ColAvgRating),
		dataset.Present(dataset.ColCalories))
	if err != nil {
		return nil, fmt.Errorf("drop missing values: %w", err)
	}
	res.CaloriesBefore = summarize(df, dataset.ColCalories)

	df, err = keep(df, &res.DroppedCalories,
		dataframe.F{Colname: dataset.ColCalories, Comparator: series.GreaterEq, Comparando: b.MinCalories},
		dataframe.F{Colname: dataset.ColCalories, Comparator: series.LessEq, Comparando: b.MaxCalories})
	if err != nil {
		return nil, fmt.Errorf("filter calories: %w", err)
	}
	res.CaloriesAfter = summarize(df, dataset.ColCalories)

	df, err = keep(df, &res.DroppedRating,
		dataframe.F{Colname: dataset.ColAvgRating, Comparator: series.GreaterEq, Comparando: b.MinRating},
		dataframe.F{Colname: dataset.ColAvgRating, Comparator: series.LessEq, Comparando: b.MaxRating})
	if err != nil {
		return nil, fmt.Errorf("filter ratings: %w", err)
	}
	res.RatingsAfter = summarize(df, dataset.ColAvgRating)

	kept, err := dataset.MergedRows(df)
	if err != nil {
		return nil, err
	}
	cats, err := Terciles(df.Col(dataset.ColCalories).Float())
	if err != nil {
		return nil, err
	}

	res.Rows = make([]dataset.CleanedRecipe, len(kept))
	for i, r := range kept {
		star := 0
		if r.AvgRating == 5.0 {
			star = 1
			res.FiveStar++
		}
		res.Rows[i] = dataset.CleanedRecipe{RecipeRatingCalories: r, IsFiveStar: star, CalorieCategory: cats[i]}
		res.CategoryCounts[cats[i]]++
	}
	return res, nil
}

// keep narrows df to the rows passing every filter and adds the number of
// removed rows to dropped.
func keep(df dataframe.DataFrame, dropped *int, filters ...dataframe.F) (dataframe.DataFrame, error) {
	before := df.Nrow()
	for _, f := range filters {
		if df.Nrow() == 0 {
			break
		}
		df = df.Filter(f)
		if df.Err != nil {
			return df, df.Err
		}
	}
	*dropped += before - df.Nrow()
	return df, nil
}

// Options names the stage input and output.
type Options struct {
	InputPath  string
	OutputPath string
	Bounds     Bounds
}

// Run reads the merged table, cleans it and writes the cleaned table atomically.
func Run(opts Options, log *logger.Logger) (*Result, error) {
	log.Info("loading merged table", "path", opts.InputPath)
	rows, err := dataset.ReadMerged(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("load merged table: %w", err)
	}
	res, err := Clean(rows, opts.Bounds)
	if err != nil {
		return nil, err
	}
	log.Info("removed recipes with missing values", "removed", res.DroppedMissing, "remaining", res.Input-res.DroppedMissing)
	log.Info("removed calorie outliers",
		"removed", res.DroppedCalories,
		"min_calories", opts.Bounds.MinCalories,
		"max_calories", opts.Bounds.MaxCalories,
		"before_min", fmtStat(res.CaloriesBefore.Min),
		"before_max", fmtStat(res.CaloriesBefore.Max),
		"after_min", fmtStat(res.CaloriesAfter.Min),
		"after_max", fmtStat(res.CaloriesAfter.Max))
	log.Info("verified rating range",
		"removed", res.DroppedRating,
		"min_rating", fmtStat(res.RatingsAfter.Min),
		"max_rating", fmtStat(res.RatingsAfter.Max))
	log.Info("derived features",
		"five_star", res.FiveStar,
		"low", res.CategoryCounts[dataset.Low],
		"medium", res.CategoryCounts[dataset.Medium],
		"high", res.CategoryCounts[dataset.High])

	err = utils.WriteAtomic(opts.OutputPath, func(w io.Writer) error {
		return dataset.WriteCleaned(w, res.Rows)
	})
	if err != nil {
		return nil, fmt.Errorf("write cleaned table: %w", err)
	}
	log.Info("saved cleaned table", "path", opts.OutputPath, "rows", len(res.Rows), "removed", res.Removed())
	return res, nil
}

func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", v)
}
