package cmd

import (
	"github.com/KaramelBytes/recipe-eda/internal/analysis"
	"github.com/KaramelBytes/recipe-eda/internal/charts"
	"github.com/KaramelBytes/recipe-eda/internal/clean"
	cfgpkg "github.com/KaramelBytes/recipe-eda/internal/config"
	"github.com/KaramelBytes/recipe-eda/internal/merge"
	"github.com/KaramelBytes/recipe-eda/internal/runlog"
)

func runMergeStage(opts merge.Options) (*merge.Result, error) {
	run := runlog.Start("merge", opts.RecipesPath, opts.InteractionsPath)
	res, err := merge.Run(opts, stageLogger(run))
	if err != nil {
		return nil, err
	}
	run.Counters["interactions"] = res.Interactions
	run.Counters["rated_recipes"] = res.RatedRecipes
	run.Counters["nutrition_parse_failures"] = res.ParseFailures
	run.Finish(opts.OutputPath, res.Recipes, len(res.Rows))
	record(run)
	return res, nil
}

func runCleanStage(opts clean.Options) (*clean.Result, error) {
	run := runlog.Start("clean", opts.InputPath)
	res, err := clean.Run(opts, stageLogger(run))
	if err != nil {
		return nil, err
	}
	run.Counters["dropped_missing"] = res.DroppedMissing
	run.Counters["dropped_calories"] = res.DroppedCalories
	run.Counters["dropped_rating"] = res.DroppedRating
	run.Counters["five_star"] = res.FiveStar
	for cat, n := range res.CategoryCounts {
		run.Counters["category_"+string(cat)] = n
	}
	run.Finish(opts.OutputPath, res.Input, len(res.Rows))
	record(run)
	return res, nil
}

func runVisualizeStage(opts charts.RunOptions) (*analysis.Stats, error) {
	run := runlog.Start("visualize", opts.InputPath)
	s, err := charts.Run(opts, stageLogger(run))
	if err != nil {
		return nil, err
	}
	run.Counters["outliers"] = s.Outliers
	run.Counters["high_rated"] = s.HighRated
	run.Counters["distinct_ratings"] = len(s.RatingCounts)
	run.Finish(opts.OutputPath, s.Rows, s.Rows)
	record(run)
	return s, nil
}

func boundsFrom(c *cfgpkg.Global) clean.Bounds {
	return clean.Bounds{
		MinCalories: c.MinCalories,
		MaxCalories: c.MaxCalories,
		MinRating:   c.MinRating,
		MaxRating:   c.MaxRating,
	}
}

func statsOptionsFrom(c *cfgpkg.Global) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.HighRating = c.HighRatingThreshold
	opt.ClipPercentile = c.ClipPercentile
	return opt
}

func imageOptionsFrom(c *cfgpkg.Global) charts.Options {
	return charts.Options{WidthIn: c.PlotWidthIn, HeightIn: c.PlotHeightIn, DPI: c.PlotDPI}
}
