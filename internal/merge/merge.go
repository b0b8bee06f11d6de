// Package merge builds the recipe calories and average rating table from the
// raw recipes and interactions tables.
package merge

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/KaramelBytes/recipe-eda/internal/logger"
	"github.com/KaramelBytes/recipe-eda/internal/utils"
)

// Options names the stage inputs and output.
type Options struct {
	RecipesPath      string
	InteractionsPath string
	OutputPath       string
}

// Result summarizes one merge run. ParseFailures counts recipes dropped
// because their calories could not be extracted.
type Result struct {
	Recipes       int
	Interactions  int
	RatedRecipes  int
	ParseFailures int
	Rows          []dataset.RecipeRatingCalories
}

// Merge extracts calories, aggregates ratings and joins both tables in memory.
// Only recipes with a calorie value and at least one interaction are kept.
func Merge(recipes, interactions dataframe.DataFrame) (*Result, error) {
	res := &Result{Recipes: recipes.Nrow(), Interactions: interactions.Nrow()}
	withCalories, failures, err := ExtractCalories(recipes)
	if err != nil {
		return nil, fmt.Errorf("extract calories: %w", err)
	}
	res.ParseFailures = failures
	if failures > 0 {
		withCalories = withCalories.Filter(dataset.Present(dataset.ColCalories))
		if withCalories.Err != nil {
			return nil, fmt.Errorf("drop missing calories: %w", withCalories.Err)
		}
	}

	ratings, err := AggregateRatings(interactions)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	res.RatedRecipes = ratings.Nrow()

	joined, err := Join(withCalories, ratings)
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	if res.Rows, err = dataset.MergedRows(joined); err != nil {
		return nil, err
	}
	return res, nil
}

// Run reads both raw tables, merges them and writes the output CSV. The output
// is replaced atomically, so a failed run leaves no partial file.
func Run(opts Options, log *logger.Logger) (*Result, error) {
	log.Info("loading recipes", "path", opts.RecipesPath)
	recipes, err := dataset.ReadRecipes(opts.RecipesPath)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	log.Info("loading interactions", "path", opts.InteractionsPath)
	interactions, err := dataset.ReadInteractions(opts.InteractionsPath)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	res, err := Merge(recipes, interactions)
	if err != nil {
		return nil, err
	}
	log.Info("merged tables",
		"recipes", res.Recipes,
		"interactions", res.Interactions,
		"rated_recipes", res.RatedRecipes,
		"nutrition_parse_failures", res.ParseFailures,
		"rows", len(res.Rows))
	if res.ParseFailures > 0 {
		log.Warn("some nutrition values could not be parsed; recipes dropped", "count", res.ParseFailures)
	}

	err = utils.WriteAtomic(opts.OutputPath, func(w io.Writer) error {
		return dataset.WriteMerged(w, res.Rows)
	})
	if err != nil {
		return nil, fmt.Errorf("write merged table: %w", err)
	}
	log.Info("saved merged table", "path", opts.OutputPath, "rows", len(res.Rows))
	return res, nil
}
