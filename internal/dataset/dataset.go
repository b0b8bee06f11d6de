// Package dataset defines the tables passed between pipeline stages and
// their CSV encodings.
package dataset

import "math"

// Column names of the stage outputs.
const (
	ColRecipeID        = "recipe_id"
	ColAvgRating       = "avg_rating"
	ColCalories        = "calories"
	ColIsFiveStar      = "is_five_star"
	ColCalorieCategory = "calorie_category"
)

// MergedHeader is the column order of the merge stage output.
var MergedHeader = []string{ColRecipeID, ColAvgRating, ColCalories}

// CleanedHeader is the column order of the cleaning stage output.
var CleanedHeader = []string{ColRecipeID, ColAvgRating, ColCalories, ColIsFiveStar, ColCalorieCategory}

// RecipeRatingCalories is a row of the merged table.
type RecipeRatingCalories struct {
	RecipeID  int64
	IDMissing bool
	AvgRating float64
	Calories  float64
}

// HasMissing reports whether any column of the row is missing.
func (r RecipeRatingCalories) HasMissing() bool {
	return r.IDMissing || math.IsNaN(r.AvgRating) || math.IsNaN(r.Calories)
}

// CalorieCategory is the tercile label of a cleaned recipe.
type CalorieCategory string

const (
	Low    CalorieCategory = "Low"
	Medium CalorieCategory = "Medium"
	High   CalorieCategory = "High"
)

// CategoryLabels lists the calorie categories in ascending order.
var CategoryLabels = []CalorieCategory{Low, Medium, High}

// CleanedRecipe is a row of the cleaned table.
type CleanedRecipe struct {
	RecipeRatingCalories
	IsFiveStar      int
	CalorieCategory CalorieCategory
}

// Calories returns the calorie column of rows, skipping missing values.
func Calories(rows []RecipeRatingCalories) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if !math.IsNaN(r.Calories) {
			out = append(out, r.Calories)
		}
	}
	return out
}
