package merge

import (
	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
)

// Join inner-joins recipes (id, calories) with rating aggregates (recipe_id,
// avg_rating) on recipe id. Output follows recipe order and has the merged
// table columns; recipes without ratings and ratings without a recipe are
// dropped.
func Join(recipes, ratings dataframe.DataFrame) (dataframe.DataFrame, error) {
	if recipes.Nrow() == 0 || ratings.Nrow() == 0 {
		return dataset.MergedFrame(nil), nil
	}
	recipeIDs, err := recipes.Col(dataset.ColID).Int()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	ratedIDs, err := ratings.Col(dataset.ColRecipeID).Int()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	byID := make(map[int]int, len(ratedIDs))
	for i, id := range ratedIDs {
		byID[id] = i
	}
	left := make([]int, 0, min(len(recipeIDs), len(ratedIDs)))
	right := make([]int, 0, cap(left))
	for i, id := range recipeIDs {
		if j, ok := byID[id]; ok {
			left = append(left, i)
			right = append(right, j)
		}
	}
	if len(left) == 0 {
		return dataset.MergedFrame(nil), nil
	}

	l, r := recipes.Subset(left), ratings.Subset(right)
	if l.Err != nil {
		return dataframe.DataFrame{}, l.Err
	}
	if r.Err != nil {
		return dataframe.DataFrame{}, r.Err
	}
	ids := l.Col(dataset.ColID)
	ids.Name = dataset.ColRecipeID
	out := dataframe.New(ids, r.Col(dataset.ColAvgRating), l.Col(dataset.ColCalories))
	return out, out.Err
}
