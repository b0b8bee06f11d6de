package merge

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
)

func recipesFrame(ids []int, nutrition []string) dataframe.DataFrame {
	return dataframe.New(
		series.New(ids, series.Int, dataset.ColID),
		series.New(nutrition, series.String, dataset.ColNutrition),
	)
}

func interactionsFrame(ids []int, ratings []float64) dataframe.DataFrame {
	return dataframe.New(
		series.New(ids, series.Int, dataset.ColRecipeID),
		dataset.FloatSeries(dataset.ColRating, ratings),
	)
}

func caloriesFrame(ids []int, calories []float64) dataframe.DataFrame {
	return dataframe.New(
		series.New(ids, series.Int, dataset.ColID),
		dataset.FloatSeries(dataset.ColCalories, calories),
	)
}

func ratingsFrame(ids []int, avgs []float64) dataframe.DataFrame {
	return dataframe.New(
		series.New(ids, series.Int, dataset.ColRecipeID),
		dataset.FloatSeries(dataset.ColAvgRating, avgs),
	)
}
