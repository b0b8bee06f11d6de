package merge

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
)

// ColRatingCount is the number of non-missing ratings behind avg_rating.
const ColRatingCount = "n_ratings"

// AggregateRatings groups interactions by recipe_id and averages their
// ratings, rounded to two decimals half-to-even. Missing ratings are skipped;
// a recipe whose ratings are all missing gets an NA average. The result has
// recipe_id, avg_rating and n_ratings columns ordered by recipe_id.
func AggregateRatings(interactions dataframe.DataFrame) (dataframe.DataFrame, error) {
	if interactions.Nrow() == 0 {
		return ratingFrame(nil, nil, nil), nil
	}
	groups := interactions.GroupBy(dataset.ColRecipeID)
	if groups.Err != nil {
		return dataframe.DataFrame{}, groups.Err
	}
	byKey := groups.GetGroups()
	ids := make([]int, 0, len(byKey))
	avgs := make([]float64, 0, len(byKey))
	counts := make([]int, 0, len(byKey))
	for _, g := range byKey {
		id, err := g.Col(dataset.ColRecipeID).Elem(0).Int()
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		rated := make([]float64, 0, g.Nrow())
		for _, v := range g.Col(dataset.ColRating).Float() {
			if !math.IsNaN(v) {
				rated = append(rated, v)
			}
		}
		avg := math.NaN()
		if len(rated) > 0 {
			avg = RoundHalfEven(stat.Mean(rated, nil), 2)
		}
		ids = append(ids, id)
		avgs = append(avgs, avg)
		counts = append(counts, len(rated))
	}
	out := ratingFrame(ids, avgs, counts).Arrange(dataframe.Sort(dataset.ColRecipeID))
	return out, out.Err
}

func ratingFrame(ids []int, avgs []float64, counts []int) dataframe.DataFrame {
	return dataframe.New(
		series.New(ids, series.Int, dataset.ColRecipeID),
		dataset.FloatSeries(dataset.ColAvgRating, avgs),
		series.New(counts, series.Int, ColRatingCount),
	)
}

// RoundHalfEven rounds x to the given number of decimals, resolving ties of
// the scaled value to the even neighbour.
func RoundHalfEven(x float64, decimals int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*p) / p
}
