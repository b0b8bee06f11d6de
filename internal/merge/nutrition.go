package merge

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
)

// ParseCalories returns the first element of a bracketed nutrition list such
// as "[51.5, 0.0, 13.0]". Any malformed input yields NaN.
func ParseCalories(nutrition string) float64 {
	s := strings.TrimSpace(nutrition)
	if strings.HasPrefix(s, "[") != strings.HasSuffix(s, "]") {
		return math.NaN()
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	first, _, _ := strings.Cut(s, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ExtractCalories adds a calories column parsed from the nutrition column of
// recipes and returns how many values could not be parsed. Those rows keep an
// NA calorie value.
func ExtractCalories(recipes dataframe.DataFrame) (dataframe.DataFrame, int, error) {
	nutrition := recipes.Col(dataset.ColNutrition)
	if nutrition.Err != nil {
		return dataframe.DataFrame{}, 0, nutrition.Err
	}
	recs := nutrition.Records()
	cals := make([]float64, len(recs))
	failures := 0
	for i, s := range recs {
		cals[i] = ParseCalories(s)
		if math.IsNaN(cals[i]) {
			failures++
		}
	}
	out := recipes.Mutate(dataset.FloatSeries(dataset.ColCalories, cals))
	return out, failures, out.Err
}
