package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the raw tables.
const (
	ColID        = "id"
	ColNutrition = "nutrition"
	ColRating    = "rating"
)

const bom = "\ufeff"

// LoadFrame reads a CSV (or .tsv) file into a DataFrame whose columns are all
// strings and checks that every required column is present. An empty file is
// reported as missing its first required column.
func LoadFrame(path string, required ...string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if b, err := br.Peek(len(bom)); err == nil && string(b) == bom {
		_, _ = br.Discard(len(bom))
	}
	data, err := io.ReadAll(br)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if len(required) == 0 {
			return dataframe.DataFrame{}, nil
		}
		return dataframe.DataFrame{}, &SchemaError{Path: path, Column: required[0]}
	}

	delim := sniffDelimiter(path)
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		// gota refuses a header without rows; an empty table is valid here.
		empty, ok := headerOnly(data, delim)
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", path, df.Err)
		}
		df = empty
	}
	for _, name := range df.Names() {
		if trimmed := strings.TrimSpace(name); trimmed != name {
			df = df.Rename(trimmed, name)
		}
	}
	names := df.Names()
	for _, col := range required {
		if !slices.Contains(names, col) {
			return dataframe.DataFrame{}, &SchemaError{Path: path, Column: col}
		}
	}
	return df, nil
}

// headerOnly builds a zero-row frame of string columns when data holds a
// header and nothing else.
func headerOnly(data []byte, delim rune) (dataframe.DataFrame, bool) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	records, err := r.ReadAll()
	if err != nil || len(records) != 1 {
		return dataframe.DataFrame{}, false
	}
	cols := make([]series.Series, len(records[0]))
	for i, name := range records[0] {
		cols[i] = series.New([]string{}, series.String, name)
	}
	df := dataframe.New(cols...)
	return df, df.Err == nil
}

// ReadRecipes loads the raw recipes table as a frame of an Int id column and
// the raw nutrition strings. A missing or non-integer id is a ValueError.
func ReadRecipes(path string) (dataframe.DataFrame, error) {
	df, err := LoadFrame(path, ColID, ColNutrition)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	ids, err := idSeries(path, df.Col(ColID))
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return dataframe.New(ids, df.Col(ColNutrition)), nil
}

// ReadInteractions loads the raw interactions table as a frame of Int
// recipe_id and Float rating columns. Empty ratings are NA.
func ReadInteractions(path string) (dataframe.DataFrame, error) {
	df, err := LoadFrame(path, ColRecipeID, ColRating)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	ids, err := idSeries(path, df.Col(ColRecipeID))
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	ratings, err := floatSeries(path, df.Col(ColRating))
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return dataframe.New(ids, ratings), nil
}

// ReadMerged reads recipe_id, avg_rating and calories from a merged or
// cleaned table. Missing cells are preserved as IDMissing or NaN.
func ReadMerged(path string) ([]RecipeRatingCalories, error) {
	df, err := LoadFrame(path, MergedHeader...)
	if err != nil {
		return nil, err
	}
	return decodeMerged(path, df)
}

// ReadCleaned reads a table written by WriteCleaned.
func ReadCleaned(path string) ([]CleanedRecipe, error) {
	df, err := LoadFrame(path, CleanedHeader...)
	if err != nil {
		return nil, err
	}
	base, err := decodeMerged(path, df)
	if err != nil {
		return nil, err
	}
	stars := df.Col(ColIsFiveStar).Records()
	cats := df.Col(ColCalorieCategory).Records()
	out := make([]CleanedRecipe, len(base))
	for i := range base {
		star, err := strconv.Atoi(strings.TrimSpace(stars[i]))
		if err != nil || (star != 0 && star != 1) {
			if err == nil {
				err = errors.New("want 0 or 1")
			}
			return nil, &ValueError{Path: path, Row: i + 1, Column: ColIsFiveStar, Value: stars[i], Err: err}
		}
		cat := CalorieCategory(strings.TrimSpace(cats[i]))
		switch cat {
		case Low, Medium, High:
		default:
			return nil, &ValueError{Path: path, Row: i + 1, Column: ColCalorieCategory, Value: cats[i], Err: errors.New("unknown category")}
		}
		out[i] = CleanedRecipe{RecipeRatingCalories: base[i], IsFiveStar: star, CalorieCategory: cat}
	}
	return out, nil
}

func decodeMerged(path string, df dataframe.DataFrame) ([]RecipeRatingCalories, error) {
	ids := df.Col(ColRecipeID).Records()
	ratings := df.Col(ColAvgRating).Records()
	cals := df.Col(ColCalories).Records()
	out := make([]RecipeRatingCalories, len(ids))
	for i := range ids {
		id, ok, err := ParseID(ids[i])
		if err != nil {
			return nil, &ValueError{Path: path, Row: i + 1, Column: ColRecipeID, Value: ids[i], Err: err}
		}
		r := RecipeRatingCalories{RecipeID: id, IDMissing: !ok}
		if r.AvgRating, err = ParseFloat(ratings[i]); err != nil {
			return nil, &ValueError{Path: path, Row: i + 1, Column: ColAvgRating, Value: ratings[i], Err: err}
		}
		if r.Calories, err = ParseFloat(cals[i]); err != nil {
			return nil, &ValueError{Path: path, Row: i + 1, Column: ColCalories, Value: cals[i], Err: err}
		}
		out[i] = r
	}
	return out, nil
}

// MergedFrame converts rows to a frame with Int recipe_id and Float
// avg_rating and calories columns. Missing cells become NA.
func MergedFrame(rows []RecipeRatingCalories) dataframe.DataFrame {
	ids := make([]string, len(rows))
	ratings := make([]float64, len(rows))
	cals := make([]float64, len(rows))
	for i, r := range rows {
		ids[i] = "NaN"
		if !r.IDMissing {
			ids[i] = strconv.FormatInt(r.RecipeID, 10)
		}
		ratings[i] = r.AvgRating
		cals[i] = r.Calories
	}
	return dataframe.New(
		series.New(ids, series.Int, ColRecipeID),
		FloatSeries(ColAvgRating, ratings),
		FloatSeries(ColCalories, cals),
	)
}

// MergedRows converts a frame with recipe_id, avg_rating and calories columns
// back to rows.
func MergedRows(df dataframe.DataFrame) ([]RecipeRatingCalories, error) {
	if df.Nrow() == 0 {
		return nil, nil
	}
	idCol := df.Col(ColRecipeID)
	if idCol.Err != nil {
		return nil, idCol.Err
	}
	ratings := df.Col(ColAvgRating).Float()
	cals := df.Col(ColCalories).Float()
	out := make([]RecipeRatingCalories, df.Nrow())
	for i := range out {
		r := RecipeRatingCalories{AvgRating: ratings[i], Calories: cals[i]}
		if el := idCol.Elem(i); el.IsNA() {
			r.IDMissing = true
		} else {
			id, err := el.Int()
			if err != nil {
				return nil, fmt.Errorf("row %d recipe_id: %w", i+1, err)
			}
			r.RecipeID = int64(id)
		}
		out[i] = r
	}
	return out, nil
}

// idSeries validates every cell of s as a present integer id and returns it
// as an Int series.
func idSeries(path string, s series.Series) (series.Series, error) {
	recs := s.Records()
	out := make([]string, len(recs))
	for i, v := range recs {
		id, ok, err := ParseID(v)
		if err == nil && !ok {
			err = errors.New("empty id")
		}
		if err != nil {
			return series.Series{}, &ValueError{Path: path, Row: i + 1, Column: s.Name, Value: v, Err: err}
		}
		out[i] = strconv.FormatInt(id, 10)
	}
	return series.New(out, series.Int, s.Name), nil
}

// floatSeries validates every cell of s as a number; missing tokens are NA.
func floatSeries(path string, s series.Series) (series.Series, error) {
	recs := s.Records()
	out := make([]float64, len(recs))
	for i, v := range recs {
		f, err := ParseFloat(v)
		if err != nil {
			return series.Series{}, &ValueError{Path: path, Row: i + 1, Column: s.Name, Value: v, Err: err}
		}
		out[i] = f
	}
	return FloatSeries(s.Name, out), nil
}

// FloatSeries builds a Float series named name. NaN values become NA.
func FloatSeries(name string, vals []float64) series.Series {
	recs := make([]string, len(vals))
	for i, v := range vals {
		recs[i] = frameFloat(v)
	}
	return series.New(recs, series.Float, name)
}

// Present is a row filter keeping rows whose col holds a value.
func Present(col string) dataframe.F {
	return dataframe.F{
		Colname:    col,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && !math.IsNaN(el.Float())
		},
	}
}

func frameFloat(v float64) string {
	if v != v {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
