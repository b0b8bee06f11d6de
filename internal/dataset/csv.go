package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// IsMissingToken reports whether s encodes a missing value.
func IsMissingToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "na", "n/a", "null", "none":
		return true
	}
	return false
}

// ParseFloat decodes a numeric cell. Missing tokens decode to NaN without error.
func ParseFloat(s string) (float64, error) {
	if IsMissingToken(s) {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ParseID decodes an integer identifier. ok is false for a missing cell.
// Integral floats such as "42.0" are accepted.
func ParseID(s string) (id int64, ok bool, err error) {
	if IsMissingToken(s) {
		return 0, false, nil
	}
	t := strings.TrimSpace(s)
	id, err = strconv.ParseInt(t, 10, 64)
	if err == nil {
		return id, true, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, false, err
	}
	f, ferr := strconv.ParseFloat(t, 64)
	if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false, err
	}
	return int64(f), true, nil
}

// FormatFloat renders a float the way the CSV outputs carry it: shortest
// round-trip digits with a trailing ".0" for integral values, empty for NaN.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func formatID(r RecipeRatingCalories) string {
	if r.IDMissing {
		return ""
	}
	return strconv.FormatInt(r.RecipeID, 10)
}

// WriteMerged encodes rows with MergedHeader.
func WriteMerged(w io.Writer, rows []RecipeRatingCalories) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MergedHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{formatID(r), FormatFloat(r.AvgRating), FormatFloat(r.Calories)}); err != nil {
			return fmt.Errorf("write row %d: %w", r.RecipeID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCleaned encodes rows with CleanedHeader.
func WriteCleaned(w io.Writer, rows []CleanedRecipe) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CleanedHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			formatID(r.RecipeRatingCalories),
			FormatFloat(r.AvgRating),
			FormatFloat(r.Calories),
			strconv.Itoa(r.IsFiveStar),
			string(r.CalorieCategory),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", r.RecipeID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}
