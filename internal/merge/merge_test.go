package merge

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/KaramelBytes/recipe-eda/internal/logger"
)

func TestJoinInnerKeepsRecipeOrder(t *testing.T) {
	recipes := caloriesFrame([]int{30, 10, 20, 40}, []float64{300, 100, 200, 400})
	ratings := ratingsFrame([]int{10, 20, 30, 99}, []float64{4.5, 3, 5, 1})
	joined, err := Join(recipes, ratings)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if got := joined.Names(); len(got) != 3 || got[0] != dataset.ColRecipeID || got[2] != dataset.ColCalories {
		t.Fatalf("columns = %v, want %v", got, dataset.MergedHeader)
	}
	got, err := dataset.MergedRows(joined)
	if err != nil {
		t.Fatalf("MergedRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	wantIDs := []int64{30, 10, 20}
	for i, id := range wantIDs {
		if got[i].RecipeID != id {
			t.Fatalf("row %d id = %d, want %d", i, got[i].RecipeID, id)
		}
	}
	if got[0].AvgRating != 5 || got[0].Calories != 300 {
		t.Fatalf("row 0 = %+v", got[0])
	}
}

func TestJoinNoOverlap(t *testing.T) {
	joined, err := Join(caloriesFrame([]int{1}, []float64{10}), ratingsFrame([]int{2}, []float64{5}))
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined.Nrow() != 0 {
		t.Fatalf("rows = %d, want 0", joined.Nrow())
	}
}

func TestMergeDropsRecipesWithoutCalories(t *testing.T) {
	recipes := recipesFrame([]int{1, 2, 3}, []string{"[bad]", "", "[300.0]"})
	interactions := interactionsFrame([]int{1, 2, 3}, []float64{5, 4, 3})
	res, err := Merge(recipes, interactions)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	bound := min(res.Recipes-res.ParseFailures, res.RatedRecipes)
	if len(res.Rows) > bound {
		t.Fatalf("rows %d exceed bound %d", len(res.Rows), bound)
	}
	if len(res.Rows) != 1 || res.Rows[0].RecipeID != 3 {
		t.Fatalf("rows = %+v, want only recipe 3", res.Rows)
	}
	if res.ParseFailures != 2 {
		t.Fatalf("parse failures = %d, want 2", res.ParseFailures)
	}
	for _, r := range res.Rows {
		if math.IsNaN(r.Calories) {
			t.Fatalf("row without calories emitted: %+v", r)
		}
	}
}

func TestMergeRowCountBound(t *testing.T) {
	recipes := recipesFrame([]int{1, 2, 3, 4}, []string{"[100.0]", "[bad]", "[300.0]", "[400.0]"})
	interactions := interactionsFrame([]int{1, 2, 3, 77}, []float64{5, 4, 3, 2})
	res, err := Merge(recipes, interactions)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	bound := min(res.Recipes-res.ParseFailures, res.RatedRecipes)
	if len(res.Rows) > bound {
		t.Fatalf("rows %d exceed bound %d", len(res.Rows), bound)
	}
	for _, r := range res.Rows {
		if r.RecipeID == 2 || r.RecipeID == 4 || r.RecipeID == 77 {
			t.Fatalf("id %d should be excluded", r.RecipeID)
		}
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
}

func TestMergeKeepsRecipeWithOnlyMissingRatings(t *testing.T) {
	recipes := recipesFrame([]int{1, 2}, []string{"[100.0]", "[200.0]"})
	interactions := interactionsFrame([]int{1, 2, 2}, []float64{math.NaN(), 4, 5})
	res, err := Merge(recipes, interactions)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	if !math.IsNaN(res.Rows[0].AvgRating) || res.Rows[0].Calories != 100 {
		t.Fatalf("row 0 = %+v, want NaN rating", res.Rows[0])
	}
	if res.Rows[1].AvgRating != 4.5 {
		t.Fatalf("row 1 = %+v", res.Rows[1])
	}
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestRunWritesMergedTable(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		RecipesPath: writeFixture(t, dir, "RAW_recipes.csv",
			"name,id,nutrition\n"+
				"a,1,\"[120.0, 1.0]\"\n"+
				"b,2,\"[6000.0, 1.0]\"\n"+
				"c,3,\"[80.0, 1.0]\"\n"),
		InteractionsPath: writeFixture(t, dir, "RAW_interactions.csv",
			"user_id,recipe_id,rating\n"+
				"1,1,5\n2,1,4\n3,2,5\n4,2,5\n5,1,3\n"),
		OutputPath: filepath.Join(dir, "out", "merged.csv"),
	}
	res, err := Run(opts, logger.Discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	b, err := os.ReadFile(opts.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "recipe_id,avg_rating,calories\n1,4.0,120.0\n2,5.0,6000.0\n"
	if string(b) != want {
		t.Fatalf("output = %q, want %q", b, want)
	}
}

func TestRunSchemaFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		RecipesPath:      writeFixture(t, dir, "r.csv", "id,nutrition\n1,[1.0]\n"),
		InteractionsPath: writeFixture(t, dir, "i.csv", "recipe_id,stars\n1,5\n"),
		OutputPath:       filepath.Join(dir, "merged.csv"),
	}
	_, err := Run(opts, logger.Discard())
	if !errors.Is(err, dataset.ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	if _, statErr := os.Stat(opts.OutputPath); !os.IsNotExist(statErr) {
		t.Fatalf("output should not exist, stat err = %v", statErr)
	}
}
