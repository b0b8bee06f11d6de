package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/KaramelBytes/recipe-eda/internal/runlog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCmd is a helper to execute the root command with args and return stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	// Reset sticky flag values and cached config between invocations
	resetFlags(rootCmd)
	cfg = nil
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// setupWorkspace writes the raw tables into a temp dir, isolates HOME and
// points every configured path into the temp dir.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))

	raw := filepath.Join(dir, "raw_data")
	if err := os.MkdirAll(raw, 0o755); err != nil {
		t.Fatal(err)
	}
	recipes := "name,id,minutes,nutrition\n" +
		"soup,101,20,\"[51.5, 0.0, 13.0, 0.0, 2.0, 0.0, 4.0]\"\n" +
		"feast,102,240,\"[6000.0, 300.0, 10.0]\"\n" +
		"salad,103,10,\"[120.0, 1.0]\"\n"
	interactions := "user_id,recipe_id,date,rating,review\n" +
		"1,101,2010-01-01,5,great\n" +
		"2,101,2010-02-01,5,again\n" +
		"3,101,2010-03-01,4,fine\n" +
		"4,102,2011-01-01,4,big\n" +
		"5,102,2011-02-01,3,too big\n"
	if err := os.WriteFile(filepath.Join(raw, "RAW_recipes.csv"), []byte(recipes), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(raw, "RAW_interactions.csv"), []byte(interactions), 0o644); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{
		"RECIPE_EDA_RECIPES_PATH":      filepath.Join(raw, "RAW_recipes.csv"),
		"RECIPE_EDA_INTERACTIONS_PATH": filepath.Join(raw, "RAW_interactions.csv"),
		"RECIPE_EDA_MERGED_PATH":       filepath.Join(dir, "processed_data", "merged.csv"),
		"RECIPE_EDA_CLEANED_PATH":      filepath.Join(dir, "processed_data", "cleaned.csv"),
		"RECIPE_EDA_PLOT_PATH":         filepath.Join(dir, "plots", "eda_plots.png"),
		"RECIPE_EDA_MANIFEST_PATH":     filepath.Join(dir, "processed_data", "runs.json"),
		"RECIPE_EDA_EXPORT_DSN":        filepath.Join(dir, "processed_data", "recipes.db"),
		"RECIPE_EDA_PLOT_DPI":          "30",
		"RECIPE_EDA_LOG_LEVEL":         "error",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	return dir
}

func TestCLI_Merge_Clean_Visualize(t *testing.T) {
	dir := setupWorkspace(t)

	out := runCmd(t, "merge")
	if !strings.Contains(out, "Wrote 2 merged recipes") {
		t.Fatalf("merge output = %q", out)
	}
	merged, err := dataset.ReadMerged(filepath.Join(dir, "processed_data", "merged.csv"))
	if err != nil {
		t.Fatalf("read merged: %v", err)
	}
	if len(merged) != 2 || merged[0].RecipeID != 101 || merged[0].AvgRating != 4.67 || merged[1].RecipeID != 102 {
		t.Fatalf("merged = %+v", merged)
	}

	runCmd(t, "clean")
	cleaned, err := dataset.ReadCleaned(filepath.Join(dir, "processed_data", "cleaned.csv"))
	if err != nil {
		t.Fatalf("read cleaned: %v", err)
	}
	if len(cleaned) != 1 || cleaned[0].RecipeID != 101 || cleaned[0].IsFiveStar != 0 || cleaned[0].CalorieCategory != dataset.Low {
		t.Fatalf("cleaned = %+v", cleaned)
	}

	report := filepath.Join(dir, "plots", "eda_report.md")
	runCmd(t, "visualize", "--report", report)
	if _, err := os.Stat(filepath.Join(dir, "plots", "eda_plots.png")); err != nil {
		t.Fatalf("plot not written: %v", err)
	}
	md, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "[RATING DISTRIBUTION]") {
		t.Fatalf("report = %s", md)
	}

	m, err := runlog.Load(filepath.Join(dir, "processed_data", "runs.json"))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(m.Runs) != 3 {
		t.Fatalf("manifest runs = %d, want 3", len(m.Runs))
	}
	if m.Runs[1].Stage != "clean" || m.Runs[1].RowsIn != 2 || m.Runs[1].RowsOut != 1 {
		t.Fatalf("clean run = %+v", m.Runs[1])
	}
	if out := runCmd(t, "runs", "--stage", "merge"); !strings.Contains(out, "merge") {
		t.Fatalf("runs output = %q", out)
	}
	out = runCmd(t, "runs", "--latest", "--stage", "clean")
	if !strings.Contains(out, "Stage:    clean") || !strings.Contains(out, "Rows:     2 -> 1") {
		t.Fatalf("latest run output = %q", out)
	}
	if out := runCmd(t, "runs", "--latest", "--stage", "export"); !strings.Contains(out, "(no runs)") {
		t.Fatalf("latest export output = %q", out)
	}
}

func TestCLI_RunAndExport(t *testing.T) {
	dir := setupWorkspace(t)

	out := runCmd(t, "run")
	if !strings.Contains(out, "[3/3]") {
		t.Fatalf("run output = %q", out)
	}
	out = runCmd(t, "export")
	if !strings.Contains(out, "Exported 1 recipes") || !strings.Contains(out, "Low    1") || !strings.Contains(out, "High   0") {
		t.Fatalf("export output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "processed_data", "recipes.db")); err != nil {
		t.Fatalf("database not written: %v", err)
	}
}

func TestCLI_DescribePrintsReport(t *testing.T) {
	setupWorkspace(t)
	runCmd(t, "merge")
	out := runCmd(t, "describe", "--high-rating", "4")
	if !strings.Contains(out, "[CALORIE STATISTICS]") || !strings.Contains(out, "[IMBALANCE SUMMARY]") {
		t.Fatalf("describe output = %q", out)
	}
}

func TestCLI_MissingColumnFailsWithoutOutput(t *testing.T) {
	dir := setupWorkspace(t)
	bad := filepath.Join(dir, "raw_data", "RAW_recipes.csv")
	if err := os.WriteFile(bad, []byte("id,name\n101,soup\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execCmd("run")
	if err == nil || !strings.Contains(err.Error(), "nutrition") {
		t.Fatalf("err = %v, want missing nutrition column", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "processed_data", "merged.csv")); !os.IsNotExist(err) {
		t.Fatalf("merged output should not exist, stat err = %v", err)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	setupWorkspace(t)
	runCmd(t, "init")
	runCmd(t, "config", "set", "max_calories", "4000")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "max_calories: 4000") {
		t.Fatalf("config show = %q", out)
	}
	if _, err := execCmd("config", "set", "clip_percentile", "1.5"); err == nil {
		t.Fatal("expected validation error for clip_percentile")
	}
	if _, err := execCmd("config", "set", "no_such_key", "1"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
