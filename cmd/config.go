package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/recipe-eda/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set recipe-eda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "recipes_path: %s\n", c.RecipesPath)
		fmt.Fprintf(out, "interactions_path: %s\n", c.InteractionsPath)
		fmt.Fprintf(out, "merged_path: %s\n", c.MergedPath)
		fmt.Fprintf(out, "cleaned_path: %s\n", c.CleanedPath)
		fmt.Fprintf(out, "plot_path: %s\n", c.PlotPath)
		if c.ReportPath != "" {
			fmt.Fprintf(out, "report_path: %s\n", c.ReportPath)
		}
		fmt.Fprintf(out, "manifest_path: %s\n", c.ManifestPath)
		fmt.Fprintf(out, "min_calories: %g\n", c.MinCalories)
		fmt.Fprintf(out, "max_calories: %g\n", c.MaxCalories)
		fmt.Fprintf(out, "min_rating: %g\n", c.MinRating)
		fmt.Fprintf(out, "max_rating: %g\n", c.MaxRating)
		fmt.Fprintf(out, "high_rating_threshold: %g\n", c.HighRatingThreshold)
		fmt.Fprintf(out, "clip_percentile: %g\n", c.ClipPercentile)
		fmt.Fprintf(out, "plot_size: %gx%g in @ %d dpi\n", c.PlotWidthIn, c.PlotHeightIn, c.PlotDPI)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "export: %s %s (table %s)\n", c.ExportDriver, mask(c.ExportDriver, c.ExportDSN), c.ExportTable)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		next := *c
		if err := setKey(&next, key, val); err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		*c = next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setKey(c *cfgpkg.Global, key, val string) error {
	strs := map[string]*string{
		"recipes_path":      &c.RecipesPath,
		"interactions_path": &c.InteractionsPath,
		"merged_path":       &c.MergedPath,
		"cleaned_path":      &c.CleanedPath,
		"plot_path":         &c.PlotPath,
		"report_path":       &c.ReportPath,
		"manifest_path":     &c.ManifestPath,
		"log_level":         &c.LogLevel,
		"export_dsn":        &c.ExportDSN,
		"export_table":      &c.ExportTable,
	}
	floats := map[string]*float64{
		"min_calories":          &c.MinCalories,
		"max_calories":          &c.MaxCalories,
		"min_rating":            &c.MinRating,
		"max_rating":            &c.MaxRating,
		"high_rating_threshold": &c.HighRatingThreshold,
		"clip_percentile":       &c.ClipPercentile,
		"plot_width_in":         &c.PlotWidthIn,
		"plot_height_in":        &c.PlotHeightIn,
	}
	if p, ok := strs[key]; ok {
		*p = val
		return nil
	}
	if p, ok := floats[key]; ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		*p = f
		return nil
	}
	switch key {
	case "plot_dpi":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for plot_dpi: %w", err)
		}
		c.PlotDPI = i
	case "export_driver":
		switch strings.ToLower(val) {
		case "sqlite", "sqlite3":
			c.ExportDriver = "sqlite"
		case "postgres", "postgresql", "pg":
			c.ExportDriver = "postgres"
		default:
			return fmt.Errorf("invalid export_driver: %s (use sqlite or postgres)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// mask hides credentials in postgres DSNs; sqlite DSNs are file paths.
func mask(driver, dsn string) string {
	if driver != "postgres" || dsn == "" {
		return dsn
	}
	if len(dsn) <= 12 {
		return "******"
	}
	return dsn[:11] + "****"
}
