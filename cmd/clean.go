package cmd

import (
	"fmt"

	"github.com/KaramelBytes/recipe-eda/internal/clean"
	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	cleanInput  string
	cleanOutput string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the merged table and derive rating and calorie features",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		opts := clean.Options{
			InputPath:  pick(cleanInput, c.MergedPath),
			OutputPath: pick(cleanOutput, c.CleanedPath),
			Bounds:     boundsFrom(c),
		}
		res, err := runCleanStage(opts)
		if err != nil {
			return err
		}
		printCleanSummary(cmd, res, opts.OutputPath)
		return nil
	},
}

func printCleanSummary(cmd *cobra.Command, res *clean.Result, path string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Wrote %d cleaned recipes to %s (removed %d of %d)\n", len(res.Rows), path, res.Removed(), res.Input)
	fmt.Fprintf(out, "  five-star: %d  Low: %d  Medium: %d  High: %d\n",
		res.FiveStar,
		res.CategoryCounts[dataset.Low],
		res.CategoryCounts[dataset.Medium],
		res.CategoryCounts[dataset.High])
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanInput, "input", "i", "", "merged CSV input (overrides merged_path)")
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "cleaned CSV output (overrides cleaned_path)")
}
