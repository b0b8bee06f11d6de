package cmd

import (
	"fmt"

	"github.com/KaramelBytes/recipe-eda/internal/charts"
	"github.com/KaramelBytes/recipe-eda/internal/clean"
	"github.com/KaramelBytes/recipe-eda/internal/merge"
	"github.com/spf13/cobra"
)

var pipelineCmd = &cobra.Command{
	Use:   "run",
	Short: "Run merge, clean and visualize in order",
	Long:  `Run all three stages with the configured paths. The first failing stage aborts the run.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		m, err := runMergeStage(merge.Options{
			RecipesPath:      c.RecipesPath,
			InteractionsPath: c.InteractionsPath,
			OutputPath:       c.MergedPath,
		})
		if err != nil {
			return fmt.Errorf("merge: %w", err)
		}
		fmt.Fprintf(out, "✓ [1/3] merged %d recipes -> %s\n", len(m.Rows), c.MergedPath)

		cl, err := runCleanStage(clean.Options{
			InputPath:  c.MergedPath,
			OutputPath: c.CleanedPath,
			Bounds:     boundsFrom(c),
		})
		if err != nil {
			return fmt.Errorf("clean: %w", err)
		}
		fmt.Fprintf(out, "✓ [2/3] cleaned %d recipes -> %s\n", len(cl.Rows), c.CleanedPath)

		if _, err := runVisualizeStage(charts.RunOptions{
			InputPath:  c.MergedPath,
			OutputPath: c.PlotPath,
			ReportPath: c.ReportPath,
			Stats:      statsOptionsFrom(c),
			Image:      imageOptionsFrom(c),
		}); err != nil {
			return fmt.Errorf("visualize: %w", err)
		}
		fmt.Fprintf(out, "✓ [3/3] plots -> %s\n", c.PlotPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
}
