package cmd

import (
	"fmt"

	"github.com/KaramelBytes/recipe-eda/internal/charts"
	"github.com/spf13/cobra"
)

var (
	vizInput  string
	vizOutput string
	vizReport string
)

var visualizeCmd = &cobra.Command{
	Use:     "visualize",
	Aliases: []string{"viz"},
	Short:   "Plot calorie and rating distributions of the merged table",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		opts := charts.RunOptions{
			InputPath:  pick(vizInput, c.MergedPath),
			OutputPath: pick(vizOutput, c.PlotPath),
			ReportPath: pick(vizReport, c.ReportPath),
			Stats:      statsOptionsFrom(c),
			Image:      imageOptionsFrom(c),
		}
		s, err := runVisualizeStage(opts)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Wrote plots to %s\n", opts.OutputPath)
		if opts.ReportPath != "" {
			fmt.Fprintf(out, "✓ Wrote report to %s\n", opts.ReportPath)
		}
		fmt.Fprintf(out, "  %.1f%% of recipes have ratings >= %.1f\n", s.HighRatedPct, s.HighRating)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(visualizeCmd)
	visualizeCmd.Flags().StringVarP(&vizInput, "input", "i", "", "merged CSV input (overrides merged_path)")
	visualizeCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "PNG output (overrides plot_path)")
	visualizeCmd.Flags().StringVar(&vizReport, "report", "", "also write a Markdown statistics report")
}
