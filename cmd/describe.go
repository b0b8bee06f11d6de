package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/recipe-eda/internal/analysis"
	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/KaramelBytes/recipe-eda/internal/utils"
	"github.com/spf13/cobra"
)

var (
	descOutput     string
	descHighRating float64
	descClip       float64
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Print calorie and rating statistics for a merged or cleaned CSV",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		path := c.MergedPath
		if len(args) == 1 {
			path = args[0]
		}
		opt := statsOptionsFrom(c)
		if cmd.Flags().Changed("high-rating") {
			opt.HighRating = descHighRating
		}
		if cmd.Flags().Changed("clip") {
			if descClip <= 0 || descClip >= 1 {
				return fmt.Errorf("--clip must be in (0,1), got %g", descClip)
			}
			opt.ClipPercentile = descClip
		}
		rows, err := dataset.ReadMerged(path)
		if err != nil {
			return err
		}
		s := analysis.Describe(rows, opt)
		s.Name = filepath.Base(path)
		md := s.Markdown()

		if descOutput != "" {
			if err := utils.SafeWriteFile(descOutput, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote statistics to %s\n", descOutput)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutput, "output", "o", "", "write the report to a file instead of stdout")
	describeCmd.Flags().Float64Var(&descHighRating, "high-rating", 4.5, "rating at or above which a recipe counts as high rated")
	describeCmd.Flags().Float64Var(&descClip, "clip", 0.95, "calorie percentile above which values are outliers")
}
