package cmd

import (
	"fmt"

	"github.com/KaramelBytes/recipe-eda/internal/merge"
	"github.com/spf13/cobra"
)

var (
	mergeRecipes      string
	mergeInteractions string
	mergeOutput       string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge recipe calories with average ratings",
	Long: `Parse calories from the recipes table, average ratings per recipe from the
interactions table, and write the inner join as recipe_id, avg_rating, calories.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		opts := merge.Options{
			RecipesPath:      pick(mergeRecipes, c.RecipesPath),
			InteractionsPath: pick(mergeInteractions, c.InteractionsPath),
			OutputPath:       pick(mergeOutput, c.MergedPath),
		}
		res, err := runMergeStage(opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d merged recipes to %s\n", len(res.Rows), opts.OutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringVar(&mergeRecipes, "recipes", "", "raw recipes CSV (overrides recipes_path)")
	mergeCmd.Flags().StringVar(&mergeInteractions, "interactions", "", "raw interactions CSV (overrides interactions_path)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "merged CSV output (overrides merged_path)")
}
