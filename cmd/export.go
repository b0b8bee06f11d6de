package cmd

import (
	"fmt"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/KaramelBytes/recipe-eda/internal/runlog"
	"github.com/KaramelBytes/recipe-eda/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportInput  string
	exportDriver string
	exportDSN    string
	exportTable  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Load the cleaned table into SQLite or PostgreSQL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		opts := storage.Options{
			InputPath: pick(exportInput, c.CleanedPath),
			Driver:    pick(exportDriver, c.ExportDriver),
			DSN:       pick(exportDSN, c.ExportDSN),
			Table:     pick(exportTable, c.ExportTable),
		}
		run := runlog.Start("export", opts.InputPath)
		res, err := storage.Run(cmd.Context(), opts, stageLogger(run))
		if err != nil {
			return err
		}
		run.Counters["table_rows"] = res.TableRows
		run.Finish(opts.Driver+":"+opts.Table, res.Rows, res.Written)
		record(run)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Exported %d recipes to %s table %s (%d rows total)\n", res.Written, opts.Driver, opts.Table, res.TableRows)
		for _, cat := range dataset.CategoryLabels {
			fmt.Fprintf(out, "  %-6s %d\n", cat, res.Categories[cat])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "cleaned CSV input (overrides cleaned_path)")
	exportCmd.Flags().StringVar(&exportDriver, "driver", "", "sqlite or postgres (overrides export_driver)")
	exportCmd.Flags().StringVar(&exportDSN, "dsn", "", "database file or connection string (overrides export_dsn)")
	exportCmd.Flags().StringVar(&exportTable, "table", "", "target table (overrides export_table)")
}
