package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/recipe-eda/internal/runlog"
	"github.com/spf13/cobra"
)

var (
	runsStage  string
	runsLimit  int
	runsLatest bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded stage runs, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		m, err := runlog.Load(c.ManifestPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if runsLatest {
			r, ok := m.Latest(runsStage)
			if !ok {
				fmt.Fprintln(out, "(no runs)")
				return nil
			}
			printRunDetail(out, r)
			return nil
		}
		runs := m.Filter(runsStage)
		if len(runs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		if runsLimit > 0 && len(runs) > runsLimit {
			runs = runs[:runsLimit]
		}
		for _, r := range runs {
			fmt.Fprintf(out, "- %s %-9s %s rows %d -> %d (%s) %s\n",
				shortID(r.ID), r.Stage, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.RowsIn, r.RowsOut, r.Duration().Round(time.Millisecond), r.Output)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().StringVar(&runsStage, "stage", "", "only show runs of this stage")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 0, "show at most n runs")
	runsCmd.Flags().BoolVar(&runsLatest, "latest", false, "show details of the most recent run only")
}

func printRunDetail(w io.Writer, r runlog.Run) {
	fmt.Fprintf(w, "ID:       %s\n", r.ID)
	fmt.Fprintf(w, "Stage:    %s\n", r.Stage)
	fmt.Fprintf(w, "Started:  %s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Duration: %s\n", r.Duration().Round(time.Millisecond))
	fmt.Fprintf(w, "Inputs:   %s\n", strings.Join(r.Inputs, ", "))
	fmt.Fprintf(w, "Output:   %s\n", r.Output)
	fmt.Fprintf(w, "Rows:     %d -> %d\n", r.RowsIn, r.RowsOut)
	keys := make([]string, 0, len(r.Counters))
	for k := range r.Counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-14s %d\n", k, r.Counters[k])
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
