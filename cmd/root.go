package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/recipe-eda/internal/config"
	"github.com/KaramelBytes/recipe-eda/internal/logger"
	"github.com/KaramelBytes/recipe-eda/internal/runlog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recipe-eda",
	Short: "Recipe EDA: merge, clean and visualize recipe ratings and calories",
	Long: `recipe-eda runs a three-stage exploratory analysis over the Food.com recipes and
interactions tables: merge calories with average ratings, clean the merged table,
and render calorie and rating distribution plots.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.recipe-eda/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal here; commands that need config report it through ensureConfig.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// ensureConfig returns the loaded configuration, loading it on first use, and
// sets up the logger from log_level and --debug.
func ensureConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	if log == nil {
		log = logger.New(level)
	} else {
		log.SetLevel(level)
	}
	return cfg, nil
}

// stageLogger tags log records with the stage and run id.
func stageLogger(run *runlog.Run) *logger.Logger {
	return log.With("stage", run.Stage, "run_id", run.ID)
}

// record appends a finished run to the manifest. A manifest failure does not
// fail the stage whose output is already written.
func record(run *runlog.Run) {
	if cfg.ManifestPath == "" {
		return
	}
	if err := runlog.Append(cfg.ManifestPath, run); err != nil {
		log.Warn("failed to record run", "run_id", run.ID, "error", err)
	}
}

// pick returns the flag value when set, the configured value otherwise.
func pick(flagVal, cfgVal string) string {
	if flagVal != "" {
		return flagVal
	}
	return cfgVal
}
