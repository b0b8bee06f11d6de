package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/recipe-eda/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and create the data directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home dir: %w", err)
			}
			path = filepath.Join(home, ".recipe-eda", "config.yaml")
		}
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		// an explicit --config file does not exist yet, so fall back to defaults
		eff := cfgpkg.Default()
		if c, err := ensureConfig(); err == nil {
			eff = c
		}
		if err := cfgpkg.Save(cfgpkg.Default(), cfgFile); err != nil {
			return err
		}
		// directories follow the effective paths, env overrides included
		for _, p := range []string{eff.RecipesPath, eff.MergedPath, eff.CleanedPath, eff.PlotPath} {
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
