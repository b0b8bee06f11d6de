package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Stage inputs and outputs
	RecipesPath      string `mapstructure:"recipes_path" yaml:"recipes_path"`
	InteractionsPath string `mapstructure:"interactions_path" yaml:"interactions_path"`
	MergedPath       string `mapstructure:"merged_path" yaml:"merged_path"`
	CleanedPath      string `mapstructure:"cleaned_path" yaml:"cleaned_path"`
	PlotPath         string `mapstructure:"plot_path" yaml:"plot_path"`
	ReportPath       string `mapstructure:"report_path" yaml:"report_path"`
	ManifestPath     string `mapstructure:"manifest_path" yaml:"manifest_path"`

	// Cleaning bounds (inclusive)
	MinCalories float64 `mapstructure:"min_calories" yaml:"min_calories"`
	MaxCalories float64 `mapstructure:"max_calories" yaml:"max_calories"`
	MinRating   float64 `mapstructure:"min_rating" yaml:"min_rating"`
	MaxRating   float64 `mapstructure:"max_rating" yaml:"max_rating"`

	// Statistics and plot
	HighRatingThreshold float64 `mapstructure:"high_rating_threshold" yaml:"high_rating_threshold"`
	ClipPercentile      float64 `mapstructure:"clip_percentile" yaml:"clip_percentile"`
	PlotWidthIn         float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn        float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`
	PlotDPI             int     `mapstructure:"plot_dpi" yaml:"plot_dpi"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// SQL export
	ExportDriver string `mapstructure:"export_driver" yaml:"export_driver"`
	ExportDSN    string `mapstructure:"export_dsn" yaml:"export_dsn"`
	ExportTable  string `mapstructure:"export_table" yaml:"export_table"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.recipe-eda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("RECIPE_EDA")
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the built-in configuration without consulting files or env.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	// Paths are relative to the working directory.
	v.SetDefault("recipes_path", filepath.Join("raw_data", "RAW_recipes.csv"))
	v.SetDefault("interactions_path", filepath.Join("raw_data", "RAW_interactions.csv"))
	v.SetDefault("merged_path", filepath.Join("processed_data", "recipes_with_calories_and_ratings.csv"))
	v.SetDefault("cleaned_path", filepath.Join("processed_data", "recipes_data_cleaned.csv"))
	v.SetDefault("plot_path", filepath.Join("plots", "eda_plots.png"))
	v.SetDefault("report_path", "")
	v.SetDefault("manifest_path", filepath.Join("processed_data", "runs.json"))

	v.SetDefault("min_calories", 10.0)
	v.SetDefault("max_calories", 5000.0)
	v.SetDefault("min_rating", 0.0)
	v.SetDefault("max_rating", 5.0)

	v.SetDefault("high_rating_threshold", 4.5)
	v.SetDefault("clip_percentile", 0.95)
	v.SetDefault("plot_width_in", 14.0)
	v.SetDefault("plot_height_in", 5.0)
	v.SetDefault("plot_dpi", 300)

	v.SetDefault("log_level", "info")

	v.SetDefault("export_driver", "sqlite")
	v.SetDefault("export_dsn", filepath.Join("processed_data", "recipes.db"))
	v.SetDefault("export_table", "cleaned_recipes")
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Global) Validate() error {
	if c.MinCalories > c.MaxCalories {
		return fmt.Errorf("invalid calorie bounds: min %g > max %g", c.MinCalories, c.MaxCalories)
	}
	if c.MinRating > c.MaxRating {
		return fmt.Errorf("invalid rating bounds: min %g > max %g", c.MinRating, c.MaxRating)
	}
	if c.ClipPercentile <= 0 || c.ClipPercentile >= 1 {
		return fmt.Errorf("clip_percentile must be in (0,1), got %g", c.ClipPercentile)
	}
	if c.PlotWidthIn <= 0 || c.PlotHeightIn <= 0 || c.PlotDPI <= 0 {
		return errors.New("plot dimensions and dpi must be positive")
	}
	switch c.ExportDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid export_driver: %s (use sqlite or postgres)", c.ExportDriver)
	}
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".recipe-eda"), nil
}
