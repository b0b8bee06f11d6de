package charts

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/recipe-eda/internal/analysis"
	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/KaramelBytes/recipe-eda/internal/logger"
	"github.com/KaramelBytes/recipe-eda/internal/utils"
)

// RunOptions configures the visualization stage.
type RunOptions struct {
	InputPath  string
	OutputPath string
	// ReportPath, when set, receives the Markdown statistics report.
	ReportPath string
	Stats      analysis.Options
	Image      Options
}

// Run reads the merged table, computes statistics and writes the plot image
// and the optional report. Either both outputs are written or neither is.
func Run(opts RunOptions, log *logger.Logger) (*analysis.Stats, error) {
	log.Info("loading merged table", "path", opts.InputPath)
	rows, err := dataset.ReadMerged(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("load merged table: %w", err)
	}
	s := analysis.Describe(rows, opts.Stats)
	s.Name = filepath.Base(opts.InputPath)
	log.Info("calorie statistics",
		"count", s.Calories.Count,
		"mean", s.Calories.Mean,
		"median", s.Calories.Median,
		"p95", s.P95,
		"p99", s.P99,
		"outliers", s.Outliers)
	log.Info("rating distribution",
		"distinct_ratings", len(s.RatingCounts),
		"high_rated", s.HighRated,
		"high_rated_pct", fmt.Sprintf("%.1f", s.HighRatedPct))

	var img bytes.Buffer
	if err := Render(&img, rows, s, opts.Image); err != nil {
		return nil, fmt.Errorf("render plot: %w", err)
	}
	files := []utils.File{{Path: opts.OutputPath, Data: img.Bytes()}}
	if opts.ReportPath != "" {
		files = append([]utils.File{{Path: opts.ReportPath, Data: []byte(s.Markdown())}}, files...)
	}
	if err := utils.WriteFilesAtomic(files...); err != nil {
		return nil, fmt.Errorf("write outputs: %w", err)
	}
	log.Info("saved plots", "path", opts.OutputPath)
	if opts.ReportPath != "" {
		log.Info("saved report", "path", opts.ReportPath)
	}
	return s, nil
}
