package storage

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/KaramelBytes/recipe-eda/internal/logger"
)

// Options configures an export run.
type Options struct {
	InputPath string
	Driver    string
	DSN       string
	Table     string
}

// Result summarizes an export run.
type Result struct {
	Rows       int
	Written    int
	TableRows  int
	Categories map[dataset.CalorieCategory]int // stored rows per category
}

// Run loads the cleaned table from InputPath and upserts it into the database.
func Run(ctx context.Context, opts Options, log *logger.Logger) (*Result, error) {
	log.Info("loading cleaned table", "path", opts.InputPath)
	rows, err := dataset.ReadCleaned(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("load cleaned table: %w", err)
	}
	w, err := Open(ctx, opts.Driver, opts.DSN, opts.Table, log)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	if err := w.CreateTable(ctx); err != nil {
		return nil, err
	}
	n, err := w.Upsert(ctx, rows)
	if err != nil {
		return nil, err
	}
	total, err := w.Count(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := w.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("exported cleaned table",
		"driver", opts.Driver,
		"table", opts.Table,
		"written", n,
		"table_rows", total,
		"low", cats[dataset.Low],
		"medium", cats[dataset.Medium],
		"high", cats[dataset.High])
	return &Result{Rows: len(rows), Written: n, TableRows: total, Categories: cats}, nil
}
