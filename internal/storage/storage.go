// Package storage exports the cleaned recipe table into a SQL database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
	"github.com/KaramelBytes/recipe-eda/internal/logger"
	"github.com/KaramelBytes/recipe-eda/internal/utils"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ErrInvalidTable is returned for table names that are not plain identifiers.
var ErrInvalidTable = errors.New("invalid table name")

// CleanStorage stores cleaned recipes.
type CleanStorage interface {
	CreateTable(ctx context.Context) error
	Upsert(ctx context.Context, rows []dataset.CleanedRecipe) (int, error)
	Close() error
}

// SQLWriter writes cleaned recipes through database/sql.
type SQLWriter struct {
	db     *sql.DB
	driver string
	table  string
	log    *logger.Logger
}

var _ CleanStorage = (*SQLWriter)(nil)

// Open connects to the database and pings it. For sqlite the DSN is a file
// path whose parent directory is created if needed.
func Open(ctx context.Context, driver, dsn, table string, log *logger.Logger) (*SQLWriter, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	switch driver {
	case DriverSQLite:
		if err := utils.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Debug("connected to database", "driver", driver, "table", table)
	return &SQLWriter{db: db, driver: driver, table: table, log: log}, nil
}

// CreateTable creates the table and its category index if missing.
func (w *SQLWriter) CreateTable(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	recipe_id        BIGINT PRIMARY KEY,
	avg_rating       DOUBLE PRECISION NOT NULL,
	calories         DOUBLE PRECISION NOT NULL,
	is_five_star     SMALLINT NOT NULL,
	calorie_category VARCHAR(10) NOT NULL,
	exported_at      TIMESTAMP NOT NULL
)`, w.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_category ON %s (calorie_category)`, w.table, w.table),
	}
	for _, q := range stmts {
		if _, err := w.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table %s: %w", w.table, err)
		}
	}
	return nil
}

// Upsert inserts rows in one transaction, replacing rows that share a
// recipe_id. Rows without an id are skipped. It returns the rows written.
func (w *SQLWriter) Upsert(ctx context.Context, rows []dataset.CleanedRecipe) (n int, err error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, w.upsertSQL())
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range rows {
		if r.HasMissing() {
			w.log.Warn("skipping incomplete row", "recipe_id", r.RecipeID)
			continue
		}
		_, err = stmt.ExecContext(ctx, r.RecipeID, r.AvgRating, r.Calories, r.IsFiveStar, string(r.CalorieCategory), now)
		if err != nil {
			return 0, fmt.Errorf("upsert recipe %d: %w", r.RecipeID, err)
		}
		n++
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return n, nil
}

// Count returns the number of rows in the table.
func (w *SQLWriter) Count(ctx context.Context) (int, error) {
	var n int
	if err := w.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+w.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", w.table, err)
	}
	return n, nil
}

// CategoryCounts returns the number of stored rows per calorie category.
func (w *SQLWriter) CategoryCounts(ctx context.Context) (map[dataset.CalorieCategory]int, error) {
	q := fmt.Sprintf("SELECT calorie_category, COUNT(*) FROM %s GROUP BY calorie_category", w.table)
	rs, err := w.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rs.Close()
	out := map[dataset.CalorieCategory]int{}
	for rs.Next() {
		var cat string
		var n int
		if err := rs.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scan categories: %w", err)
		}
		out[dataset.CalorieCategory(cat)] = n
	}
	return out, rs.Err()
}

// Close closes the database connection.
func (w *SQLWriter) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}

func (w *SQLWriter) upsertSQL() string {
	cols := []string{"recipe_id", "avg_rating", "calories", "is_five_star", "calorie_category", "exported_at"}
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = w.placeholder(i + 1)
	}
	var set []string
	for _, c := range cols[1:] {
		set = append(set, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (recipe_id) DO UPDATE SET %s",
		w.table, strings.Join(cols, ", "), strings.Join(ph, ", "), strings.Join(set, ", "))
}

func (w *SQLWriter) placeholder(i int) string {
	if w.driver == DriverPostgres {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}
