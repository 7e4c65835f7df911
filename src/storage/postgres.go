package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"

	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
	tables runTables
}

// -----------------------------------------------------------------------------

// NewPostgresDB keeps its tables in a schema named after the executable.
func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return newPostgresDB(cfg, log, name), nil
}

func newPostgresDB(cfg *models.MConfig, log *logger.Logger, schema string) *PostgresDB {
	quoted := quoteIdent(schema)
	return &PostgresDB{
		Config: cfg,
		Schema: schema,
		Logger: log.Named("Postgres"),
		tables: runTables{
			runs:        quoted + ".volatility_runs",
			stats:       quoted + ".estimator_stats",
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		},
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.DB = db

	if _, err := d.DB.Exec("CREATE SCHEMA IF NOT EXISTS " + quoteIdent(d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) createTables() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			bars INTEGER NOT NULL,
			created_at BIGINT NOT NULL
		);
	`, d.tables.runs)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create %s: %w", d.tables.runs, err)
	}

	query = fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			estimator TEXT NOT NULL,
			method TEXT NOT NULL,
			mean DOUBLE PRECISION,
			std DOUBLE PRECISION,
			min DOUBLE PRECISION,
			max DOUBLE PRECISION,
			skew DOUBLE PRECISION,
			kurtosis DOUBLE PRECISION,
			PRIMARY KEY (run_id, position)
		);
	`, d.tables.stats, d.tables.runs)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create %s: %w", d.tables.stats, err)
	}

	d.Logger.Info("Postgres tables ready in schema %s", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) RecordRun(ctx context.Context, run models.MRunRecord) (int64, error) {
	return insertRun(ctx, d.DB, d.tables, run)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) RecentRuns(ctx context.Context, symbol string, limit int) ([]models.MRunRecord, error) {
	return selectRecentRuns(ctx, d.DB, d.tables, symbol, limit)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
