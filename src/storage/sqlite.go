package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
	tables runTables
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	return &AsyncSQLiteDB{
		Config: cfg,
		Logger: log.Named("SQLite"),
		tables: runTables{
			runs:        "volatility_runs",
			stats:       "estimator_stats",
			placeholder: func(int) string { return "?" },
		},
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		d.Logger.Warning("Failed to enable foreign keys: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS volatility_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			bars INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create volatility_runs: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS estimator_stats (
			run_id INTEGER NOT NULL REFERENCES volatility_runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			estimator TEXT NOT NULL,
			method TEXT NOT NULL,
			mean REAL,
			std REAL,
			min REAL,
			max REAL,
			skew REAL,
			kurtosis REAL,
			PRIMARY KEY (run_id, position)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create estimator_stats: %w", err)
	}

	if _, err := d.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_volatility_runs_symbol ON volatility_runs(symbol, id)`); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	d.Logger.Info("SQLite tables ready at %s", d.Config.Storage.DBPath)
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) RecordRun(ctx context.Context, run models.MRunRecord) (int64, error) {
	return insertRun(ctx, d.DB, d.tables, run)
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) RecentRuns(ctx context.Context, symbol string, limit int) ([]models.MRunRecord, error) {
	return selectRecentRuns(ctx, d.DB, d.tables, symbol, limit)
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
