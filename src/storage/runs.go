package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"volatility-observer/src/helpers"
	"volatility-observer/src/models"
)

// MaxRecentRuns caps RecentRuns regardless of the requested limit.
const MaxRecentRuns = 200

// runTables carries the dialect differences between the SQL recorders.
type runTables struct {
	runs        string
	stats       string
	placeholder func(n int) string
}

// -----------------------------------------------------------------------------

func insertRun(ctx context.Context, db *sql.DB, t runTables, run models.MRunRecord) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, helpers.NewDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	p := t.placeholder
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	query := fmt.Sprintf(
		`INSERT INTO %s (symbol, start_date, end_date, bars, created_at) VALUES (%s, %s, %s, %s, %s) RETURNING id`,
		t.runs, p(1), p(2), p(3), p(4), p(5))
	if err := tx.QueryRowContext(ctx, query,
		run.Symbol, run.StartDate, run.EndDate, run.Bars, createdAt.UnixNano(),
	).Scan(&id); err != nil {
		return 0, helpers.NewDatabaseError("insert run", err)
	}

	statsQuery := fmt.Sprintf(
		`INSERT INTO %s (run_id, position, estimator, method, mean, std, min, max, skew, kurtosis)
		 VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)`,
		t.stats, p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8), p(9), p(10))
	stmt, err := tx.PrepareContext(ctx, statsQuery)
	if err != nil {
		return 0, helpers.NewDatabaseError("prepare stats insert", err)
	}
	defer stmt.Close()

	for i, s := range run.Stats {
		if _, err := stmt.ExecContext(ctx,
			id, i, s.Estimator, s.Method,
			s.Stats.Mean, s.Stats.Std, s.Stats.Min, s.Stats.Max, s.Stats.Skew, s.Stats.Kurtosis,
		); err != nil {
			return 0, helpers.NewDatabaseError("insert stats", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, helpers.NewDatabaseError("commit run", err)
	}
	return id, nil
}

// -----------------------------------------------------------------------------

func selectRecentRuns(ctx context.Context, db *sql.DB, t runTables, symbol string, limit int) ([]models.MRunRecord, error) {
	if limit <= 0 || limit > MaxRecentRuns {
		limit = MaxRecentRuns
	}

	var rows *sql.Rows
	var err error
	if symbol == "" {
		rows, err = db.QueryContext(ctx, fmt.Sprintf(
			`SELECT id, symbol, start_date, end_date, bars, created_at FROM %s ORDER BY id DESC LIMIT %s`,
			t.runs, t.placeholder(1)), limit)
	} else {
		rows, err = db.QueryContext(ctx, fmt.Sprintf(
			`SELECT id, symbol, start_date, end_date, bars, created_at FROM %s WHERE symbol = %s ORDER BY id DESC LIMIT %s`,
			t.runs, t.placeholder(1), t.placeholder(2)), symbol, limit)
	}
	if err != nil {
		return nil, helpers.NewDatabaseError("query runs", err)
	}

	runs := make([]models.MRunRecord, 0)
	for rows.Next() {
		var r models.MRunRecord
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.Symbol, &r.StartDate, &r.EndDate, &r.Bars, &createdAt); err != nil {
			rows.Close()
			return nil, helpers.NewDatabaseError("scan run", err)
		}
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, helpers.NewDatabaseError("iterate runs", err)
	}
	rows.Close()

	for i := range runs {
		stats, err := selectRunStats(ctx, db, t, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Stats = stats
	}
	return runs, nil
}

func selectRunStats(ctx context.Context, db *sql.DB, t runTables, runID int64) ([]models.MRunEstimatorStats, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT estimator, method, mean, std, min, max, skew, kurtosis FROM %s WHERE run_id = %s ORDER BY position`,
		t.stats, t.placeholder(1)), runID)
	if err != nil {
		return nil, helpers.NewDatabaseError("query stats", err)
	}
	defer rows.Close()

	stats := make([]models.MRunEstimatorStats, 0, 5)
	for rows.Next() {
		var s models.MRunEstimatorStats
		if err := rows.Scan(&s.Estimator, &s.Method,
			&s.Stats.Mean, &s.Stats.Std, &s.Stats.Min, &s.Stats.Max, &s.Stats.Skew, &s.Stats.Kurtosis,
		); err != nil {
			return nil, helpers.NewDatabaseError("scan stats", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, helpers.NewDatabaseError("iterate stats", err)
	}
	return stats, nil
}
