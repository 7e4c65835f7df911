package interfaces

import (
	"context"

	"volatility-observer/src/models"
)

// -----------------------------------------------------------------------------
// IRecorder defines the contract for persisting volatility runs.
// -----------------------------------------------------------------------------

type IRecorder interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// RecordRun stores a run and its per-estimator statistics, returning the run id.
	RecordRun(ctx context.Context, run models.MRunRecord) (int64, error)

	// -----------------------------------------------------------------------------

	// RecentRuns lists the latest runs, newest first. An empty symbol matches all.
	RecentRuns(ctx context.Context, symbol string, limit int) ([]models.MRunRecord, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
