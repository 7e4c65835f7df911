package storage

import (
	"context"

	"volatility-observer/src/models"
)

// NoopRecorder discards runs. It is used when storage.db_type is "none".
type NoopRecorder struct{}

func (NoopRecorder) Initialize() error { return nil }

func (NoopRecorder) RecordRun(context.Context, models.MRunRecord) (int64, error) { return 0, nil }

func (NoopRecorder) RecentRuns(context.Context, string, int) ([]models.MRunRecord, error) {
	return []models.MRunRecord{}, nil
}

func (NoopRecorder) Close() error { return nil }
