package storage

import (
	"fmt"
	"strings"

	"volatility-observer/src/interfaces"
	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

// NewRecorder builds the run recorder selected by storage.db_type and
// initializes its schema.
func NewRecorder(cfg *models.MConfig, log *logger.Logger) (interfaces.IRecorder, error) {
	var rec interfaces.IRecorder
	switch strings.ToLower(cfg.Storage.DBType) {
	case "", "none":
		return NoopRecorder{}, nil
	case "sqlite":
		db, err := NewAsyncSQLiteDB(cfg, log)
		if err != nil {
			return nil, err
		}
		rec = db
	case "postgres", "postgresql":
		db, err := NewPostgresDB(cfg, log)
		if err != nil {
			return nil, err
		}
		rec = db
	default:
		return nil, fmt.Errorf("unsupported db_type %q", cfg.Storage.DBType)
	}

	if err := rec.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing %s recorder: %w", cfg.Storage.DBType, err)
	}
	return rec, nil
}
