package interfaces

import (
	"context"
	"time"

	"volatility-observer/src/models"
)

// -----------------------------------------------------------------------------
// IPriceDataSource fetches daily OHLC history from an external provider.
// -----------------------------------------------------------------------------

type IPriceDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchDailyBars returns the bars dated in [start, end), ascending by date.
	// An empty slice with a nil error means the provider has no data.
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.MPriceBar, error)
}
