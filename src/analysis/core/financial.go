package core

import "math"

// DefaultTradingDays is the annualization base for daily data.
const DefaultTradingDays = 252

// -----------------------------------------------------------------------------

// LogReturn is ln(current/previous). Non-positive inputs give NaN rather
// than a signed infinity so callers can drop the observation.
func LogReturn(current, previous float64) float64 {
	if current <= 0 || previous <= 0 {
		return math.NaN()
	}
	return math.Log(current / previous)
}

// -----------------------------------------------------------------------------

// AnnualizationFactor is sqrt(tradingDays), defaulting to 252 days.
func AnnualizationFactor(tradingDays int) float64 {
	if tradingDays <= 0 {
		tradingDays = DefaultTradingDays
	}
	return math.Sqrt(float64(tradingDays))
}

// -----------------------------------------------------------------------------

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
