// Package estimators implements the daily OHLC volatility estimators.
//
// Every estimator maps an ascending bar table to a Series holding only the
// dates where the estimator is defined. Values are annualized with
// sqrt(TradingDays). The returned dates are always a subsequence of the
// input dates.
package estimators

import (
	"time"

	"volatility-observer/src/analysis/core"
	"volatility-observer/src/models"
)

// Estimator names as they appear on the wire.
const (
	NameCloseToClose   = "Close-to-Close"
	NameParkinson      = "Parkinson"
	NameGarmanKlass    = "Garman-Klass"
	NameRogersSatchell = "Rogers-Satchell"
	NameYangZhang      = "Yang-Zhang"
)

// Names lists the estimators in response order.
var Names = []string{
	NameCloseToClose,
	NameParkinson,
	NameGarmanKlass,
	NameRogersSatchell,
	NameYangZhang,
}

// -----------------------------------------------------------------------------

// Params carries the constants shared by the estimators.
type Params struct {
	TradingDays     int
	YangZhangWindow int
}

// DefaultParams is 252 trading days and a 20 observation Yang-Zhang window.
func DefaultParams() Params {
	return Params{TradingDays: core.DefaultTradingDays, YangZhangWindow: 20}
}

func (p Params) annualization() float64 {
	return core.AnnualizationFactor(p.TradingDays)
}

func (p Params) tradingDays() float64 {
	if p.TradingDays <= 0 {
		return core.DefaultTradingDays
	}
	return float64(p.TradingDays)
}

func (p Params) window() int {
	if p.YangZhangWindow < 2 {
		return DefaultParams().YangZhangWindow
	}
	return p.YangZhangWindow
}

// -----------------------------------------------------------------------------

// Series is a date-indexed volatility series without missing values.
type Series struct {
	Dates  []time.Time
	Values []float64
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.Values)
}

// compact keeps the finite entries of values, which must be aligned with bars.
func compact(bars []models.MPriceBar, values []float64) Series {
	s := Series{
		Dates:  make([]time.Time, 0, len(values)),
		Values: make([]float64, 0, len(values)),
	}
	for i, v := range values {
		if !core.IsFinite(v) {
			continue
		}
		s.Dates = append(s.Dates, bars[i].Date)
		s.Values = append(s.Values, v)
	}
	return s
}
