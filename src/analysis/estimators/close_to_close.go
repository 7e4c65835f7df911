package estimators

import (
	"math"

	"volatility-observer/src/analysis/core"
	"volatility-observer/src/models"
)

// CloseToClose is |ln(C_t/C_{t-1})| annualized, i.e. the one-observation
// standard deviation of the daily log return. The first date has no
// previous close and is dropped.
func CloseToClose(bars []models.MPriceBar, p Params) Series {
	return compact(bars, closeToCloseRaw(bars, p))
}

func closeToCloseRaw(bars []models.MPriceBar, p Params) []float64 {
	ann := p.annualization()
	out := nanSlice(len(bars))
	for i := 1; i < len(bars); i++ {
		r := core.LogReturn(bars[i].Close, bars[i-1].Close)
		out[i] = math.Abs(r) * ann
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
