package estimators

import (
	"math"

	"volatility-observer/src/models"
)

// RogersSatchell is drift independent:
// sqrt(ln(H/C)*ln(H/O) + ln(L/C)*ln(L/O)), annualized. The product is
// non-negative whenever H >= O,C >= L; dates violating that are dropped.
func RogersSatchell(bars []models.MPriceBar, p Params) Series {
	return compact(bars, rogersSatchellRaw(bars, p))
}

func rogersSatchellRaw(bars []models.MPriceBar, p Params) []float64 {
	ann := p.annualization()
	out := nanSlice(len(bars))
	for i, b := range bars {
		if !(b.Open > 0) || !(b.High > 0) || !(b.Low > 0) || !(b.Close > 0) {
			continue
		}
		hc := math.Log(b.High / b.Close)
		ho := math.Log(b.High / b.Open)
		lc := math.Log(b.Low / b.Close)
		lo := math.Log(b.Low / b.Open)
		product := hc*ho + lc*lo
		if !(product >= 0) {
			continue
		}
		out[i] = math.Sqrt(product) * ann
	}
	return out
}
