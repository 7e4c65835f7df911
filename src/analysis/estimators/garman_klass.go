package estimators

import (
	"math"

	"volatility-observer/src/models"
)

// gkCloseOpenWeight is 2*ln(2)-1.
var gkCloseOpenWeight = 2*math.Ln2 - 1

// GarmanKlass combines the high/low range with the open/close move:
// sqrt(0.5*ln(H/L)^2 - (2*ln2-1)*ln(C/O)^2), annualized. On a date where the
// radicand is negative the Parkinson value of that date is used instead.
func GarmanKlass(bars []models.MPriceBar, p Params) Series {
	return compact(bars, garmanKlassRaw(bars, p))
}

func garmanKlassRaw(bars []models.MPriceBar, p Params) []float64 {
	ann := p.annualization()
	parkinson := parkinsonRaw(bars, p)
	out := nanSlice(len(bars))
	for i, b := range bars {
		if !(b.Low > 0) || !(b.Open > 0) || !(b.Close > 0) || !(b.High > 0) {
			continue
		}
		hl := math.Log(b.High / b.Low)
		co := math.Log(b.Close / b.Open)
		radicand := 0.5*hl*hl - gkCloseOpenWeight*co*co
		if math.IsNaN(radicand) {
			continue
		}
		if radicand < 0 {
			out[i] = parkinson[i]
			continue
		}
		out[i] = math.Sqrt(radicand) * ann
	}
	return out
}
