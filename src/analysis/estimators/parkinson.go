package estimators

import (
	"math"

	"volatility-observer/src/models"
)

// parkinsonScale is 1/(2*sqrt(ln 2)).
var parkinsonScale = 1 / (2 * math.Sqrt(math.Ln2))

// Parkinson uses the daily high/low range: ln(H/L)/(2*sqrt(ln 2)), annualized.
// Bars with a non-positive low or an inverted range are dropped.
func Parkinson(bars []models.MPriceBar, p Params) Series {
	return compact(bars, parkinsonRaw(bars, p))
}

func parkinsonRaw(bars []models.MPriceBar, p Params) []float64 {
	ann := p.annualization()
	out := nanSlice(len(bars))
	for i, b := range bars {
		if !(b.Low > 0) || !(b.High >= b.Low) {
			continue
		}
		out[i] = math.Log(b.High/b.Low) * parkinsonScale * ann
	}
	return out
}
