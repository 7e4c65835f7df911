package estimators

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"volatility-observer/src/analysis/core"
	"volatility-observer/src/models"
)

// Method records which path produced a Yang-Zhang series.
type Method string

const (
	MethodComputed Method = "computed"
	MethodFallback Method = "fallback_close_to_close"
)

var (
	ErrInsufficientBars = errors.New("yang-zhang needs at least two bars")
	ErrNonPositivePrice = errors.New("non-positive or non-finite open/close")
	ErrNoDefinedValues  = errors.New("yang-zhang produced no defined values")
)

// YangZhangResult is the Yang-Zhang series plus the path that produced it.
// Err is the cause of a fallback and nil for a computed series.
type YangZhangResult struct {
	Series Series
	Method Method
	Err    error
}

// Fallback reports whether the Close-to-Close series was substituted.
func (r YangZhangResult) Fallback() bool {
	return r.Method == MethodFallback
}

// -----------------------------------------------------------------------------

// YangZhang computes, for each date after the first, the Yang-Zhang variance
// over a trailing window of up to p.YangZhangWindow bars:
//
//	var(overnight) + k*var(open) + (1-k)*mean(rs)^2/days
//
// with k = 0.34/(1.34+(n+1)/(n-1)) fixed by the full series length n. The
// open return is taken against the mean open of the whole series. If the
// input cannot be computed, or no date gets a defined value, the whole result
// is the Close-to-Close series.
func YangZhang(bars []models.MPriceBar, p Params) YangZhangResult {
	values, err := yangZhangRaw(bars, p)
	if err == nil {
		if s := compact(bars, values); s.Len() > 0 {
			return YangZhangResult{Series: s, Method: MethodComputed}
		}
		err = ErrNoDefinedValues
	}
	return YangZhangResult{
		Series: CloseToClose(bars, p),
		Method: MethodFallback,
		Err:    err,
	}
}

func yangZhangRaw(bars []models.MPriceBar, p Params) ([]float64, error) {
	n := len(bars)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientBars, n)
	}

	opens := make([]float64, n)
	for i, b := range bars {
		if !(b.Open > 0) || !(b.Close > 0) || math.IsInf(b.Open, 0) || math.IsInf(b.Close, 0) {
			return nil, fmt.Errorf("%w at %s", ErrNonPositivePrice, b.Date.Format("2006-01-02"))
		}
		opens[i] = b.Open
	}
	meanOpen := stat.Mean(opens, nil)

	overnight := nanSlice(n)
	openRet := make([]float64, n)
	for i, b := range bars {
		openRet[i] = math.Log(b.Open / meanOpen)
		if i > 0 {
			overnight[i] = core.LogReturn(b.Open, bars[i-1].Close)
		}
	}
	rs := rogersSatchellRaw(bars, p)

	k := 0.34 / (1.34 + float64(n+1)/float64(n-1))
	ann := p.annualization()
	days := p.tradingDays()
	window := p.window()

	out := nanSlice(n)
	for i := 1; i < n; i++ {
		size := min(i+1, window)
		start := i - size + 1

		overnightVar := core.NaNVariance(overnight[start : i+1])
		openVar := core.NaNVariance(openRet[start : i+1])
		rsMean := core.NaNMean(rs[start : i+1])

		out[i] = math.Sqrt(overnightVar+k*openVar+(1-k)*rsMean*rsMean/days) * ann
	}
	return out, nil
}
