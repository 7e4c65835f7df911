package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"volatility-observer/src/models"
)

// -----------------------------------------------------------------------------

// DropNaN returns the finite values of data in order.
func DropNaN(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if IsFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// NaNMean is the mean of the finite values, NaN when there are none.
func NaNMean(data []float64) float64 {
	valid := DropNaN(data)
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// -----------------------------------------------------------------------------

// NaNVariance is the sample variance (N-1 denominator) of the finite values,
// NaN when fewer than two are present.
func NaNVariance(data []float64) float64 {
	valid := DropNaN(data)
	if len(valid) < 2 {
		return math.NaN()
	}
	return stat.Variance(valid, nil)
}

// -----------------------------------------------------------------------------

// SummaryStats computes mean, sample std, min, max, bias-corrected skewness
// and excess kurtosis. Statistics that are undefined for the sample size or
// a zero-variance sample are reported as 0.
func SummaryStats(data []float64) models.MSummaryStats {
	valid := DropNaN(data)
	n := len(valid)
	if n == 0 {
		return models.MSummaryStats{}
	}

	mean, std := stat.MeanStdDev(valid, nil)
	result := models.MSummaryStats{
		Mean: mean,
		Min:  floats.Min(valid),
		Max:  floats.Max(valid),
	}

	if n < 2 {
		return sanitize(result)
	}
	result.Std = std

	if std == 0 {
		return sanitize(result)
	}
	if n >= 3 {
		result.Skew = stat.Skew(valid, nil)
	}
	if n >= 4 {
		result.Kurtosis = stat.ExKurtosis(valid, nil)
	}
	return sanitize(result)
}

func sanitize(s models.MSummaryStats) models.MSummaryStats {
	s.Mean = finiteOrZero(s.Mean)
	s.Std = finiteOrZero(s.Std)
	s.Min = finiteOrZero(s.Min)
	s.Max = finiteOrZero(s.Max)
	s.Skew = finiteOrZero(s.Skew)
	s.Kurtosis = finiteOrZero(s.Kurtosis)
	return s
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// -----------------------------------------------------------------------------

// RollingMean is a trailing simple moving average aligned with data. The
// first window-1 entries, and any window containing a non-finite value, are NaN.
func RollingMean(data []float64, window int) []float64 {
	out := make([]float64, len(data))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 {
		return out
	}

	for i := window - 1; i < len(data); i++ {
		w := data[i-window+1 : i+1]
		if len(DropNaN(w)) != window {
			continue
		}
		out[i] = stat.Mean(w, nil)
	}
	return out
}
