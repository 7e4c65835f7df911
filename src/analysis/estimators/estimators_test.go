package estimators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volatility-observer/src/models"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func bar(i int, o, h, l, c float64) models.MPriceBar {
	return models.MPriceBar{Date: day0.AddDate(0, 0, i), Open: o, High: h, Low: l, Close: c}
}

// syntheticBars builds a consistent OHLC path (H >= O,C >= L) of length n.
func syntheticBars(n int) []models.MPriceBar {
	bars := make([]models.MPriceBar, n)
	prevClose := 100.0
	for i := 0; i < n; i++ {
		open := prevClose * (1 + 0.004*math.Sin(float64(i)*1.7))
		closePrice := open * (1 + 0.012*math.Cos(float64(i)*0.9))
		high := math.Max(open, closePrice) * (1 + 0.006 + 0.002*math.Abs(math.Sin(float64(i))))
		low := math.Min(open, closePrice) * (1 - 0.005 - 0.002*math.Abs(math.Cos(float64(i))))
		bars[i] = bar(i, open, high, low, closePrice)
		prevClose = closePrice
	}
	return bars
}

func closes(vals ...float64) []models.MPriceBar {
	bars := make([]models.MPriceBar, len(vals))
	for i, v := range vals {
		bars[i] = bar(i, v, v, v, v)
	}
	return bars
}

// assertSubsequence checks that s.Dates appear in bars in strictly increasing order.
func assertSubsequence(t *testing.T, bars []models.MPriceBar, s Series) {
	t.Helper()
	require.Len(t, s.Dates, len(s.Values))
	j := 0
	for _, d := range s.Dates {
		for j < len(bars) && !bars[j].Date.Equal(d) {
			j++
		}
		require.Less(t, j, len(bars), "date %s is not in the input or out of order", d)
		j++
	}
}

func TestCloseToCloseFlat(t *testing.T) {
	bars := closes(100, 100, 100)
	s := CloseToClose(bars, DefaultParams())

	require.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{0, 0}, s.Values)
	assert.Equal(t, bars[1].Date, s.Dates[0])
	assert.Equal(t, bars[2].Date, s.Dates[1])
}

func TestCloseToCloseIsAbsoluteReturn(t *testing.T) {
	bars := closes(100, 110, 99)
	s := CloseToClose(bars, DefaultParams())

	require.Equal(t, 2, s.Len())
	assert.InDelta(t, math.Log(1.1)*math.Sqrt(252), s.Values[0], 1e-12)
	assert.InDelta(t, math.Abs(math.Log(0.9))*math.Sqrt(252), s.Values[1], 1e-12)
}

func TestCloseToCloseDropsNonPositiveClose(t *testing.T) {
	bars := closes(100, 0, 100, 101)
	s := CloseToClose(bars, DefaultParams())

	require.Equal(t, 1, s.Len())
	assert.Equal(t, bars[3].Date, s.Dates[0])
}

func TestCloseToCloseSingleBar(t *testing.T) {
	assert.Equal(t, 0, CloseToClose(closes(100), DefaultParams()).Len())
	assert.Equal(t, 0, CloseToClose(nil, DefaultParams()).Len())
}

func TestParkinsonFlatRange(t *testing.T) {
	bars := closes(100, 101, 102, 103)
	s := Parkinson(bars, DefaultParams())

	require.Equal(t, len(bars), s.Len())
	for _, v := range s.Values {
		assert.Equal(t, 0.0, v)
	}
}

func TestParkinsonValue(t *testing.T) {
	bars := []models.MPriceBar{bar(0, 100, 105, 95, 101)}
	s := Parkinson(bars, DefaultParams())

	want := math.Log(105.0/95.0) / (2 * math.Sqrt(math.Log(2))) * math.Sqrt(252)
	require.Equal(t, 1, s.Len())
	assert.InDelta(t, want, s.Values[0], 1e-12)
}

func TestParkinsonDropsUndefined(t *testing.T) {
	bars := []models.MPriceBar{
		bar(0, 100, 105, 95, 101),
		bar(1, 100, 105, 0, 101),
		bar(2, 100, 105, -3, 101),
		bar(3, 100, 95, 105, 101),
		bar(4, 100, 104, 96, 101),
	}
	s := Parkinson(bars, DefaultParams())

	require.Equal(t, 2, s.Len())
	assert.Equal(t, bars[0].Date, s.Dates[0])
	assert.Equal(t, bars[4].Date, s.Dates[1])
	for _, v := range s.Values {
		assert.NotZero(t, v)
	}
}

func TestGarmanKlassValue(t *testing.T) {
	bars := []models.MPriceBar{bar(0, 100, 105, 95, 102)}
	s := GarmanKlass(bars, DefaultParams())

	hl := math.Log(105.0 / 95.0)
	co := math.Log(102.0 / 100.0)
	want := math.Sqrt(0.5*hl*hl-(2*math.Log(2)-1)*co*co) * math.Sqrt(252)
	require.Equal(t, 1, s.Len())
	assert.InDelta(t, want, s.Values[0], 1e-12)
}

func TestGarmanKlassNegativeRadicandUsesParkinson(t *testing.T) {
	bars := []models.MPriceBar{
		bar(0, 100, 105, 95, 102),
		// close far outside the range: the open/close term dominates
		bar(1, 100, 101, 100, 120),
		bar(2, 100, 104, 97, 99),
	}
	p := DefaultParams()
	gk := GarmanKlass(bars, p)
	pk := Parkinson(bars, p)

	require.Equal(t, 3, gk.Len())
	require.Equal(t, 3, pk.Len())
	assert.Equal(t, pk.Values[1], gk.Values[1])
	assert.NotEqual(t, pk.Values[0], gk.Values[0])
	assert.NotEqual(t, pk.Values[2], gk.Values[2])
}

func TestGarmanKlassDropsWhenParkinsonUndefined(t *testing.T) {
	// inverted range and a dominant open/close move
	bars := []models.MPriceBar{bar(0, 100, 100, 101, 130)}
	assert.Equal(t, 0, GarmanKlass(bars, DefaultParams()).Len())
}

func TestRogersSatchellConsistentData(t *testing.T) {
	bars := syntheticBars(120)
	s := RogersSatchell(bars, DefaultParams())

	require.Equal(t, len(bars), s.Len())
	for _, v := range s.Values {
		assert.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestRogersSatchellValue(t *testing.T) {
	bars := []models.MPriceBar{bar(0, 100, 102, 99, 101)}
	s := RogersSatchell(bars, DefaultParams())

	require.Equal(t, 1, s.Len())
	assert.InDelta(t, 0.3159444928882911, s.Values[0], 1e-12)
}

func TestRogersSatchellDropsInconsistentBar(t *testing.T) {
	bars := []models.MPriceBar{
		bar(0, 100, 102, 99, 101),
		bar(1, 100, 101, 100, 120),
		bar(2, 100, 102, 99, 101),
	}
	s := RogersSatchell(bars, DefaultParams())

	require.Equal(t, 2, s.Len())
	assert.Equal(t, bars[0].Date, s.Dates[0])
	assert.Equal(t, bars[2].Date, s.Dates[1])
}

func TestYangZhangThreeBars(t *testing.T) {
	bars := []models.MPriceBar{
		bar(0, 100, 102, 99, 101),
		bar(1, 101.5, 103, 100.5, 102),
		bar(2, 101, 102.5, 99.5, 100),
	}
	res := YangZhang(bars, DefaultParams())

	require.NoError(t, res.Err)
	assert.Equal(t, MethodComputed, res.Method)
	assert.False(t, res.Fallback())
	// the first overnight variance needs two returns, so only the third date is defined
	require.Equal(t, 1, res.Series.Len())
	assert.Equal(t, bars[2].Date, res.Series.Dates[0])
	assert.InDelta(t, 0.3365879172296545, res.Series.Values[0], 1e-12)
}

func TestYangZhangLength(t *testing.T) {
	bars := syntheticBars(60)
	res := YangZhang(bars, DefaultParams())

	require.Equal(t, MethodComputed, res.Method)
	assert.Equal(t, len(bars)-2, res.Series.Len())
	assertSubsequence(t, bars, res.Series)
}

func TestYangZhangWindow(t *testing.T) {
	bars := syntheticBars(40)
	short := YangZhang(bars, Params{TradingDays: 252, YangZhangWindow: 5}).Series
	long := YangZhang(bars, Params{TradingDays: 252, YangZhangWindow: 20}).Series

	require.Equal(t, long.Len(), short.Len())
	// series index j is input row j+2; rows below 5 see the same partial window
	for j := 0; j < 3; j++ {
		assert.InDelta(t, long.Values[j], short.Values[j], 1e-15)
	}
	assert.NotEqual(t, long.Values[10], short.Values[10])
}

func TestYangZhangFallback(t *testing.T) {
	t.Run("single bar", func(t *testing.T) {
		bars := closes(100)
		res := YangZhang(bars, DefaultParams())

		assert.True(t, res.Fallback())
		assert.ErrorIs(t, res.Err, ErrInsufficientBars)
		assert.Equal(t, CloseToClose(bars, DefaultParams()), res.Series)
	})

	t.Run("two bars", func(t *testing.T) {
		bars := syntheticBars(2)
		res := YangZhang(bars, DefaultParams())

		assert.True(t, res.Fallback())
		assert.ErrorIs(t, res.Err, ErrNoDefinedValues)
		assert.Equal(t, CloseToClose(bars, DefaultParams()), res.Series)
		assert.Equal(t, 1, res.Series.Len())
	})

	t.Run("non-positive open", func(t *testing.T) {
		bars := syntheticBars(10)
		bars[4].Open = 0
		res := YangZhang(bars, DefaultParams())

		assert.True(t, res.Fallback())
		assert.ErrorIs(t, res.Err, ErrNonPositivePrice)
		assert.Equal(t, CloseToClose(bars, DefaultParams()), res.Series)
	})
}

func TestEstimatorsReturnSubsequences(t *testing.T) {
	bars := syntheticBars(80)
	bars[10].Low = 0
	bars[20].Close = bars[20].High * 1.2
	bars[30].High, bars[30].Low = bars[30].Low, bars[30].High

	p := DefaultParams()
	for name, s := range map[string]Series{
		NameCloseToClose:   CloseToClose(bars, p),
		NameParkinson:      Parkinson(bars, p),
		NameGarmanKlass:    GarmanKlass(bars, p),
		NameRogersSatchell: RogersSatchell(bars, p),
		NameYangZhang:      YangZhang(bars, p).Series,
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotZero(t, s.Len())
			assertSubsequence(t, bars, s)
			for _, v := range s.Values {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			}
		})
	}
}

func TestCustomTradingDays(t *testing.T) {
	bars := closes(100, 110)
	s := CloseToClose(bars, Params{TradingDays: 365})

	require.Equal(t, 1, s.Len())
	assert.InDelta(t, math.Log(1.1)*math.Sqrt(365), s.Values[0], 1e-12)
}
