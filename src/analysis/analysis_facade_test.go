package analysis

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volatility-observer/src/analysis/estimators"
	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

func newTestFacade(t *testing.T, cfg *models.MConfig) *AnalysisFacade {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	return NewAnalysisFacade(cfg, logger.NewLoggerWithWriter(cfg, "analysis", &buf))
}

func makeBars(n int) []models.MPriceBar {
	bars := make([]models.MPriceBar, n)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	prev := 100.0
	for i := 0; i < n; i++ {
		open := prev * (1 + 0.003*math.Sin(float64(i)))
		closePrice := open * (1 + 0.01*math.Cos(float64(i)*1.3))
		bars[i] = models.MPriceBar{
			Date:  day.AddDate(0, 0, i),
			Open:  open,
			High:  math.Max(open, closePrice) * 1.007,
			Low:   math.Min(open, closePrice) * 0.994,
			Close: closePrice,
		}
		prev = closePrice
	}
	return bars
}

func TestAnalyzeBlocks(t *testing.T) {
	facade := newTestFacade(t, nil)
	bars := makeBars(60)

	resp := facade.Analyze("AAPL", bars)

	assert.Equal(t, "AAPL", resp.Symbol)
	require.Len(t, resp.Data, 5)
	for i, block := range resp.Data {
		assert.Equal(t, estimators.Names[i], block.Name)
		assert.NotEmpty(t, block.Values)
		assert.Len(t, block.RollingValues, max(0, len(block.Values)-19))
	}

	// Close-to-Close starts on the second date
	assert.Equal(t, "2024-01-03", resp.Data[0].Values[0].Date)
	assert.Len(t, resp.Data[0].Values, 59)
	assert.Len(t, resp.Data[4].Values, 58)
	assert.Equal(t, string(estimators.MethodComputed), resp.Data[4].Method)
}

func TestAnalyzeRollingMean(t *testing.T) {
	facade := newTestFacade(t, &models.MConfig{Analysis: models.MAnalysisConfig{RollingWindow: 3}})
	resp := facade.Analyze("X", makeBars(10))

	parkinson := resp.Data[1]
	require.Len(t, parkinson.RollingValues, len(parkinson.Values)-2)

	first := parkinson.RollingValues[0]
	assert.Equal(t, parkinson.Values[2].Date, first.Date)
	want := (parkinson.Values[0].Value + parkinson.Values[1].Value + parkinson.Values[2].Value) / 3
	assert.InDelta(t, want, first.Value, 1e-12)
}

func TestAnalyzeJSONShape(t *testing.T) {
	facade := newTestFacade(t, nil)
	resp := facade.Analyze("MSFT", makeBars(5))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "MSFT", decoded["symbol"])

	blocks := decoded["data"].([]interface{})
	require.Len(t, blocks, 5)
	block := blocks[0].(map[string]interface{})
	assert.ElementsMatch(t, []string{"name", "values", "rolling_values", "stats"}, keys(block))
	// fewer bars than the rolling window still yields an empty list, not null
	assert.Equal(t, []interface{}{}, block["rolling_values"])

	stats := block["stats"].(map[string]interface{})
	assert.ElementsMatch(t, []string{"mean", "std", "min", "max", "skew", "kurtosis"}, keys(stats))

	point := block["values"].([]interface{})[0].(map[string]interface{})
	assert.ElementsMatch(t, []string{"Date", "value"}, keys(point))
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	facade := newTestFacade(t, nil)
	bars := makeBars(40)

	first, err := json.Marshal(facade.Analyze("IBM", bars))
	require.NoError(t, err)
	second, err := json.Marshal(facade.Analyze("IBM", bars))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeSingleBarFallsBack(t *testing.T) {
	facade := newTestFacade(t, nil)
	resp := facade.Analyze("ONE", makeBars(1))

	require.Len(t, resp.Data, 5)
	assert.Empty(t, resp.Data[0].Values)
	assert.Len(t, resp.Data[1].Values, 1)
	yz := resp.Data[4]
	assert.Equal(t, string(estimators.MethodFallback), yz.Method)
	assert.Empty(t, yz.Values)
	assert.Equal(t, models.MSummaryStats{}, yz.Stats)
}

func TestAnalyzeTwoBarsFillEveryBlock(t *testing.T) {
	facade := newTestFacade(t, nil)
	resp := facade.Analyze("TWO", makeBars(2))

	require.Len(t, resp.Data, 5)
	for _, block := range resp.Data {
		assert.NotEmpty(t, block.Values, block.Name)
	}
	assert.Equal(t, string(estimators.MethodFallback), resp.Data[4].Method)
}

func TestEstimatorInfo(t *testing.T) {
	info := EstimatorInfo()
	require.Len(t, info, 5)
	for _, name := range estimators.Names {
		entry, ok := info[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, entry.Description)
		assert.NotEmpty(t, entry.Formula)
	}

	info[estimators.NameParkinson] = models.MEstimatorInfo{}
	assert.NotEmpty(t, EstimatorInfo()[estimators.NameParkinson].Description)
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
