package csv

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volatility-observer/src/helpers"
	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

func newTestSource(t *testing.T, files map[string]string, autoAdjust bool) *CSVSource {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	cfg := &models.MConfig{DataSource: models.MDataSourceConfig{CSVDir: dir, AutoAdjust: autoAdjust}}
	return NewCSVSource(cfg, logger.NewLoggerWithWriter(nil, "test", io.Discard))
}

func testDay(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

const spyCSV = `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-04,103,104,101,102,51,3000
2024-01-02,100,102,99,101,50.5,1000
2024-01-03,101.5,103,100.5,102,51,2000
2024-01-05,102,105,101,104,52,4000
`

func TestCSVSourceRange(t *testing.T) {
	src := newTestSource(t, map[string]string{"SPY.csv": spyCSV}, false)

	bars, err := src.FetchDailyBars(context.Background(), "spy", testDay(2), testDay(5))
	require.NoError(t, err)

	require.Len(t, bars, 3)
	assert.Equal(t, testDay(2), bars[0].Date)
	assert.Equal(t, testDay(3), bars[1].Date)
	assert.Equal(t, testDay(4), bars[2].Date)
	assert.Equal(t, models.MPriceBar{Date: testDay(2), Open: 100, High: 102, Low: 99, Close: 101, Volume: 1000}, bars[0])
}

func TestCSVSourceAutoAdjust(t *testing.T) {
	src := newTestSource(t, map[string]string{"SPY.csv": spyCSV}, true)

	bars, err := src.FetchDailyBars(context.Background(), "SPY", testDay(2), testDay(3))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.InDelta(t, 50.0, bars[0].Open, 1e-9)
	assert.InDelta(t, 50.5, bars[0].Close, 1e-9)
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := newTestSource(t, nil, false)

	bars, err := src.FetchDailyBars(context.Background(), "NONE", testDay(1), testDay(9))
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestCSVSourceMalformed(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"BAD.csv":    "Date,Open,High,Low,Close\n2024-01-02,abc,1,1,1\n",
		"NOCOL.csv":  "Date,Open,High,Close\n2024-01-02,1,1,1\n",
		"BADDAY.csv": "Date,Open,High,Low,Close\n01/02/2024,1,1,1,1\n",
	}, false)

	for _, symbol := range []string{"BAD", "NOCOL", "BADDAY"} {
		_, err := src.FetchDailyBars(context.Background(), symbol, testDay(1), testDay(9))
		var dsErr *helpers.DataSourceError
		assert.ErrorAs(t, err, &dsErr, symbol)
	}
}
