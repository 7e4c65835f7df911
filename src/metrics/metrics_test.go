package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest(OutcomeOK)
	m.ObserveRequest(OutcomeOK)
	m.ObserveRequest(OutcomeNotFound)
	m.ObserveFallback()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(OutcomeNotFound)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requests.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.ObserveFetch(120*time.Millisecond, 250)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "volatility_requests_total")
	assert.Contains(t, text, "volatility_fetch_duration_seconds_count 1")
	assert.Contains(t, text, "volatility_bars_fetched_sum 250")
	assert.Contains(t, text, "go_goroutines")
}
