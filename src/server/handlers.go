package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"volatility-observer/src/analysis"
	"volatility-observer/src/analysis/estimators"
	"volatility-observer/src/helpers"
	"volatility-observer/src/metrics"
	"volatility-observer/src/models"
	"volatility-observer/src/storage"
)

const defaultRunsLimit = 20

// -----------------------------------------------------------------------------
// POST /api/volatility
// -----------------------------------------------------------------------------

func (s *APIServer) postVolatility(c *gin.Context) {
	var req models.MVolatilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindingError(err))
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))

	resp, bars, err := s.computeVolatility(c, symbol, req.StartDate, req.EndDate)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.Metrics.ObserveRequest(metrics.OutcomeOK)
	s.recordRun(c, req, resp, bars)
	c.JSON(http.StatusOK, resp)
}

// computeVolatility fetches the history and runs the estimators. Errors are
// either a NotFoundError or a ComputationError.
func (s *APIServer) computeVolatility(c *gin.Context, symbol, startDate, endDate string) (models.MVolatilityResponse, int, error) {
	start, err := time.Parse(analysis.DateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return models.MVolatilityResponse{}, 0, helpers.NewComputationError("invalid start_date "+strconv.Quote(startDate), nil)
	}
	end, err := time.Parse(analysis.DateLayout, strings.TrimSpace(endDate))
	if err != nil {
		return models.MVolatilityResponse{}, 0, helpers.NewComputationError("invalid end_date "+strconv.Quote(endDate), nil)
	}

	fetchStart := time.Now()
	bars, err := s.Source.FetchDailyBars(c.Request.Context(), symbol, start, end)
	s.Metrics.ObserveFetch(time.Since(fetchStart), len(bars))
	if err != nil {
		return models.MVolatilityResponse{}, 0, helpers.AsComputationError(err)
	}
	if len(bars) == 0 {
		return models.MVolatilityResponse{}, 0, helpers.NewNotFoundError(helpers.NoDataMessage)
	}

	resp := s.Analysis.Analyze(symbol, bars)
	for _, block := range resp.Data {
		if block.Name == estimators.NameYangZhang && block.Method == string(estimators.MethodFallback) {
			s.Metrics.ObserveFallback()
		}
	}
	return resp, len(bars), nil
}

// -----------------------------------------------------------------------------

func (s *APIServer) writeError(c *gin.Context, err error) {
	var nf *helpers.NotFoundError
	if errors.As(err, &nf) {
		s.Metrics.ObserveRequest(metrics.OutcomeNotFound)
		c.JSON(http.StatusNotFound, gin.H{"detail": nf.Message})
		return
	}
	var ve *helpers.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": ve.Message})
		return
	}

	s.Metrics.ObserveRequest(metrics.OutcomeError)
	s.Logger.Error("Volatility request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}

// recordRun stores a summary of the response. Failures are logged only.
func (s *APIServer) recordRun(c *gin.Context, req models.MVolatilityRequest, resp models.MVolatilityResponse, bars int) {
	run := models.MRunRecord{
		Symbol:    resp.Symbol,
		StartDate: strings.TrimSpace(req.StartDate),
		EndDate:   strings.TrimSpace(req.EndDate),
		Bars:      bars,
		CreatedAt: time.Now().UTC(),
		Stats:     make([]models.MRunEstimatorStats, 0, len(resp.Data)),
	}
	for _, block := range resp.Data {
		run.Stats = append(run.Stats, models.MRunEstimatorStats{
			Estimator: block.Name,
			Method:    block.Method,
			Stats:     block.Stats,
		})
	}

	if _, err := s.Recorder.RecordRun(c.Request.Context(), run); err != nil {
		s.ErrorHandler.Handle(err, "record run "+resp.Symbol)
	}
}

// -----------------------------------------------------------------------------
// GET /api/estimator-info
// -----------------------------------------------------------------------------

func (s *APIServer) getEstimatorInfo(c *gin.Context) {
	c.JSON(http.StatusOK, analysis.EstimatorInfo())
}

// -----------------------------------------------------------------------------
// GET /api/runs
// -----------------------------------------------------------------------------

func (s *APIServer) getRuns(c *gin.Context) {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "limit: must be a positive integer"})
			return
		}
		limit = min(n, storage.MaxRecentRuns)
	}
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))

	runs, err := s.Recorder.RecentRuns(c.Request.Context(), symbol, limit)
	if err != nil {
		s.Logger.Error("Listing runs failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// -----------------------------------------------------------------------------
// GET /api/health
// -----------------------------------------------------------------------------

// sourceRegistry is implemented by sources that front several providers.
type sourceRegistry interface {
	SourceNames() []string
	Active() string
}

func (s *APIServer) getHealth(c *gin.Context) {
	body := gin.H{
		"status":         "healthy",
		"source":         s.Source.Name(),
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"errors":         s.ErrorHandler.ErrorCount(),
	}
	if reg, ok := s.Source.(sourceRegistry); ok {
		body["sources"] = reg.SourceNames()
		body["active"] = reg.Active()
	}
	c.JSON(http.StatusOK, body)
}
