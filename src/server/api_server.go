package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"volatility-observer/src/analysis"
	"volatility-observer/src/helpers"
	"volatility-observer/src/interfaces"
	"volatility-observer/src/logger"
	"volatility-observer/src/metrics"
	"volatility-observer/src/models"
)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config       *models.MConfig
	Logger       *logger.Logger
	Source       interfaces.IPriceDataSource
	Analysis     *analysis.AnalysisFacade
	Recorder     interfaces.IRecorder
	Metrics      *metrics.Metrics
	ErrorHandler *helpers.ErrorHandler

	engine     *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(
	cfg *models.MConfig,
	log *logger.Logger,
	source interfaces.IPriceDataSource,
	facade *analysis.AnalysisFacade,
	recorder interfaces.IRecorder,
	m *metrics.Metrics,
) *APIServer {
	// Set Gin mode
	if !strings.EqualFold(cfg.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:       cfg,
		Logger:       log,
		Source:       source,
		Analysis:     facade,
		Recorder:     recorder,
		Metrics:      m,
		ErrorHandler: helpers.NewErrorHandler(log),
		engine:       gin.New(),
		startedAt:    time.Now(),
	}

	s.engine.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())
	s.engine.Use(corsMiddleware(cfg.AllowedOrigins))

	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.POST("/volatility", s.postVolatility)
	api.GET("/estimator-info", s.getEstimatorInfo)
	api.GET("/runs", s.getRuns)
	api.GET("/health", s.getHealth)

	s.engine.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
}

// Handler exposes the router, e.g. for httptest.
func (s *APIServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Listen binds the configured address without serving yet.
func (s *APIServer) Listen() (net.Listener, error) {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return lis, nil
}

// Serve blocks serving HTTP on lis until Stop is called.
func (s *APIServer) Serve(lis net.Listener) error {
	s.Logger.Info("Starting server on %s", lis.Addr())

	if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *APIServer) Stop(ctx context.Context) error {
	s.Logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
