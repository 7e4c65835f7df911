package main

import (
	"fmt"

	"volatility-observer/src/analysis"
	datasource "volatility-observer/src/data_source"
	"volatility-observer/src/data_source/csv"
	"volatility-observer/src/data_source/yahoo"
	"volatility-observer/src/interfaces"
	"volatility-observer/src/logger"
	"volatility-observer/src/models"
	"volatility-observer/src/network"
	"volatility-observer/src/storage"
)

// -----------------------------------------------------------------------------

// setupRecorder opens the run history backend selected by storage.db_type
func setupRecorder(config *models.MConfig, appLogger *logger.Logger) (interfaces.IRecorder, error) {
	rec, err := storage.NewRecorder(config, logger.NewLogger(config, "Storage"))
	if err != nil {
		appLogger.Error("Failed to init run recorder: %v", err)
		return nil, err
	}
	appLogger.Info("Run recorder: %s", config.Storage.DBType)
	return rec, nil
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	networkLogger := logger.NewLogger(config, "NetworkManager")
	return network.NewAsyncNetworkManager(config, networkLogger)
}

// -----------------------------------------------------------------------------

// setupDataSources registers the available providers and activates the
// configured one
func setupDataSources(config *models.MConfig, appLogger *logger.Logger, networkManager interfaces.INetworkManager) (*datasource.MultiSourceManager, error) {
	appLogger.Info("Initializing data sources...")
	sourceLogger := logger.NewLogger(config, "DataSource")

	multiSource := datasource.NewMultiSourceManager([]interfaces.IPriceDataSource{
		yahoo.NewYahooFinanceSource(config, networkManager, sourceLogger),
	}, appLogger)
	if config.DataSource.CSVDir != "" {
		if err := multiSource.AddSource(csv.NewCSVSource(config, sourceLogger)); err != nil {
			return nil, err
		}
	}

	if err := multiSource.SetActive(config.DataSource.Provider); err != nil {
		return nil, fmt.Errorf("provider %q: %w", config.DataSource.Provider, err)
	}
	return multiSource, nil
}

// -----------------------------------------------------------------------------

// setupAnalysis initializes the analysis facade
func setupAnalysis(config *models.MConfig) *analysis.AnalysisFacade {
	analysisLogger := logger.NewLogger(config, "Analysis")
	return analysis.NewAnalysisFacade(config, analysisLogger)
}
