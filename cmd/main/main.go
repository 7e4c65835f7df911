package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"volatility-observer/src/config"
	"volatility-observer/src/grpc_control"
	"volatility-observer/src/logger"
	"volatility-observer/src/metrics"
	"volatility-observer/src/server"
)

// -----------------------------------------------------------------------------

func main() {

	// 1. Parse command line flags
	configFlag := flag.String("config", "", "path to config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	flag.Parse()
	configPath := config.ResolvePath(*configFlag)

	// 2. Load config
	conf, err := config.NewConfig(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)
	appLogger.Info("Loaded config from %s", configPath)

	// 4. Setup Components
	recorder, err := setupRecorder(conf.MConfig, appLogger)
	if err != nil {
		os.Exit(1)
	}
	defer recorder.Close()

	networkManager := setupNetwork(conf.MConfig)
	source, err := setupDataSources(conf.MConfig, appLogger, networkManager)
	if err != nil {
		appLogger.Critical("No usable data source: %v", err)
	}

	analyzer := setupAnalysis(conf.MConfig)
	srv := server.NewAPIServer(conf.MConfig, logger.NewLogger(conf.MConfig, "APIServer"), source, analyzer, recorder, metrics.NewMetrics())

	// 5. Start Servers. Health flips to SERVING once HTTP is bound.
	httpLis, err := srv.Listen()
	if err != nil {
		appLogger.Critical("%v", err)
	}
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(httpLis)
	}()

	var control *grpc_control.ControlServer
	if conf.GrpcPort != 0 {
		control = grpc_control.NewControlServer(conf.MConfig, appLogger)
		lis, err := control.Listen()
		if err != nil {
			appLogger.Critical("%v", err)
		}
		go func() {
			if err := control.Serve(lis); err != nil {
				appLogger.Error("gRPC server failed: %v", err)
			}
		}()
		control.SetServing(true)
	}

	// 6. Wait for a signal or a server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Received %s, shutting down...", sig)
	case err := <-serverErr:
		if err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}

	if control != nil {
		control.SetServing(false)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("HTTP shutdown: %v", err)
	}
	if control != nil {
		control.Stop()
	}
	appLogger.Info("Shutdown complete.")
}
