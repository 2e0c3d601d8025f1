package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flightsurety/smart-contract/cmd/flightsuretyd/bootstrap"
	"github.com/flightsurety/smart-contract/cmd/flightsuretyd/handlers"
	"github.com/flightsurety/smart-contract/internal/platform/logger"
	"github.com/flightsurety/smart-contract/internal/platform/metrics"
)

var (
	buildVersion = "unknown"
	buildDate    = "unknown"
	buildUser    = "unknown"
)

// Flight Surety Daemon
func main() {

	// -------------------------------------------------------------------------
	// Config

	ctx := logger.NewContext()
	cfg := bootstrap.NewConfigFromEnv(ctx)

	// -------------------------------------------------------------------------
	// Logging

	ctx = bootstrap.NewContextWithLogger(ctx, cfg)
	defer logger.Sync(ctx)

	// -------------------------------------------------------------------------
	// App Starting

	logger.Info(ctx, "Started : Application Initializing")
	defer logger.Info(ctx, "Completed")

	logger.Info(ctx, "Build %v (%v on %v)", buildVersion, buildUser, buildDate)
	bootstrap.LogConfig(ctx, cfg)

	// -------------------------------------------------------------------------
	// Keys

	ownerKey := bootstrap.DecodeKey(ctx, cfg.Ledger.OwnerKey, "owner")
	appKey := bootstrap.DecodeKey(ctx, cfg.Ledger.AppKey, "app")

	logger.Info(ctx, "Ledger owner %s, app %s", ownerKey.Address(), appKey.Address())

	// -------------------------------------------------------------------------
	// Start Database / Storage

	logger.Info(ctx, "Started : Initialize Database")

	masterDB := bootstrap.NewMasterDB(ctx, cfg)
	defer masterDB.Close(ctx)

	// -------------------------------------------------------------------------
	// Ledger and App

	nodeConfig := bootstrap.NewNodeConfig(ctx, cfg)

	l, a, err := bootstrap.LoadLedger(ctx, masterDB, nodeConfig, ownerKey.Address(),
		appKey.Address())
	if err != nil {
		logger.Fatal(ctx, "Load ledger : %s", err)
	}

	// -------------------------------------------------------------------------
	// Start API Service

	m := metrics.NewMetrics("flightsurety")
	m.SetCounts(l.GetAirlineCount(), l.GetParticipantCount())

	api := handlers.API(l, a, nodeConfig, m)

	server := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: handlers.NewRouter(api, masterDB, nodeConfig, m),
	}

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info(ctx, "API listening on %s", cfg.HTTP.Address)
		serverErrors <- server.ListenAndServe()
	}()

	// -------------------------------------------------------------------------
	// Shutdown

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server failure : %s", err)
		}

	case <-osSignals:
		logger.Info(ctx, "Start shutdown...")

		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Could not stop server gracefully : %s", err)
			server.Close()
		}
	}
}
