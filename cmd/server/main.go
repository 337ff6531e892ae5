package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "pe-collective-backend/internal/api/http"
	"pe-collective-backend/internal/config"
	"pe-collective-backend/internal/jobs"
	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/scheduler"
	"pe-collective-backend/internal/service"
	"pe-collective-backend/internal/store"
	"pe-collective-backend/internal/tracker"

	"github.com/gorilla/mux"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PE Collective backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Relay configuration", "sheet", cfg.Relay.SheetName, "store", cfg.Store.Type, "timezone", cfg.Location().String())

	ctx := context.Background()

	// Initialize destination store
	sheets, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open destination store", "error", err, "type", cfg.Store.Type)
		log.Fatalf("Failed to open destination store: %v", err)
	}
	defer closeStore()

	// Initialize relay
	var opts []service.RelayOption
	if cfg.NotifyEnabled() {
		logger.Info("Registration notifications enabled", "to", cfg.Notify.To)
		opts = append(opts, service.WithNotifier(service.NewSendGridNotifier(
			cfg.Notify.APIKey, "", cfg.Notify.From, cfg.Notify.FromName, cfg.Notify.To,
		)))
	}
	relay := service.NewRelayService(service.RelayConfig{
		ServiceName: cfg.Relay.ServiceName,
		SheetName:   cfg.Relay.SheetName,
		Location:    cfg.Location(),
	}, sheets, opts...)

	if err := relay.Probe(ctx); err != nil {
		// Keep serving: submissions report the error in their envelope.
		logger.Warn("Destination sheet is not reachable at startup", "sheet", cfg.Relay.SheetName, "error", err)
	}

	// Initialize analytics sink
	var sink tracker.Sink = tracker.LogSink{}
	if cfg.Analytics.Sink == config.SinkMeasurement {
		mp, err := tracker.NewMeasurementSink(cfg.Analytics.Endpoint, cfg.Analytics.MeasurementID, cfg.Analytics.APISecret, 5*time.Second)
		if err != nil {
			log.Fatalf("Failed to initialize analytics sink: %v", err)
		}
		defer mp.Close()
		sink = mp
	}

	// Start scheduler
	sched, err := scheduler.NewScheduler(jobs.NewJobRunner(relay, cfg))
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Set up HTTP server
	router := mux.NewRouter()
	httpapi.RegisterRoutes(router, relay, sink)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
