package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pe-collective-backend/internal/config"
	"pe-collective-backend/internal/jobs"
	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/scheduler"
	"pe-collective-backend/internal/service"
	"pe-collective-backend/internal/store"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'probe-destination')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PE Collective cronjob runner...", "log_level", cfg.Log.Level)

	sheets, closeStore, err := store.Open(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open destination store", "error", err)
		log.Fatalf("Failed to open destination store: %v", err)
	}
	defer closeStore()

	relay := service.NewRelayService(service.RelayConfig{
		ServiceName: cfg.Relay.ServiceName,
		SheetName:   cfg.Relay.SheetName,
		Location:    cfg.Location(),
	}, sheets)
	jobRunner := jobs.NewJobRunner(relay, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		known, err := jobRunner.RunOnce(*runOnce)
		if !known {
			logger.Error("Unknown job name", "job", *runOnce)
			fmt.Printf("Available jobs:\n")
			fmt.Printf("  - probe-destination\n")
			os.Exit(1)
		}
		if err != nil {
			closeStore()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
