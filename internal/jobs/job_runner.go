package jobs

import (
	"context"
	"time"

	"pe-collective-backend/internal/config"
	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/service"
)

// probeTimeout bounds a single destination probe
const probeTimeout = 30 * time.Second

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	relay  service.RelayService
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(relay service.RelayService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		relay:  relay,
		config: cfg,
	}
}

// Config returns the runner's configuration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// ProbeDestination checks that the relay's destination sheet still exists,
// so a renamed or deleted tab is noticed before the next signup fails.
func (jr *JobRunner) ProbeDestination() {
	jr.runWithRecovery("ProbeDestination", func() {
		jr.probe()
	})
}

func (jr *JobRunner) probe() error {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	sheet := jr.config.Relay.SheetName
	if err := jr.relay.Probe(ctx); err != nil {
		logger.Error("Destination probe failed", "sheet", sheet, "store", jr.config.Store.Type, "error", err)
		return err
	}
	logger.Info("Destination probe succeeded", "sheet", sheet, "store", jr.config.Store.Type)
	return nil
}

// RunOnce runs a job by name and reports its error; used by the cronjob binary
func (jr *JobRunner) RunOnce(name string) (bool, error) {
	switch name {
	case "probe-destination":
		return true, jr.probe()
	default:
		return false, nil
	}
}
