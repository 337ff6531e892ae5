package jobs

import (
	"testing"

	"pe-collective-backend/internal/config"
	"pe-collective-backend/internal/repository"
	"pe-collective-backend/internal/repository/memory"
	"pe-collective-backend/internal/service"

	"github.com/stretchr/testify/assert"
)

func newRunner(sheets ...string) *JobRunner {
	cfg := &config.Config{
		Relay: config.RelayConfig{SheetName: "Members"},
		Store: config.StoreConfig{Type: config.StoreMemory},
	}
	relay := service.NewRelayService(service.RelayConfig{SheetName: "Members"}, memory.NewSheetRepository(sheets...))
	return NewJobRunner(relay, cfg)
}

func TestJobRunner_RunOnce(t *testing.T) {
	t.Run("Probe succeeds", func(t *testing.T) {
		known, err := newRunner("Members").RunOnce("probe-destination")
		assert.True(t, known)
		assert.NoError(t, err)
	})

	t.Run("Probe reports a missing sheet", func(t *testing.T) {
		known, err := newRunner().RunOnce("probe-destination")
		assert.True(t, known)
		assert.ErrorIs(t, err, repository.ErrSheetNotFound)
	})

	t.Run("Unknown job", func(t *testing.T) {
		known, err := newRunner("Members").RunOnce("mark-overdue-rentals")
		assert.False(t, known)
		assert.NoError(t, err)
	})
}

func TestJobRunner_ProbeDestinationNeverPanics(t *testing.T) {
	assert.NotPanics(t, newRunner().ProbeDestination)
}
