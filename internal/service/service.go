package service

import (
	"context"

	"pe-collective-backend/internal/domain"
)

// RelayService turns form submissions into destination sheet rows
type RelayService interface {
	// Submit never returns an error; failures are reported in the envelope
	Submit(ctx context.Context, rawBody []byte) domain.Envelope
	Liveness() domain.Envelope
	// Probe checks that the configured destination sheet exists
	Probe(ctx context.Context) error
}

// Notifier announces a saved registration to the team
type Notifier interface {
	NotifyRegistration(ctx context.Context, sub *domain.Submission, row []string) error
}
