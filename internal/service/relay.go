package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pe-collective-backend/internal/domain"
	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/repository"

	"github.com/google/uuid"
)

// RelayConfig is fixed at deployment time; changing it requires a restart
type RelayConfig struct {
	ServiceName string
	SheetName   string
	Location    *time.Location
}

type relayService struct {
	cfg      RelayConfig
	sheets   repository.SheetRepository
	notifier Notifier
	now      func() time.Time
}

// RelayOption customizes a relay service
type RelayOption func(*relayService)

// WithNotifier sends an alert after every saved registration
func WithNotifier(n Notifier) RelayOption {
	return func(s *relayService) { s.notifier = n }
}

// WithClock overrides the source of the default Date Joined
func WithClock(now func() time.Time) RelayOption {
	return func(s *relayService) { s.now = now }
}

func NewRelayService(cfg RelayConfig, sheets repository.SheetRepository, opts ...RelayOption) RelayService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	s := &relayService{
		cfg:    cfg,
		sheets: sheets,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *relayService) Submit(ctx context.Context, rawBody []byte) (env domain.Envelope) {
	submissionID := uuid.NewString()
	log := logger.WithSubmission(submissionID)
	logger.EnterMethod("relayService.Submit", "submission_id", submissionID, "bytes", len(rawBody))

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unexpected failure: %v", r)
			logger.ExitMethodWithError("relayService.Submit", err, "submission_id", submissionID)
			env = domain.ErrorEnvelope(err)
		}
	}()

	sub, row, err := s.save(ctx, rawBody)
	if err != nil {
		logger.ExitMethodWithError("relayService.Submit", err, "submission_id", submissionID)
		return domain.ErrorEnvelope(err)
	}
	log.Info("Registration saved", "sheet", s.cfg.SheetName)

	s.notify(ctx, log, sub, row)

	logger.ExitMethod("relayService.Submit", "submission_id", submissionID)
	return domain.SuccessEnvelope()
}

// save runs parse, locate, build and append. No row is written unless every
// earlier step succeeded.
func (s *relayService) save(ctx context.Context, rawBody []byte) (*domain.Submission, []string, error) {
	sub, err := domain.ParseSubmission(rawBody)
	if err != nil {
		return nil, nil, err
	}

	if err := s.Probe(ctx); err != nil {
		return nil, nil, err
	}

	row := sub.Row(s.now().In(s.cfg.Location))
	if err := s.sheets.AppendRow(ctx, s.cfg.SheetName, row); err != nil {
		return nil, nil, err
	}
	return sub, row, nil
}

// notify is best-effort; the row is already saved when it runs
func (s *relayService) notify(ctx context.Context, log *slog.Logger, sub *domain.Submission, row []string) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("Registration notification failed", "error", fmt.Sprint(r))
		}
	}()
	if err := s.notifier.NotifyRegistration(ctx, sub, row); err != nil {
		log.Warn("Registration notification failed", "error", err)
	}
}

func (s *relayService) Probe(ctx context.Context) error {
	exists, err := s.sheets.SheetExists(ctx, s.cfg.SheetName)
	if err != nil {
		return err
	}
	if !exists {
		return repository.SheetNotFound(s.cfg.SheetName)
	}
	return nil
}

func (s *relayService) Liveness() domain.Envelope {
	return domain.LivenessEnvelope(s.cfg.ServiceName)
}
