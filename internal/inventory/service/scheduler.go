package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gemflow/gemflow-backend/pkg/actor"
	"github.com/gemflow/gemflow-backend/pkg/logger"
	"github.com/gemflow/gemflow-backend/pkg/messaging"
)

// AlertScheduler runs alert scans periodically in a background goroutine.
type AlertScheduler struct {
	scanner  *AlertScanner
	interval time.Duration
	logger   *logger.Logger
	cancel   context.CancelFunc
}

// NewAlertScheduler creates a new alert scheduler
func NewAlertScheduler(scanner *AlertScanner, interval time.Duration, log *logger.Logger) *AlertScheduler {
	return &AlertScheduler{
		scanner:  scanner,
		interval: interval,
		logger:   log.WithComponent("alert-scheduler"),
	}
}

// Start starts the scheduler in a background goroutine.
// An initial scan runs immediately, then on every tick.
func (s *AlertScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	// Scans run with full read access regardless of who started the process.
	ctx = actor.WithActor(ctx, actor.SystemActor())

	go func() {
		s.logger.Info().Dur("interval", s.interval).Msg("alert scheduler started")

		s.runScanCycle(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("alert scheduler stopped")
				return
			case <-ticker.C:
				s.runScanCycle(ctx)
			}
		}
	}()
}

// Stop stops the scheduler goroutine
func (s *AlertScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *AlertScheduler) runScanCycle(ctx context.Context) {
	start := time.Now()

	// All events published from one cycle share a correlation id.
	ctx = messaging.WithCorrelationID(ctx, uuid.New().String())

	if err := s.scanner.Scan(ctx); err != nil {
		s.logger.Error().Err(err).Msg("alert scan cycle failed")
		return
	}

	s.logger.Info().Dur("duration", time.Since(start)).Msg("alert scan cycle completed")
}
