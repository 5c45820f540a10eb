package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
)

// TokenSweeper periodically purges expired tokens from the store
type TokenSweeper struct {
	store     domainAuth.TokenStore
	clock     shared.Clock
	logger    *slog.Logger
	scheduler gocron.Scheduler
}

// NewTokenSweeper schedules a purge every interval. Call Start to begin.
func NewTokenSweeper(store domainAuth.TokenStore, interval time.Duration, clock shared.Clock, logger *slog.Logger) (*TokenSweeper, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create token sweep scheduler: %w", err)
	}

	s := &TokenSweeper{
		store:     store,
		clock:     clock,
		logger:    logger,
		scheduler: scheduler,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.Sweep() }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule token sweep: %w", err)
	}

	return s, nil
}

// Start begins running the sweep job
func (s *TokenSweeper) Start() {
	s.scheduler.Start()
}

// Stop waits for a running sweep to finish and stops the scheduler
func (s *TokenSweeper) Stop() error {
	return s.scheduler.Shutdown()
}

// Sweep purges expired tokens once and returns how many were removed
func (s *TokenSweeper) Sweep() int {
	purged := s.store.PurgeExpired(s.clock.Now())
	if purged > 0 && s.logger != nil {
		s.logger.Info("expired tokens purged",
			slog.Int(logging.FieldCount, purged),
			slog.Int("remaining", s.store.Len()),
		)
	}
	return purged
}
