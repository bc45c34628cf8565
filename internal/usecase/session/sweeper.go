package usecase_session

import (
	"context"
	"log/slog"
	"time"
)

const DefaultSweepInterval = time.Hour

// Sweeper periodically evicts expired rooms. It is best-effort housekeeping:
// an unswept idle room only wastes memory.
type Sweeper struct {
	uc       *Usecase
	interval time.Duration
	logger   *slog.Logger
}

type SweeperOption func(*Sweeper)

func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

func NewSweeper(uc *Usecase, interval time.Duration, opts ...SweeperOption) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	s := &Sweeper{
		uc:       uc,
		interval: interval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper running", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case now := <-ticker.C:
			s.uc.Sweep(now)
		}
	}
}
