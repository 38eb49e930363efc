package checkin

import (
	"context"
	"log/slog"
	"time"
)

type sweeper interface {
	PerformAutoCheckOut(ctx context.Context) (SweepResult, error)
}

// Scheduler runs the automatic check-out on a fixed interval until its
// context is cancelled.
type Scheduler struct {
	service  sweeper
	interval time.Duration
	log      *slog.Logger
}

func NewScheduler(service sweeper, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{service: service, interval: interval, log: log}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("auto check-out scheduler started", "interval", s.interval)
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("auto check-out scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.service.PerformAutoCheckOut(ctx); err != nil {
		s.log.Error("automatic check-out failed", "error", err)
	}
}
