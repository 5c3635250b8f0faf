package ingest

import (
	"context"
	"log"
	"time"
)

// Scheduler re-runs the loader on a fixed interval, the way the source
// feed re-polls its files.
type Scheduler struct {
	loader   *Loader
	interval time.Duration
	logger   *log.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(loader *Loader, interval time.Duration, logger *log.Logger) *Scheduler {
	return &Scheduler{loader: loader, interval: interval, logger: logger}
}

// Start begins the scheduler loop. It runs the loader once immediately and
// then on every tick until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.loader == nil || s.interval <= 0 {
		return
	}
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.loader.Run(ctx); err != nil && s.logger != nil {
		s.logger.Printf("ingest run error: %v", err)
	}
}
