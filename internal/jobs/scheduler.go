package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gridfall/internal/lease"
)

// Scheduler runs every catalog job on its own ticker. Each tick is one
// lease-guarded invocation attempt; contention skips are normal and a failed
// body waits for the next cadence rather than retrying.
type Scheduler struct {
	runner *lease.Runner
	log    *slog.Logger
	jobs   []Job
}

func NewScheduler(runner *lease.Runner, logger *slog.Logger, catalog []Job) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{runner: runner, log: logger, jobs: catalog}
}

// Run blocks until ctx is done. Every job is attempted once right away, so
// a fresh worker does not sit out a full cadence before its first pass.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			s.loop(ctx, j)
		}(job)
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	if ctx.Err() != nil {
		return
	}
	s.attempt(ctx, j)

	ticker := time.NewTicker(j.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.attempt(ctx, j)
		}
	}
}

func (s *Scheduler) attempt(ctx context.Context, j Job) {
	if err := s.runner.RunGuarded(ctx, j.Key, j.TTL, j.Run); err != nil {
		s.log.Error("job tick failed", "job", j.Key, "err", err)
	}
}

// RunOnce attempts every job a single time, in catalog order. Backs the
// run-once worker mode.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, j := range s.jobs {
		s.attempt(ctx, j)
	}
}
