// Package jobs wires the simulation engines into lease-guarded periodic
// work and drives them on their wall-clock cadences.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"gridfall/internal/sim"
)

// Job is one entry of the catalog: a lease key, its cadence, the lease TTL,
// and the idempotent body. TTLs sit well above expected runtime so a slow
// query does not hand the lease to a second worker mid-flight.
type Job struct {
	Key   string
	Every time.Duration
	TTL   time.Duration
	Run   func(ctx context.Context) error
}

// Catalog builds the full job set for one worker process.
func Catalog(svc *sim.Service, logger *slog.Logger) []Job {
	if logger == nil {
		logger = slog.Default()
	}
	return []Job{
		{
			Key:   "decay",
			Every: time.Hour,
			TTL:   10 * time.Minute,
			Run: func(ctx context.Context) error {
				n, err := svc.ApplyDecayTick(ctx)
				if err != nil {
					return err
				}
				logger.Info("decay tick complete", "systems_degraded", n)
				return nil
			},
		},
		{
			Key:   "cascade",
			Every: 10 * time.Minute,
			TTL:   5 * time.Minute,
			Run: func(ctx context.Context) error {
				n, err := svc.ApplyCascadeTick(ctx)
				if err != nil {
					return err
				}
				logger.Info("cascade tick complete", "systems_hit", n)
				return nil
			},
		},
		{
			Key:   "death-check",
			Every: 5 * time.Minute,
			TTL:   4 * time.Minute,
			Run: func(ctx context.Context) error {
				results, err := svc.EvaluateDeaths(ctx)
				if err != nil {
					return err
				}
				died, failed := 0, 0
				for _, r := range results {
					if r.Err != nil {
						failed++
					} else {
						died++
					}
				}
				logger.Info("death check complete", "executed", died, "failed", failed)
				return nil
			},
		},
		{
			Key:   "daily-glitch",
			Every: 15 * time.Minute,
			TTL:   5 * time.Minute,
			Run: func(ctx context.Context) error {
				glitch, err := svc.TodayGlitch(ctx)
				if err != nil {
					return err
				}
				logger.Info("daily glitch active", "glitch_id", glitch.GlitchID)
				return nil
			},
		},
		{
			Key:   "heat-decay",
			Every: time.Hour,
			TTL:   10 * time.Minute,
			Run: func(ctx context.Context) error {
				n, err := svc.ApplyHeatDecayTick(ctx)
				if err != nil {
					return err
				}
				logger.Info("heat decay complete", "players_cooled", n)
				return nil
			},
		},
		{
			Key:   "season-check",
			Every: time.Hour,
			TTL:   10 * time.Minute,
			Run:   svc.CheckSeasonEnd,
		},
		{
			Key:   "topology",
			Every: 6 * time.Hour,
			TTL:   30 * time.Minute,
			Run: func(ctx context.Context) error {
				created, err := svc.RotateTopology(ctx)
				if err != nil {
					return err
				}
				if created {
					logger.Info("weekly topology regenerated")
				}
				return nil
			},
		},
		{
			Key:   "ripples",
			Every: 30 * time.Minute,
			TTL:   10 * time.Minute,
			Run: func(ctx context.Context) error {
				expired, err := svc.ExpireRipples(ctx)
				if err != nil {
					return err
				}
				created, err := svc.GenerateRipples(ctx)
				if err != nil {
					return err
				}
				logger.Info("ripple tick complete", "created", created, "expired", expired)
				return nil
			},
		},
	}
}
