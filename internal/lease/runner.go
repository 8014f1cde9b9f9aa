package lease

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Runner wraps a job body with lease acquisition. A tick that loses the
// lease race is skipped silently; a tick whose body fails is not retried
// until the next scheduled cadence.
type Runner struct {
	leases *Manager
	log    *slog.Logger
}

func NewRunner(leases *Manager, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{leases: leases, log: logger}
}

// RunGuarded runs body under the named lease. Release is attempted exactly
// once on every exit path, including panics and context cancellation.
func (r *Runner) RunGuarded(ctx context.Context, key string, ttl time.Duration, body func(context.Context) error) (err error) {
	token, ok, err := r.leases.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}
	if !ok {
		r.log.Debug("lease held elsewhere, skipping tick", "job", key)
		return nil
	}
	defer func() {
		// Release even when ctx is already cancelled.
		r.leases.Release(context.WithoutCancel(ctx), key, token)
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job %s panicked: %v", key, rec)
		}
	}()
	return body(ctx)
}
