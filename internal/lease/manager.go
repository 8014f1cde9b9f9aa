package lease

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const keyPrefix = "lock:"

// Manager acquires and releases named leases. Leases are not heartbeated:
// a body that outlives its TTL may briefly run concurrently with the next
// holder, so job bodies must stay idempotent under that bound.
type Manager struct {
	store Store
	log   *slog.Logger
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, log: logger}
}

// Acquire attempts to take the lease for key. On contention it returns
// ok=false with no error. A store failure is returned as an error and must
// be treated as "not acquired" by the caller.
func (m *Manager) Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = m.store.SetIfAbsent(ctx, keyPrefix+key, token, ttl)
	if err != nil {
		return "", false, fmt.Errorf("acquire lease %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lease only if token still matches the stored value, so a
// holder whose lease already expired cannot release a successor's lease.
func (m *Manager) Release(ctx context.Context, key, token string) {
	ok, err := m.store.DeleteIfMatch(ctx, keyPrefix+key, token)
	if err != nil {
		m.log.Error("lease release failed", "key", key, "err", err)
		return
	}
	if !ok {
		m.log.Debug("lease already expired or stolen", "key", key)
	}
}
