package lease

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAcquireMutualExclusion(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, nil)
	ctx := context.Background()

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	var granted int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := m.Acquire(ctx, "decay", time.Minute)
			if err != nil {
				t.Errorf("acquire failed: %v", err)
				return
			}
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if granted != 1 {
		t.Fatalf("expected exactly one holder, got %d", granted)
	}
}

func TestReleaseWithStaleTokenIsNoop(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, nil)
	ctx := context.Background()

	token, ok, err := m.Acquire(ctx, "cascade", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	m.Release(ctx, "cascade", "not-the-token")

	// Lease must still be held.
	if _, ok, _ := m.Acquire(ctx, "cascade", time.Minute); ok {
		t.Fatal("stale-token release freed the lease")
	}

	m.Release(ctx, "cascade", token)
	if _, ok, _ := m.Acquire(ctx, "cascade", time.Minute); !ok {
		t.Fatal("matching-token release did not free the lease")
	}
}

func TestAcquireAfterExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.SetClock(func() time.Time { return now })
	m := NewManager(store, nil)
	ctx := context.Background()

	if _, ok, _ := m.Acquire(ctx, "topology", 30*time.Second); !ok {
		t.Fatal("first acquire refused")
	}
	if _, ok, _ := m.Acquire(ctx, "topology", 30*time.Second); ok {
		t.Fatal("second acquire should contend")
	}

	now = now.Add(31 * time.Second)
	if _, ok, _ := m.Acquire(ctx, "topology", 30*time.Second); !ok {
		t.Fatal("acquire after expiry refused")
	}
}

type failingStore struct{}

func (failingStore) SetIfAbsent(context.Context, string, string, time.Duration) (bool, error) {
	return false, errors.New("store unreachable")
}

func (failingStore) DeleteIfMatch(context.Context, string, string) (bool, error) {
	return false, errors.New("store unreachable")
}

func TestAcquireFailsClosed(t *testing.T) {
	m := NewManager(failingStore{}, nil)
	_, ok, err := m.Acquire(context.Background(), "decay", time.Minute)
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if ok {
		t.Fatal("store failure must not report acquisition")
	}
}
