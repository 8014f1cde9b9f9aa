package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"gridfall/internal/lease"
)

func newTestRunner() (*lease.Runner, *lease.Manager) {
	m := lease.NewManager(lease.NewMemoryStore(), nil)
	return lease.NewRunner(m, nil), m
}

func TestRunOnceAttemptsEveryJob(t *testing.T) {
	runner, _ := newTestRunner()
	var ran []string
	catalog := []Job{
		{Key: "a", Every: time.Minute, TTL: time.Minute, Run: func(context.Context) error {
			ran = append(ran, "a")
			return nil
		}},
		{Key: "b", Every: time.Minute, TTL: time.Minute, Run: func(context.Context) error {
			ran = append(ran, "b")
			return errors.New("b failed")
		}},
		{Key: "c", Every: time.Minute, TTL: time.Minute, Run: func(context.Context) error {
			ran = append(ran, "c")
			return nil
		}},
	}

	s := NewScheduler(runner, nil, catalog)
	s.RunOnce(context.Background())

	// b's failure must not stop c from being attempted.
	if len(ran) != 3 || ran[0] != "a" || ran[1] != "b" || ran[2] != "c" {
		t.Fatalf("unexpected run order: %v", ran)
	}
}

func TestRunOnceSkipsHeldJobs(t *testing.T) {
	runner, m := newTestRunner()
	if _, ok, _ := m.Acquire(context.Background(), "a", time.Minute); !ok {
		t.Fatal("setup acquire failed")
	}

	ran := false
	catalog := []Job{
		{Key: "a", Every: time.Minute, TTL: time.Minute, Run: func(context.Context) error {
			ran = true
			return nil
		}},
	}
	NewScheduler(runner, nil, catalog).RunOnce(context.Background())
	if ran {
		t.Fatal("held job body must not run")
	}
}

func TestRunAttemptsBeforeFirstCadence(t *testing.T) {
	runner, _ := newTestRunner()
	ran := make(chan struct{}, 1)
	catalog := []Job{
		{Key: "decay", Every: time.Hour, TTL: time.Minute, Run: func(context.Context) error {
			ran <- struct{}{}
			return nil
		}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewScheduler(runner, nil, catalog).Run(ctx)
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not attempted before its first cadence elapsed")
	}
	cancel()
	<-done
}
