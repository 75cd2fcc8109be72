package timectrl

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/signalsfoundry/maritime-simulator/internal/logging"
)

func TestSchedulerTicksOnInterval(t *testing.T) {
	var ticks atomic.Int64
	s := NewScheduler(10*time.Millisecond, 5*time.Millisecond,
		func(ctx context.Context, now time.Time, interval time.Duration) error {
			ticks.Add(1)
			return nil
		}, logging.Noop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if got := ticks.Load(); got < 3 {
		t.Fatalf("ticks = %d, want at least 3 in 100ms at a 10ms interval", got)
	}
}

func TestSchedulerStopsBetweenTicks(t *testing.T) {
	var ticks atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())

	s := NewScheduler(time.Hour, time.Hour,
		func(context.Context, time.Time, time.Duration) error {
			ticks.Add(1)
			cancel() // stop after the first tick completes
			return nil
		}, logging.Noop())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	if got := ticks.Load(); got != 1 {
		t.Fatalf("ticks = %d, want exactly 1", got)
	}
}

func TestSchedulerCoolsDownAfterFailure(t *testing.T) {
	var calls atomic.Int64
	boom := errors.New("boom")

	s := NewScheduler(time.Hour, 10*time.Millisecond,
		func(context.Context, time.Time, time.Duration) error {
			calls.Add(1)
			return boom
		}, logging.Noop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	// With the interval at an hour, only the cooldown path can produce
	// repeat attempts.
	if got := calls.Load(); got < 3 {
		t.Fatalf("attempts = %d, want at least 3 via cooldown retries", got)
	}
}

func TestSchedulerObserverSeesOutcomes(t *testing.T) {
	var okTicks, failedTicks atomic.Int64
	fail := true

	s := NewScheduler(5*time.Millisecond, 5*time.Millisecond,
		func(context.Context, time.Time, time.Duration) error {
			if fail {
				fail = false
				return errors.New("transient")
			}
			return nil
		}, logging.Noop(),
		WithTickObserver(func(d time.Duration, err error) {
			if err != nil {
				failedTicks.Add(1)
			} else {
				okTicks.Add(1)
			}
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if failedTicks.Load() != 1 {
		t.Fatalf("observed failures = %d, want 1", failedTicks.Load())
	}
	if okTicks.Load() == 0 {
		t.Fatal("observer saw no successful ticks")
	}
}

func TestSchedulerDefaults(t *testing.T) {
	s := NewScheduler(0, 0, func(context.Context, time.Time, time.Duration) error { return nil }, nil)
	if s.interval != DefaultInterval {
		t.Fatalf("interval = %v, want %v", s.interval, DefaultInterval)
	}
	if s.cooldown != DefaultCooldown {
		t.Fatalf("cooldown = %v, want %v", s.cooldown, DefaultCooldown)
	}
}
