package timectrl

import (
	"context"
	"time"

	"github.com/signalsfoundry/maritime-simulator/internal/logging"
)

// Default cadence: one tick every five minutes, one minute of cooldown
// after a failed tick.
const (
	DefaultInterval = 300 * time.Second
	DefaultCooldown = 60 * time.Second
)

// TickFunc runs one full simulation update. now is the tick timestamp and
// interval the wall-clock span the tick represents.
type TickFunc func(ctx context.Context, now time.Time, interval time.Duration) error

// Scheduler drives the simulation at a fixed cadence. A failing tick is
// logged and retried after the cooldown; it never propagates. The scheduler
// stops between ticks when its context is cancelled, so an in-flight tick
// is never interrupted mid-mutation.
type Scheduler struct {
	interval time.Duration
	cooldown time.Duration
	tick     TickFunc
	log      logging.Logger

	// observe, when set, receives the duration and outcome of every tick.
	observe func(d time.Duration, err error)
}

// Option customises Scheduler construction.
type Option func(*Scheduler)

// WithTickObserver registers a callback invoked after every tick with its
// duration and outcome; used to feed the engine's self-metrics.
func WithTickObserver(fn func(d time.Duration, err error)) Option {
	return func(s *Scheduler) { s.observe = fn }
}

// NewScheduler constructs a scheduler. Non-positive durations fall back to
// the defaults; a nil logger is replaced with a no-op.
func NewScheduler(interval, cooldown time.Duration, tick TickFunc, log logging.Logger, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if log == nil {
		log = logging.Noop()
	}
	s := &Scheduler{
		interval: interval,
		cooldown: cooldown,
		tick:     tick,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ticks immediately, then on every interval until ctx is cancelled.
// After a failed tick the next attempt waits the cooldown instead of the
// full interval.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		began := time.Now()
		err := s.tick(ctx, time.Now().UTC(), s.interval)
		if s.observe != nil {
			s.observe(time.Since(began), err)
		}

		wait := s.interval
		if err != nil {
			s.log.Error(ctx, "simulation tick failed",
				logging.Err(err),
				logging.String("cooldown", s.cooldown.String()),
			)
			wait = s.cooldown
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info(ctx, "scheduler stopped")
			return
		case <-timer.C:
		}
	}
}
