package scheduler

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// TickFunc runs one polling cycle.
type TickFunc func(ctx context.Context) error

// Options tune scheduler behaviour.
type Options struct {
	Interval     time.Duration
	Jitter       time.Duration
	StartupDelay time.Duration
}

// Scheduler drives the polling loop: one cycle runs to completion, then
// the loop sleeps the configured interval plus a bounded uniform jitter.
// Cycles never overlap.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Interval <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Run blocks, invoking tick until ctx is cancelled. Tick errors are
// logged; the loop continues.
func (s *Scheduler) Run(ctx context.Context, tick TickFunc) error {
	if s.opts.StartupDelay > 0 {
		if err := wait(ctx, s.opts.StartupDelay); err != nil {
			return err
		}
	}

	for {
		s.logger.Info().Msg("executing scheduled cycle")
		if err := tick(ctx); err != nil {
			s.logger.Error().Err(err).Msg("cycle failed")
		}

		delay := s.opts.Interval
		if s.opts.Jitter > 0 {
			delay += time.Duration(rand.Int63n(int64(s.opts.Jitter)))
		}
		s.logger.Debug().Dur("delay", delay).Msg("sleeping until next cycle")

		if err := wait(ctx, delay); err != nil {
			return err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
