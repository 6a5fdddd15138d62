package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/scheduler"
	"github.com/ianisnotreal/crypto-tracker-cli/internal/service"
)

// DaemonOptions configure the polling loop.
type DaemonOptions struct {
	Fiat     string
	Interval time.Duration
	Jitter   time.Duration
}

// Daemon runs the polling loop until interrupted.
func (a *App) Daemon(ctx context.Context, opts DaemonOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	interval := opts.Interval
	if interval <= 0 {
		interval = a.Config.UpdateInterval()
	}
	jitter := opts.Jitter
	if jitter < 0 {
		jitter = a.Config.Jitter()
	}

	store := a.newStore()
	svc := a.newService(store, a.resolveFiat(opts.Fiat))

	sched := scheduler.New(scheduler.Options{
		Interval: interval,
		Jitter:   jitter,
	}, a.Logger)

	a.Logger.Info().
		Dur("interval", interval).
		Dur("jitter", jitter).
		Str("data_dir", store.Dir()).
		Msg("starting tracking daemon")

	err := sched.Run(ctx, func(ctx context.Context) error {
		_, cycleErr := svc.RunCycle(ctx)
		if errors.Is(cycleErr, service.ErrNoPositions) {
			a.Logger.Warn().Msg("portfolio empty; nothing to track this cycle")
			return nil
		}
		return cycleErr
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.Logger.Info().Msg("tracking daemon stopped")
	return nil
}
