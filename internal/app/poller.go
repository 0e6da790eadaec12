package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// Refresher reloads remote state. *controller.Controller satisfies it.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// StartPoller refreshes r every interval until ctx is cancelled. After
// consecutive failures the wait doubles up to maxBackoff. It returns
// immediately; a non-positive interval starts nothing.
func StartPoller(ctx context.Context, r Refresher, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("poller")

	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if ctx.Err() != nil {
				return
			}

			if err := r.RefreshAll(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				wait := calculateBackoff(failures, interval)
				log.Warn("auto-refresh failed", zap.Int("failures", failures), zap.Duration("next", wait), zap.Error(err))
				timer.Reset(wait)
				continue
			}
			if failures > 0 {
				log.Info("auto-refresh recovered", zap.Int("failures", failures))
			}
			failures = 0
			timer.Reset(interval)
		}
	}()
}

// calculateBackoff doubles base once per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
