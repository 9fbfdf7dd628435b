package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-natours/internal/logger"
)

const defaultReapInterval = 10 * time.Minute

// ResetTokenReaper periodically clears password reset tokens past their
// expiry. The first pass runs as soon as Run is called.
type ResetTokenReaper struct {
	store    ResetTokenStore
	interval time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

func NewResetTokenReaper(store ResetTokenStore, interval time.Duration, log *logger.Logger) *ResetTokenReaper {
	if interval <= 0 {
		interval = defaultReapInterval
	}
	return &ResetTokenReaper{store: store, interval: interval, now: time.Now, logger: log}
}

func (r *ResetTokenReaper) Run(ctx context.Context) {
	if r == nil || r.store == nil {
		return
	}

	r.reap(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reap(ctx)
		}
	}
}

func (r *ResetTokenReaper) reap(ctx context.Context) {
	cleared, err := r.store.ClearExpiredResetTokens(ctx, r.now())
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Err(err).Msg("clearing expired reset tokens failed")
		}
		return
	}

	if cleared > 0 {
		r.logger.Info().Int64("cleared", cleared).Msg("expired reset tokens cleared")
	}
}
