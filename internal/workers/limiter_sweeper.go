package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-natours/internal/logger"
)

const defaultSweepInterval = 5 * time.Minute

// LimiterSweeper evicts rate limiter buckets of clients that have been idle
// for longer than idle. An evicted client starts again with a full bucket.
type LimiterSweeper struct {
	limiter  Sweeper
	interval time.Duration
	idle     time.Duration
	logger   *logger.Logger
}

func NewLimiterSweeper(limiter Sweeper, interval, idle time.Duration, log *logger.Logger) *LimiterSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if idle < interval {
		idle = interval
	}
	return &LimiterSweeper{limiter: limiter, interval: interval, idle: idle, logger: log}
}

func (s *LimiterSweeper) Run(ctx context.Context) {
	if s == nil || s.limiter == nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.limiter.Sweep(s.idle); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("idle rate limiters evicted")
			}
		}
	}
}
