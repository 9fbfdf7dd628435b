// Package workers runs the periodic background jobs of the API next to the
// HTTP server.
//
// Every worker blocks in Run until its context is cancelled. The Workers
// aggregate starts them together and returns once all of them stopped.
package workers

import (
	"context"
	"time"
)

// Worker is a background job bound to the lifetime of ctx.
type Worker interface {
	Run(ctx context.Context)
}

// ResetTokenStore removes password reset tokens that expired before now.
type ResetTokenStore interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper forgets per-client state not touched for idle.
type Sweeper interface {
	Sweep(idle time.Duration) int
}
