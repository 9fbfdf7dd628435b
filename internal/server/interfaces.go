package server

import "context"

// Server defines the lifecycle contract of the application server.
type Server interface {
	// RunServer serves requests until ctx is cancelled or serving fails, then
	// shuts down. It returns the first error that stopped it.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops serving within the deadline of ctx.
	Shutdown(ctx context.Context) error
}

// Runner is a background job that stops when its context is cancelled.
type Runner interface {
	Run(ctx context.Context)
}
