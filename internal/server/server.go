package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/handler"
	"github.com/MKhiriev/go-natours/internal/logger"
)

const defaultShutdownTimeout = 10 * time.Second

type server struct {
	httpServer      *httpServer
	workers         Runner
	shutdownTimeout time.Duration
	listen          func(network, address string) (net.Listener, error)
	logger          *logger.Logger
}

// NewServer builds the HTTP server around handlers. workers may be nil.
func NewServer(handlers *handler.Handlers, workers Runner, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &server{
		httpServer:      newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		workers:         workers,
		shutdownTimeout: timeout,
		listen:          net.Listen,
		logger:          logger,
	}, nil
}

func (s *server) RunServer(ctx context.Context) error {
	l, err := s.listen("tcp", s.httpServer.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.server.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.httpServer.serve(l)
	})

	if s.workers != nil {
		g.Go(func() error {
			s.logger.Info().Msg("launching background workers")
			s.workers.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil {
		return err
	}

	s.logger.Info().Msg("server shutdown gracefully")
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	err := s.httpServer.shutdown(ctx)
	if errors.Is(err, errShutdownTimedOut) {
		s.logger.Warn().Dur("timeout", s.shutdownTimeout).Msg("connections were closed forcefully")
	}
	return err
}
