package server

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/handler"
	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/service"
)

type stubWorkers struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (w *stubWorkers) Run(ctx context.Context) {
	w.started.Store(true)
	<-ctx.Done()
	w.stopped.Store(true)
}

func newTestServer(t *testing.T, workers Runner) (*server, chan string) {
	t.Helper()

	cfg := config.StructuredConfig{
		Server: config.Server{HTTPAddress: "127.0.0.1:0", ShutdownTimeout: time.Second},
	}
	handlers, err := handler.NewHandlers(&service.Services{}, cfg, logger.Nop())
	require.NoError(t, err)

	srv, err := NewServer(handlers, workers, cfg.Server, logger.Nop())
	require.NoError(t, err)

	s := srv.(*server)
	addr := make(chan string, 1)
	s.listen = func(network, address string) (net.Listener, error) {
		l, err := net.Listen(network, address)
		if err == nil {
			addr <- l.Addr().String()
		}
		return l, err
	}
	return s, addr
}

func TestNewServer_NoHandlers(t *testing.T) {
	_, err := NewServer(nil, nil, config.Server{HTTPAddress: ":3000"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)

	_, err = NewServer(&handler.Handlers{}, nil, config.Server{HTTPAddress: ":3000"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestNewServer_DefaultShutdownTimeout(t *testing.T) {
	cfg := config.StructuredConfig{Server: config.Server{HTTPAddress: ":3000"}}
	handlers, err := handler.NewHandlers(&service.Services{}, cfg, logger.Nop())
	require.NoError(t, err)

	srv, err := NewServer(handlers, nil, cfg.Server, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, defaultShutdownTimeout, srv.(*server).shutdownTimeout)
}

func TestServer_RunAndShutdown(t *testing.T) {
	workers := &stubWorkers{}
	s, addr := newTestServer(t, workers)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.RunServer(ctx) }()

	var base string
	select {
	case base = <-addr:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start listening")
	}

	resp, err := resty.New().SetBaseURL("http://" + base).R().Get("/api/v1/unknown")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Eventually(t, workers.started.Load, time.Second, time.Millisecond)

	cancel()

	select {
	case err = <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
	assert.True(t, workers.stopped.Load())

	_, err = resty.New().SetTimeout(200*time.Millisecond).R().Get("http://" + base + "/api/v1/unknown")
	assert.Error(t, err, "listener is closed after shutdown")
}

func TestServer_ListenFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := config.StructuredConfig{Server: config.Server{HTTPAddress: busy.Addr().String()}}
	handlers, err := handler.NewHandlers(&service.Services{}, cfg, logger.Nop())
	require.NoError(t, err)
	srv, err := NewServer(handlers, nil, cfg.Server, logger.Nop())
	require.NoError(t, err)

	assert.Error(t, srv.RunServer(context.Background()))
}
