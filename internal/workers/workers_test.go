// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-natours/internal/logger"
)

type countingWorker struct {
	runs atomic.Int32
}

func (w *countingWorker) Run(ctx context.Context) {
	w.runs.Add(1)
	<-ctx.Done()
}

func TestWorkers_Run_StartsAllAndWaits(t *testing.T) {
	w1, w2, w3 := &countingWorker{}, &countingWorker{}, &countingWorker{}
	ws := NewWorkers(w1, w2, w3)
	require.Equal(t, 3, ws.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ws.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return w1.runs.Load() == 1 && w2.runs.Load() == 1 && w3.runs.Load() == 1
	}, time.Second, time.Millisecond)

	select {
	case <-done:
		t.Fatal("Run returned before the context was cancelled")
	default:
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NotPanics(t, func() { NewWorkers().Run(ctx) })
	assert.NotPanics(t, func() { (&Workers{}).Run(ctx) })
}

type fakeResetTokenStore struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
	n     int64
}

func (s *fakeResetTokenStore) ClearExpiredResetTokens(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, now)
	return s.n, s.err
}

func (s *fakeResetTokenStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestResetTokenReaper_Run(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeResetTokenStore{n: 2}
	reaper := NewResetTokenReaper(store, 5*time.Millisecond, logger.Nop())
	reaper.now = func() time.Time { return fixed }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reaper.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.count() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, fixed, store.calls[0], "reaper passes its clock to the store")
}

func TestResetTokenReaper_KeepsRunningOnError(t *testing.T) {
	store := &fakeResetTokenStore{err: errors.New("connection reset")}
	reaper := NewResetTokenReaper(store, 2*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reaper.Run(ctx)

	assert.Eventually(t, func() bool { return store.count() >= 2 }, time.Second, time.Millisecond)
}

func TestNewResetTokenReaper_DefaultInterval(t *testing.T) {
	reaper := NewResetTokenReaper(&fakeResetTokenStore{}, 0, logger.Nop())
	assert.Equal(t, defaultReapInterval, reaper.interval)
}

type fakeSweeper struct {
	idle  atomic.Int64
	calls atomic.Int32
}

func (s *fakeSweeper) Sweep(idle time.Duration) int {
	s.idle.Store(int64(idle))
	s.calls.Add(1)
	return 1
}

func TestLimiterSweeper_Run(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewLimiterSweeper(sweeper, 2*time.Millisecond, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, int64(time.Hour), sweeper.idle.Load())
}

func TestNewLimiterSweeper_Defaults(t *testing.T) {
	w := NewLimiterSweeper(&fakeSweeper{}, 0, time.Second, logger.Nop())

	assert.Equal(t, defaultSweepInterval, w.interval)
	assert.Equal(t, defaultSweepInterval, w.idle, "idle is never shorter than the interval")
}

func TestNilWorkersReturn(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() { (*ResetTokenReaper)(nil).Run(ctx) })
	assert.NotPanics(t, func() { NewLimiterSweeper(nil, time.Millisecond, time.Millisecond, logger.Nop()).Run(ctx) })
}
