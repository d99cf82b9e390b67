package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn_reader/internal/domain"
	"hn_reader/internal/service"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &domain.RefreshStats{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	refresher := &countingRefresher{}
	sched := NewScheduler(refresher, 10*time.Millisecond, time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	require.Eventually(t, func() bool { return refresher.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_KeepsRunningAfterFailure(t *testing.T) {
	refresher := &countingRefresher{err: errors.Join(service.ErrListFailed, errors.New("503"))}
	sched := NewScheduler(refresher, 5*time.Millisecond, 0, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sched.Start(ctx) }()

	require.Eventually(t, func() bool { return refresher.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_StopsWhenCanceledBeforeStart(t *testing.T) {
	refresher := &countingRefresher{}
	sched := NewScheduler(refresher, time.Hour, time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sched.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), refresher.calls.Load())
}
