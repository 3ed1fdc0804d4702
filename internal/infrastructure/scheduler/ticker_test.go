package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerRunsJobUntilStopped(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	tick := NewTicker(5 * time.Millisecond)

	require.NoError(t, tick.Start(context.Background(), func(time.Time) { calls.Add(1) }))
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

	require.NoError(t, tick.Stop(context.Background()))
	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())

	assert.NoError(t, tick.Stop(context.Background()), "second stop is a no-op")
}

func TestTickerStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	tick := NewTicker(5 * time.Millisecond)

	require.NoError(t, tick.Start(ctx, func(time.Time) { calls.Add(1) }))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()

	require.NoError(t, tick.Stop(context.Background()))
}

func TestTickerIgnoresInvalidSetup(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewTicker(0).Start(context.Background(), func(time.Time) {}))
	assert.NoError(t, NewTicker(time.Second).Start(context.Background(), nil))
	assert.NoError(t, NewTicker(time.Second).Stop(context.Background()))
}
