package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRunner struct {
	errs     []error
	calls    int
	deadline []bool
}

func (r *scriptedRunner) UpdateData(ctx context.Context) error {
	_, ok := ctx.Deadline()
	r.deadline = append(r.deadline, ok)
	var err error
	if r.calls < len(r.errs) {
		err = r.errs[r.calls]
	}
	r.calls++
	return err
}

var t0 = time.Date(2021, 5, 20, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{Interval: time.Minute, Tick: time.Second, CycleTimeout: 10 * time.Second, RetryBase: 5 * time.Second}
}

func TestFirstTickRunsCycle(t *testing.T) {
	runner := &scriptedRunner{}
	p := New(runner, testConfig())

	assert.True(t, p.tick(context.Background(), t0))
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, []bool{true}, runner.deadline, "cycle runs under a timeout")
}

func TestWaitsForIntervalAfterSuccess(t *testing.T) {
	runner := &scriptedRunner{}
	p := New(runner, testConfig())
	ctx := context.Background()

	require.True(t, p.tick(ctx, t0))
	for s := 1; s < 60; s++ {
		assert.False(t, p.tick(ctx, t0.Add(time.Duration(s)*time.Second)), "second %d", s)
	}
	assert.True(t, p.tick(ctx, t0.Add(time.Minute)))
	assert.Equal(t, 2, runner.calls)
}

func TestFailureBacksOffExponentiallyUpToInterval(t *testing.T) {
	boom := errors.New("upstream down")
	runner := &scriptedRunner{errs: []error{boom, boom, boom, boom, boom, boom}}
	p := New(runner, testConfig())
	ctx := context.Background()

	now := t0
	require.True(t, p.tick(ctx, now))

	// 5s, 7.5s, 11.25s, ... capped at the interval.
	for _, wait := range []time.Duration{5 * time.Second, 7500 * time.Millisecond, 11250 * time.Millisecond} {
		assert.False(t, p.tick(ctx, now.Add(wait-time.Millisecond)))
		now = now.Add(wait)
		require.True(t, p.tick(ctx, now))
	}

	p.retryAt = time.Time{}
	p.retry.InitialInterval = 10 * time.Minute
	p.retry.Reset()
	require.True(t, p.tick(ctx, now))
	assert.Equal(t, now.Add(time.Minute), p.retryAt, "never waits longer than the interval")
}

func TestSuccessResetsBackoff(t *testing.T) {
	boom := errors.New("upstream down")
	runner := &scriptedRunner{errs: []error{boom, boom, nil, boom}}
	p := New(runner, testConfig())
	ctx := context.Background()

	require.True(t, p.tick(ctx, t0))                             // fail, retry +5s
	require.True(t, p.tick(ctx, t0.Add(5*time.Second)))          // fail, retry +7.5s
	require.True(t, p.tick(ctx, t0.Add(12500*time.Millisecond))) // ok
	assert.True(t, p.retryAt.IsZero())

	next := t0.Add(12500 * time.Millisecond).Add(time.Minute)
	require.True(t, p.tick(ctx, next)) // fail again
	assert.Equal(t, next.Add(5*time.Second), p.retryAt)
}

type blockingRunner struct {
	running atomic.Int32
	overlap atomic.Bool
	calls   atomic.Int32
}

func (r *blockingRunner) UpdateData(ctx context.Context) error {
	if r.running.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.running.Add(-1)
	r.calls.Add(1)
	time.Sleep(15 * time.Millisecond)
	return nil
}

func TestRunNeverOverlapsCycles(t *testing.T) {
	runner := &blockingRunner{}
	p := New(runner, Config{Interval: time.Millisecond, Tick: time.Millisecond, CycleTimeout: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	require.NoError(t, p.Run(ctx))

	assert.False(t, runner.overlap.Load())
	assert.GreaterOrEqual(t, runner.calls.Load(), int32(2))
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, DefaultTick, cfg.Tick)
	assert.Equal(t, DefaultCycleTimeout, cfg.CycleTimeout)
	assert.Equal(t, DefaultRetryBase, cfg.RetryBase)

	capped := Config{Interval: time.Second, RetryBase: time.Minute}.withDefaults()
	assert.Equal(t, time.Second, capped.RetryBase)
}
