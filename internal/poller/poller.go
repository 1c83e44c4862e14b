// Package poller drives the fetcher on a fixed cadence.
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	DefaultInterval     = 60 * time.Second
	DefaultTick         = time.Second
	DefaultCycleTimeout = 45 * time.Second
	DefaultRetryBase    = 5 * time.Second
)

// Runner executes one cycle.
type Runner interface {
	UpdateData(ctx context.Context) error
}

// Config controls the cadence.
type Config struct {
	// Interval is the minimum gap between the starts of two successful cycles.
	Interval time.Duration
	// Tick is how often the loop wakes up to check whether a cycle is due.
	Tick time.Duration
	// CycleTimeout bounds a single cycle.
	CycleTimeout time.Duration
	// RetryBase is the first delay after a failed cycle. Later failures back
	// off exponentially up to Interval.
	RetryBase time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Tick <= 0 {
		c.Tick = DefaultTick
	}
	if c.CycleTimeout <= 0 {
		c.CycleTimeout = DefaultCycleTimeout
	}
	if c.RetryBase <= 0 {
		c.RetryBase = DefaultRetryBase
	}
	if c.RetryBase > c.Interval {
		c.RetryBase = c.Interval
	}
	return c
}

// Poller runs cycles one at a time. It is not safe for concurrent Run calls.
type Poller struct {
	runner Runner
	cfg    Config
	retry  *backoff.ExponentialBackOff

	lastSuccess time.Time // start of the last successful cycle
	retryAt     time.Time // set while recovering from a failure
}

// New builds a poller around runner.
func New(runner Runner, cfg Config) *Poller {
	cfg = cfg.withDefaults()
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = cfg.RetryBase
	retry.MaxInterval = cfg.Interval
	retry.RandomizationFactor = 0
	retry.MaxElapsedTime = 0
	retry.Reset()
	return &Poller{runner: runner, cfg: cfg, retry: retry}
}

// Run blocks until ctx is cancelled. The first cycle starts on the first tick.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Tick)
	defer ticker.Stop()

	logx.WithContext(ctx).Infow("poller: started",
		logx.Field("interval", p.cfg.Interval.String()),
		logx.Field("tick", p.cfg.Tick.String()),
		logx.Field("cycle_timeout", p.cfg.CycleTimeout.String()))

	for {
		select {
		case <-ctx.Done():
			logx.WithContext(ctx).Info("poller: stopping")
			return nil
		case now := <-ticker.C:
			p.tick(ctx, now)
		}
	}
}

// due reports whether a cycle should start at now.
func (p *Poller) due(now time.Time) bool {
	if !p.retryAt.IsZero() {
		return !now.Before(p.retryAt)
	}
	if p.lastSuccess.IsZero() {
		return true
	}
	return now.Sub(p.lastSuccess) >= p.cfg.Interval
}

// tick runs a cycle if one is due and reports whether it did.
func (p *Poller) tick(ctx context.Context, now time.Time) bool {
	if ctx.Err() != nil || !p.due(now) {
		return false
	}

	cycleCtx, cancel := context.WithTimeout(ctx, p.cfg.CycleTimeout)
	err := p.runner.UpdateData(cycleCtx)
	cancel()

	if err == nil {
		p.lastSuccess = now
		p.retryAt = time.Time{}
		p.retry.Reset()
		return true
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return true
	}

	wait := p.retry.NextBackOff()
	if wait == backoff.Stop || wait > p.cfg.Interval {
		wait = p.cfg.Interval
	}
	p.retryAt = now.Add(wait)
	logx.WithContext(ctx).Errorw("poller: cycle failed",
		logx.Field("error", err.Error()),
		logx.Field("retry_in", wait.String()))
	return true
}
