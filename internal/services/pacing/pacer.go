// Package pacing spaces successive calls to an external provider.
package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Bounds of the inter-call delay
const (
	MinInterval     = 300 * time.Millisecond
	MaxInterval     = 500 * time.Millisecond
	DefaultInterval = 400 * time.Millisecond
)

// Pacer is a single-token bucket: the first call proceeds at once and every
// later call waits until interval has passed since the previous one. One
// Pacer belongs to one analysis run.
type Pacer struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// New creates a pacer. Intervals outside [MinInterval, MaxInterval] use
// DefaultInterval; zero disables pacing.
func New(interval time.Duration) *Pacer {
	if interval == 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	if interval < MinInterval || interval > MaxInterval {
		interval = DefaultInterval
	}
	return &Pacer{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Interval returns the effective delay between calls
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks until the next call may start
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Do waits for a slot and then runs fn
func (p *Pacer) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := p.Wait(ctx); err != nil {
		return err
	}
	return fn(ctx)
}
