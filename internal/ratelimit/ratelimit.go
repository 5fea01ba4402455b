// Package ratelimit throttles row emission in the CLI's dump command so a
// batch export can't saturate shared I/O, mirroring the rate.Limiter
// pattern used to throttle replication flow writes.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// RowLimiter paces row-at-a-time emission to a maximum rate. A
// non-positive rate means unlimited.
type RowLimiter struct {
	limiter *rate.Limiter
}

// New creates a RowLimiter. rowsPerSecond <= 0 disables throttling.
func New(rowsPerSecond float64) *RowLimiter {
	if rowsPerSecond <= 0 {
		return &RowLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	burst := int(rowsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &RowLimiter{limiter: rate.NewLimiter(rate.Limit(rowsPerSecond), burst)}
}

// Wait blocks until one row's worth of quota is available, or ctx is
// done.
func (l *RowLimiter) Wait(ctx context.Context) error {
	if l.limiter.Limit() == rate.Inf {
		return nil
	}
	return l.limiter.Wait(ctx)
}
