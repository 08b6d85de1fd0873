package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter provides fixed-window rate limit checks.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error)
}

// windowBounds returns the index of the window containing now and the time it resets.
func windowBounds(now time.Time, window time.Duration) (int64, time.Time) {
	if window <= 0 {
		window = time.Second
	}
	idx := now.UnixNano() / int64(window)
	reset := time.Unix(0, (idx+1)*int64(window)).UTC()
	return idx, reset
}
