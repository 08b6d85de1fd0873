package ratelimit

import (
	"context"
	"sync"
	"time"
)

// memorySweepEvery controls how many checks pass between stale-entry sweeps.
const memorySweepEvery = 1024

type memoryEntry struct {
	window int64
	reset  time.Time
	count  int
}

// MemoryLimiter implements a fixed-window in-memory rate limiter.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*memoryEntry
	checks   int
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		counters: make(map[string]*memoryEntry),
	}
}

// Allow checks whether the request should be allowed in the current window.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	idx, reset := windowBounds(now, window)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.checks++
	if l.checks%memorySweepEvery == 0 {
		l.sweep(now)
	}
	entry := l.counters[key]
	if entry == nil {
		entry = &memoryEntry{window: idx, reset: reset}
		l.counters[key] = entry
	}
	if entry.window != idx {
		entry.window = idx
		entry.reset = reset
		entry.count = 0
	}
	if entry.count >= limit {
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	entry.count++
	return Result{Allowed: true, Remaining: limit - entry.count, Reset: reset}, nil
}

// sweep drops counters whose window has ended. Callers hold l.mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, entry := range l.counters {
		if !now.Before(entry.reset) {
			delete(l.counters, key)
		}
	}
}
