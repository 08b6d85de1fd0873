package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryLimiterWindow(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "k", 3, time.Minute, base.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("expected attempt %d to be allowed", i+1)
		}
		if res.Remaining != 2-i {
			t.Fatalf("expected remaining=%d, got %d", 2-i, res.Remaining)
		}
	}
	res, _ := l.Allow(ctx, "k", 3, time.Minute, base.Add(10*time.Second))
	if res.Allowed {
		t.Fatalf("expected fourth attempt to be blocked")
	}
	if !res.Reset.Equal(base.Add(time.Minute)) {
		t.Fatalf("expected reset at %s, got %s", base.Add(time.Minute), res.Reset)
	}

	other, _ := l.Allow(ctx, "other", 3, time.Minute, base.Add(10*time.Second))
	if !other.Allowed {
		t.Fatalf("expected independent key to be allowed")
	}

	next, _ := l.Allow(ctx, "k", 3, time.Minute, base.Add(time.Minute))
	if !next.Allowed {
		t.Fatalf("expected next window to be allowed")
	}
}

func TestMemoryLimiterUnlimited(t *testing.T) {
	l := NewMemoryLimiter()
	for i := 0; i < 100; i++ {
		res, _ := l.Allow(context.Background(), "k", 0, time.Minute, time.Now())
		if !res.Allowed {
			t.Fatalf("expected zero limit to be unlimited")
		}
	}
	res, _ := l.Allow(context.Background(), "", 1, time.Minute, time.Now())
	if !res.Allowed {
		t.Fatalf("expected empty key to be allowed")
	}
}

func TestKeyForShareVerify(t *testing.T) {
	if got := KeyForShareVerify("tok", "10.0.0.1"); got != "share:tok:ip:10.0.0.1" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := KeyForShareVerify("tok", ""); got != "share:tok:ip:unknown" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := KeyForShareVerify(" ", "10.0.0.1"); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}
}

func TestManagerFallsBackToMemory(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	factoryCalls := 0
	m := NewManager(SettingsConfig{
		Limit:        2,
		Window:       time.Minute,
		RedisEnabled: true,
		RedisAddr:    "127.0.0.1:1",
	}, WithClock(func() time.Time { return now }), WithRedisDialer(func(opts *redis.Options) *redis.Client {
		factoryCalls++
		opts.DialTimeout = 50 * time.Millisecond
		opts.MaxRetries = -1
		return redis.NewClient(opts)
	}))
	defer func() { _ = m.Close() }()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		res, err := m.Allow(ctx, "k")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("expected attempt %d to be allowed", i+1)
		}
	}
	res, _ := m.Allow(ctx, "k")
	if res.Allowed {
		t.Fatalf("expected third attempt to be blocked by memory limiter")
	}
	if factoryCalls != 1 {
		t.Fatalf("expected retry delay to stop reconnects, got %d dials", factoryCalls)
	}
}

func TestManagerDisabledLimit(t *testing.T) {
	m := NewManager(SettingsConfig{})
	for i := 0; i < 50; i++ {
		res, err := m.Allow(context.Background(), "k")
		if err != nil || !res.Allowed {
			t.Fatalf("expected unlimited manager to allow, got %+v %v", res, err)
		}
	}
}

func TestManagerRedialsAfterRetryDelay(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	dials := 0
	m := NewManager(SettingsConfig{
		Limit:        5,
		Window:       time.Minute,
		RedisEnabled: true,
		RedisAddr:    "127.0.0.1:1",
	}, WithClock(func() time.Time { return now }), WithRedisDialer(func(opts *redis.Options) *redis.Client {
		dials++
		opts.DialTimeout = 50 * time.Millisecond
		opts.MaxRetries = -1
		return redis.NewClient(opts)
	}))
	defer func() { _ = m.Close() }()

	_, _ = m.Allow(context.Background(), "k")
	now = now.Add(redisRetryDelay / 2)
	_, _ = m.Allow(context.Background(), "k")
	if dials != 1 {
		t.Fatalf("expected one dial inside the retry delay, got %d", dials)
	}
	now = now.Add(redisRetryDelay)
	_, _ = m.Allow(context.Background(), "k")
	if dials != 2 {
		t.Fatalf("expected a redial after the retry delay, got %d", dials)
	}
}

func TestManagerNilAllows(t *testing.T) {
	var m *Manager
	res, err := m.Allow(context.Background(), "k")
	if err != nil || !res.Allowed {
		t.Fatalf("expected nil manager to allow, got %+v %v", res, err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close nil manager: %v", err)
	}
}
