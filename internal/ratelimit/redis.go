package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// countAttempt increments the window counter and sets its expiry on first use.
var countAttempt = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter keeps fixed-window attempt counters in Redis so that every
// server instance shares one budget per key.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter constructs a RedisLimiter whose keys start with prefix.
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: strings.TrimSpace(prefix)}
}

// Allow counts one attempt for key in the window containing now.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error) {
	if l == nil || l.client == nil || limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	idx, reset := windowBounds(now, window)
	ttl := int64(reset.Sub(now)/time.Second) + 1

	count, errEval := countAttempt.Run(ctx, l.client, []string{l.windowKey(key, idx)}, ttl).Int64()
	if errEval != nil {
		return Result{}, fmt.Errorf("rate limit redis: %w", errEval)
	}
	if count > int64(limit) {
		return Result{Allowed: false, Reset: reset}, nil
	}
	return Result{Allowed: true, Remaining: limit - int(count), Reset: reset}, nil
}

// windowKey names the counter for key in window idx.
func (l *RedisLimiter) windowKey(key string, idx int64) string {
	if l.prefix == "" {
		return fmt.Sprintf("%s:%d", key, idx)
	}
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, idx)
}
