package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/landbook/landbook/internal/metrics"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	redisRetryDelay  = 30 * time.Second
	redisPingTimeout = 2 * time.Second
)

// RedisDialer constructs a Redis client for the given options.
type RedisDialer func(options *redis.Options) *redis.Client

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithRedisDialer overrides how Redis clients are created.
func WithRedisDialer(dial RedisDialer) Option {
	return func(m *Manager) {
		if dial != nil {
			m.dial = dial
		}
	}
}

// Manager applies one attempt budget per key. Counters live in Redis when it
// is enabled and reachable, and in process memory otherwise. A Redis failure
// drops the connection; the next dial happens after redisRetryDelay.
type Manager struct {
	cfg    SettingsConfig
	now    func() time.Time
	dial   RedisDialer
	memory *MemoryLimiter

	mu      sync.Mutex
	remote  *RedisLimiter
	retryAt time.Time
}

// NewManager constructs a Manager enforcing cfg.
func NewManager(cfg SettingsConfig, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg.Normalize(),
		now:    time.Now,
		dial:   redis.NewClient,
		memory: NewMemoryLimiter(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allow counts one attempt for key and reports whether it fits the budget.
func (m *Manager) Allow(ctx context.Context, key string) (Result, error) {
	if m == nil || key == "" || m.cfg.Limit <= 0 {
		return Result{Allowed: true}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	now := m.now()

	if m.cfg.RedisEnabled {
		if remote := m.redis(ctx, now); remote != nil {
			result, errAllow := remote.Allow(ctx, key, m.cfg.Limit, m.cfg.Window, now)
			if errAllow == nil {
				metrics.RateLimitBackend.Set(1)
				return result, nil
			}
			m.drop(remote, errAllow, now)
		}
	}
	metrics.RateLimitBackend.Set(0)
	return m.memory.Allow(ctx, key, m.cfg.Limit, m.cfg.Window, now)
}

// redis returns the connected Redis backend, dialing when the retry delay has passed.
func (m *Manager) redis(ctx context.Context, now time.Time) *RedisLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.remote != nil {
		return m.remote
	}
	if now.Before(m.retryAt) {
		return nil
	}
	if m.cfg.RedisAddr == "" {
		m.retryAt = now.Add(redisRetryDelay)
		log.Warn("rate limit: redis enabled without an address, using memory")
		return nil
	}

	client := m.dial(&redis.Options{
		Addr:     m.cfg.RedisAddr,
		Password: m.cfg.RedisPassword,
		DB:       m.cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if errPing := client.Ping(ctxPing).Err(); errPing != nil {
		_ = client.Close()
		m.retryAt = now.Add(redisRetryDelay)
		log.WithError(errPing).WithField("addr", m.cfg.RedisAddr).Warn("rate limit: redis unreachable, using memory")
		return nil
	}
	log.WithField("addr", m.cfg.RedisAddr).Info("rate limit: using redis")
	m.remote = NewRedisLimiter(client, m.cfg.RedisPrefix)
	return m.remote
}

// drop discards a failed Redis backend unless another caller already replaced it.
func (m *Manager) drop(remote *RedisLimiter, err error, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.remote != remote {
		return
	}
	_ = remote.client.Close()
	m.remote = nil
	m.retryAt = now.Add(redisRetryDelay)
	log.WithError(err).Warn("rate limit: redis failed, falling back to memory")
}

// Close releases the Redis client, if any.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.remote == nil {
		return nil
	}
	errClose := m.remote.client.Close()
	m.remote = nil
	return errClose
}
