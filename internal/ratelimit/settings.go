package ratelimit

import (
	"strings"
	"time"

	internalsettings "github.com/landbook/landbook/internal/settings"
)

// SettingsConfig captures rate limit settings resolved from the config file.
type SettingsConfig struct {
	Limit         int
	Window        time.Duration
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Normalize trims values and applies defaults.
func (cfg SettingsConfig) Normalize() SettingsConfig {
	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)
	cfg.RedisPassword = strings.TrimSpace(cfg.RedisPassword)
	cfg.RedisPrefix = strings.TrimSpace(cfg.RedisPrefix)
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = internalsettings.DefaultRateLimitRedisPrefix
	}
	if cfg.RedisDB < 0 {
		cfg.RedisDB = 0
	}
	if cfg.Limit < 0 {
		cfg.Limit = 0
	}
	if cfg.Window <= 0 {
		cfg.Window = internalsettings.DefaultShareVerifyWindow
	}
	return cfg
}
