package settings

import "time"

// Defaults applied when the config file omits a value.
const (
	// DefaultHost is the fallback listen host.
	DefaultHost = ""
	// DefaultPort is the fallback listen port.
	DefaultPort = 8080
	// DefaultSQLitePath is the database used when no DSN is configured.
	DefaultSQLitePath = "landbook.db"
	// DefaultJWTExpiry is the fallback session lifetime.
	DefaultJWTExpiry = 30 * 24 * time.Hour
	// DefaultShareAccessExpiry is the fallback lifetime of a share viewer token.
	DefaultShareAccessExpiry = 12 * time.Hour
	// DefaultShareVerifyLimit is the number of password attempts allowed per window.
	DefaultShareVerifyLimit = 10
	// DefaultShareVerifyWindow is the window share password attempts are counted in.
	DefaultShareVerifyWindow = 15 * time.Minute
	// DefaultRateLimitRedisPrefix is the fallback Redis key prefix.
	DefaultRateLimitRedisPrefix = "landbook:rl"
	// DefaultShutdownTimeout bounds graceful HTTP shutdown.
	DefaultShutdownTimeout = 10 * time.Second
	// MinPasswordLength is the shortest accepted account password.
	MinPasswordLength = 6
	// ShareTokenBytes is the number of random bytes in a share token.
	ShareTokenBytes = 16
)
