package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	internalsettings "github.com/landbook/landbook/internal/settings"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvJWTSecret    = "JWT_SECRET"
	EnvJWTExpiry    = "JWT_EXPIRY"
	EnvAppURL       = "APP_URL"
	EnvPort         = "PORT"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// LoadEnvFile loads variables from a dotenv file when it exists. Variables
// already present in the environment win.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if _, errStat := os.Stat(path); errStat != nil {
		if errors.Is(errStat, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", errStat)
	}
	if errLoad := godotenv.Load(path); errLoad != nil {
		return fmt.Errorf("load env file: %w", errLoad)
	}
	return nil
}

// ErrMissingJWTSecret indicates neither the config file nor the environment set a JWT secret.
var ErrMissingJWTSecret = errors.New("missing jwt secret (set `jwt.secret` in config file or JWT_SECRET)")

// JWTConfig holds JWT secret and expiry settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// ShareConfig holds share link settings.
type ShareConfig struct {
	AccessExpiry time.Duration `yaml:"access-expiry"`
	VerifyLimit  int           `yaml:"verify-limit"`
	VerifyWindow time.Duration `yaml:"verify-window"`
}

// RedisConfig configures the optional Redis rate limit backend.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow-origins"`
}

// Config is the resolved server configuration.
type Config struct {
	Host        string      `yaml:"host"`
	Port        int         `yaml:"port"`
	Debug       bool        `yaml:"debug"`
	AppURL      string      `yaml:"app-url"`
	DatabaseDSN string      `yaml:"-"`
	JWT         JWTConfig   `yaml:"jwt"`
	Share       ShareConfig `yaml:"share"`
	Redis       RedisConfig `yaml:"redis"`
	CORS        CORSConfig  `yaml:"cors"`
	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers name
	// the client address. Empty trusts no proxy.
	TrustedProxies []string `yaml:"trusted-proxies"`
}

// fileConfig maps the YAML file including both DSN spellings.
type fileConfig struct {
	Config      `yaml:",inline"`
	DatabaseDSN string `yaml:"database-dsn"`
	Database    struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
}

// Load reads configPath, applies environment overrides and fills defaults.
// A missing config file is not an error.
func Load(configPath string) (Config, error) {
	var file fileConfig
	data, errRead := os.ReadFile(configPath)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, &file); errUnmarshal != nil {
			return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	case errors.Is(errRead, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config file: %w", errRead)
	}

	cfg := file.Config
	cfg.DatabaseDSN = firstNonEmpty(file.DatabaseDSN, file.Database.DSN)
	if errEnv := cfg.applyEnv(); errEnv != nil {
		return Config{}, errEnv
	}
	cfg.applyDefaults()
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return Config{}, ErrMissingJWTSecret
	}
	if errProxies := validateTrustedProxies(cfg.TrustedProxies); errProxies != nil {
		return Config{}, errProxies
	}
	return cfg, nil
}

// validateTrustedProxies rejects entries that are neither an IP nor a CIDR.
func validateTrustedProxies(proxies []string) error {
	for _, proxy := range proxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, errCIDR := net.ParseCIDR(proxy); errCIDR == nil {
			continue
		}
		return fmt.Errorf("invalid trusted proxy %q", proxy)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		c.DatabaseDSN = dsn
	}
	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		c.JWT.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			c.JWT.Expiry = expiry
		}
	}
	if appURL := strings.TrimSpace(os.Getenv(EnvAppURL)); appURL != "" {
		c.AppURL = appURL
	}
	if portRaw := strings.TrimSpace(os.Getenv(EnvPort)); portRaw != "" {
		port, errParse := strconv.Atoi(portRaw)
		if errParse != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid %s: %q", EnvPort, portRaw)
		}
		c.Port = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Host = strings.TrimSpace(c.Host)
	proxies := c.TrustedProxies[:0]
	for _, proxy := range c.TrustedProxies {
		if proxy = strings.TrimSpace(proxy); proxy != "" {
			proxies = append(proxies, proxy)
		}
	}
	c.TrustedProxies = proxies
	if c.Port <= 0 {
		c.Port = internalsettings.DefaultPort
	}
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		c.DatabaseDSN = internalsettings.DefaultSQLitePath
	}
	if c.JWT.Expiry <= 0 {
		c.JWT.Expiry = internalsettings.DefaultJWTExpiry
	}
	if c.Share.AccessExpiry <= 0 {
		c.Share.AccessExpiry = internalsettings.DefaultShareAccessExpiry
	}
	if c.Share.VerifyLimit <= 0 {
		c.Share.VerifyLimit = internalsettings.DefaultShareVerifyLimit
	}
	if c.Share.VerifyWindow <= 0 {
		c.Share.VerifyWindow = internalsettings.DefaultShareVerifyWindow
	}
	if strings.TrimSpace(c.Redis.Prefix) == "" {
		c.Redis.Prefix = internalsettings.DefaultRateLimitRedisPrefix
	}
	c.AppURL = strings.TrimRight(strings.TrimSpace(c.AppURL), "/")
	if c.AppURL == "" {
		host := c.Host
		if host == "" {
			host = "localhost"
		}
		c.AppURL = "http://" + net.JoinHostPort(host, strconv.Itoa(c.Port))
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
