package app

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/landbook/landbook/internal/db"
	"github.com/landbook/landbook/internal/security"
	internalsettings "github.com/landbook/landbook/internal/settings"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// InitRequest contains parameters for writing a first config file.
type InitRequest struct {
	DatabaseType     string
	DatabaseHost     string
	DatabasePort     int
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabasePath     string
	DatabaseSSLMode  string
	Port             int
	AppURL           string
}

// ConfigExists reports whether the config file exists at the path.
func ConfigExists(configPath string) bool {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return false
	}
	return true
}

// BuildDSN builds a database DSN from the init request.
func BuildDSN(req InitRequest) (string, error) {
	switch strings.ToLower(strings.TrimSpace(req.DatabaseType)) {
	case "", "sqlite":
		path := strings.TrimSpace(req.DatabasePath)
		if path == "" {
			path = internalsettings.DefaultSQLitePath
		}
		return db.BuildSQLiteDSN(path), nil
	case "postgres":
		sslMode := strings.TrimSpace(req.DatabaseSSLMode)
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(req.DatabaseUser, req.DatabasePassword),
			Host:     net.JoinHostPort(strings.TrimSpace(req.DatabaseHost), strconv.Itoa(req.DatabasePort)),
			Path:     "/" + strings.TrimSpace(req.DatabaseName),
			RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
		}
		return dsn.String(), nil
	default:
		return "", fmt.Errorf("unsupported database type")
	}
}

// validateInitRequest normalizes and validates init input data.
func validateInitRequest(req *InitRequest) error {
	dbType := strings.ToLower(strings.TrimSpace(req.DatabaseType))
	if dbType == "" {
		dbType = "sqlite"
	}
	req.DatabaseType = dbType

	switch dbType {
	case "postgres":
		if strings.TrimSpace(req.DatabaseHost) == "" {
			return fmt.Errorf("database host is required")
		}
		if req.DatabasePort <= 0 {
			req.DatabasePort = 5432
		}
		if strings.TrimSpace(req.DatabaseUser) == "" {
			return fmt.Errorf("database username is required")
		}
		if strings.TrimSpace(req.DatabaseName) == "" {
			return fmt.Errorf("database name is required")
		}
	case "sqlite":
		if strings.TrimSpace(req.DatabasePath) == "" {
			req.DatabasePath = internalsettings.DefaultSQLitePath
		}
	default:
		return fmt.Errorf("unsupported database type %q", req.DatabaseType)
	}
	if req.Port <= 0 {
		req.Port = internalsettings.DefaultPort
	}
	req.AppURL = strings.TrimSpace(req.AppURL)
	return nil
}

// TestDatabaseConnection validates that the DSN can connect and ping.
func TestDatabaseConnection(dsn string) error {
	conn, err := db.Open(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	defer func() {
		if errClose := sqlDB.Close(); errClose != nil {
			log.Errorf("sql db close error: %v", errClose)
		}
	}()
	return sqlDB.Ping()
}

// configFile maps YAML fields for the generated config file.
type configFile struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	AppURL      string `yaml:"app-url,omitempty"`
	DatabaseDSN string `yaml:"database-dsn"`
	Debug       bool   `yaml:"debug"`
	JWT         jwtCfg `yaml:"jwt"`
}

// jwtCfg holds JWT settings for the generated config file.
type jwtCfg struct {
	Secret string `yaml:"secret"`
	Expiry string `yaml:"expiry"`
}

// generateJWTSecret creates a random JWT secret string.
func generateJWTSecret() (string, error) {
	return security.RandomHex(32)
}

// WriteConfigFile writes the initial config file to disk.
func WriteConfigFile(configPath string, dsn string, port int, appURL string) error {
	secret, errSecret := generateJWTSecret()
	if errSecret != nil {
		return fmt.Errorf("generate jwt secret: %w", errSecret)
	}
	cfg := configFile{
		Host:        "",
		Port:        port,
		AppURL:      appURL,
		DatabaseDSN: dsn,
		Debug:       false,
		JWT: jwtCfg{
			Secret: secret,
			Expiry: internalsettings.DefaultJWTExpiry.String(),
		},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if errMkdir := os.MkdirAll(dir, 0755); errMkdir != nil {
		return fmt.Errorf("create config dir: %w", errMkdir)
	}

	if errWrite := os.WriteFile(configPath, data, 0600); errWrite != nil {
		return fmt.Errorf("write config file: %w", errWrite)
	}

	return nil
}

// InitConfig validates req, checks the database is reachable, writes the
// config file and migrates the schema. An existing config file is left alone.
func InitConfig(configPath string, req InitRequest) error {
	if ConfigExists(configPath) {
		return fmt.Errorf("config file already exists at %s", configPath)
	}
	if errValidate := validateInitRequest(&req); errValidate != nil {
		return errValidate
	}
	dsn, errBuild := BuildDSN(req)
	if errBuild != nil {
		return errBuild
	}
	if errTest := TestDatabaseConnection(dsn); errTest != nil {
		return fmt.Errorf("database connection failed: %w", errTest)
	}
	if errWrite := WriteConfigFile(configPath, dsn, req.Port, req.AppURL); errWrite != nil {
		return errWrite
	}

	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		return fmt.Errorf("open database: %w", errOpen)
	}
	defer func() { _ = db.Close(conn) }()
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return fmt.Errorf("migrate database: %w", errMigrate)
	}
	log.WithFields(log.Fields{"config": configPath, "dialect": req.DatabaseType}).Info("config initialized")
	return nil
}
