package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/landbook/landbook/internal/app"
	"github.com/landbook/landbook/internal/config"

	log "github.com/sirupsen/logrus"
)

// main runs the CLI entrypoint and exits on unrecoverable command errors.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if errRun := run(ctx, os.Args[1:]); errRun != nil {
		if errors.Is(errRun, flag.ErrHelp) {
			return
		}
		log.WithError(errRun).Error("command failed")
		stop()
		os.Exit(1)
	}
}

// run dispatches to the serve, migrate or init command. serve is the default.
func run(ctx context.Context, args []string) error {
	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return runServe(ctx, args)
	case "migrate":
		return runMigrate(ctx, args)
	case "init":
		return runInit(args)
	default:
		return fmt.Errorf("unknown command %q (expected serve, migrate or init)", command)
	}
}

// commonFlags registers the flags shared by every command.
func commonFlags(name string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	envPath := fs.String("env", ".env", "dotenv file loaded before the config")
	return fs, cfgPath, envPath
}

// loadConfig loads the dotenv file and resolves the config.
func loadConfig(cfgPath, envPath string) (config.Config, error) {
	if errEnv := config.LoadEnvFile(envPath); errEnv != nil {
		return config.Config{}, errEnv
	}
	appCfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if strings.TrimSpace(cfgPath) != "" {
		appCfg.ConfigPath = config.ResolveConfigPath(cfgPath)
	}
	return config.Load(config.ResolveConfigPath(appCfg.ConfigPath))
}

func runServe(ctx context.Context, args []string) error {
	fs, cfgPath, envPath := commonFlags("serve")
	port := fs.Int("port", 0, "server port, overrides the config file")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	cfg, err := loadConfig(*cfgPath, *envPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		if errValidate := validatePort(*port); errValidate != nil {
			return errValidate
		}
		cfg.Port = *port
	}
	app.ConfigureLogging(cfg)
	return app.RunServer(ctx, cfg)
}

func runMigrate(ctx context.Context, args []string) error {
	fs, cfgPath, envPath := commonFlags("migrate")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}
	cfg, err := loadConfig(*cfgPath, *envPath)
	if err != nil {
		return err
	}
	app.ConfigureLogging(cfg)
	if errMigrate := app.Migrate(ctx, cfg); errMigrate != nil {
		return errMigrate
	}
	log.Info("migrations applied")
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path to create (or env CONFIG_PATH)")
	var req app.InitRequest
	fs.StringVar(&req.DatabaseType, "db-type", "sqlite", "database type: sqlite or postgres")
	fs.StringVar(&req.DatabasePath, "db-path", "", "sqlite database file")
	fs.StringVar(&req.DatabaseHost, "db-host", "localhost", "postgres host")
	fs.IntVar(&req.DatabasePort, "db-port", 5432, "postgres port")
	fs.StringVar(&req.DatabaseUser, "db-user", "", "postgres user")
	fs.StringVar(&req.DatabasePassword, "db-password", "", "postgres password")
	fs.StringVar(&req.DatabaseName, "db-name", "", "postgres database name")
	fs.StringVar(&req.DatabaseSSLMode, "db-sslmode", "disable", "postgres sslmode")
	fs.IntVar(&req.Port, "port", 8080, "server port written to the config")
	fs.StringVar(&req.AppURL, "app-url", "", "public base URL used in share links")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}
	if errValidate := validatePort(req.Port); errValidate != nil {
		return errValidate
	}

	appCfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if strings.TrimSpace(*cfgPath) != "" {
		appCfg.ConfigPath = config.ResolveConfigPath(*cfgPath)
	}
	return app.InitConfig(config.ResolveConfigPath(appCfg.ConfigPath), req)
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}
