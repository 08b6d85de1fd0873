package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/landbook/landbook/internal/config"
	"github.com/landbook/landbook/internal/db"
	"github.com/landbook/landbook/internal/http/api/front"
	"github.com/landbook/landbook/internal/http/middleware"
	"github.com/landbook/landbook/internal/ratelimit"
	internalsettings "github.com/landbook/landbook/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(conn) }()
	return db.Migrate(conn.WithContext(ctx))
}

// ConfigureLogging applies the log level for cfg.
func ConfigureLogging(cfg config.Config) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		gin.SetMode(gin.DebugMode)
		return
	}
	log.SetLevel(log.InfoLevel)
	gin.SetMode(gin.ReleaseMode)
}

// NewRateLimiter builds the share verification limiter from cfg.
func NewRateLimiter(cfg config.Config) *ratelimit.Manager {
	return ratelimit.NewManager(ratelimit.SettingsConfig{
		Limit:         cfg.Share.VerifyLimit,
		Window:        cfg.Share.VerifyWindow,
		RedisEnabled:  cfg.Redis.Enabled,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		RedisPrefix:   cfg.Redis.Prefix,
	})
}

// NewEngine assembles the gin engine with middleware and routes.
func NewEngine(conn *gorm.DB, cfg config.Config, limiter *ratelimit.Manager) *gin.Engine {
	engine := gin.New()
	if errProxies := engine.SetTrustedProxies(cfg.TrustedProxies); errProxies != nil {
		log.WithError(errProxies).Warn("invalid trusted proxies, trusting none")
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.Metrics())
	engine.Use(corsMiddleware(cfg.CORS))

	opts := front.Options{
		JWT:    cfg.JWT,
		Share:  cfg.Share,
		AppURL: cfg.AppURL,
	}
	if limiter != nil {
		opts.Limiter = limiter
	}
	front.RegisterFrontRoutes(engine, conn, opts)
	return engine
}

// corsMiddleware allows the configured browser origins, or any origin when none are set.
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Share-Access", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
		corsCfg.AllowCredentials = true
	}
	return cors.New(corsCfg)
}

// RunServer opens the database, serves the API and shuts down when ctx ends.
func RunServer(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() {
		if errClose := db.Close(conn); errClose != nil {
			log.Errorf("database close error: %v", errClose)
		}
	}()
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	limiter := NewRateLimiter(cfg)
	defer func() {
		if errClose := limiter.Close(); errClose != nil {
			log.Errorf("rate limiter close error: %v", errClose)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewEngine(conn, cfg, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), internalsettings.DefaultShutdownTimeout)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			log.Errorf("server shutdown error: %v", errShutdown)
		}
	}()

	log.WithFields(log.Fields{
		"addr":    srv.Addr,
		"dialect": db.DialectName(conn),
		"app_url": cfg.AppURL,
	}).Info("starting landbook server")
	if errListen := srv.ListenAndServe(); errListen != nil && !errors.Is(errListen, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", errListen)
	}
	log.Info("server stopped")
	return nil
}
