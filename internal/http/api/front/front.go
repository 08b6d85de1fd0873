package front

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/landbook/landbook/internal/accounts"
	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/config"
	handlers "github.com/landbook/landbook/internal/http/api/front/handlers"
	"github.com/landbook/landbook/internal/models"
	"github.com/landbook/landbook/internal/payments"
	"github.com/landbook/landbook/internal/projects"
	"github.com/landbook/landbook/internal/sharing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Options carries the settings the routes need beyond the database.
type Options struct {
	JWT     config.JWTConfig
	Share   config.ShareConfig
	AppURL  string
	Limiter sharing.Limiter
}

// RegisterFrontRoutes registers the public and session routes with their handlers.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, opts Options) {
	if r == nil || db == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	accountSvc := accounts.NewService(db, opts.JWT.Secret, opts.JWT.Expiry)
	shareSvc := sharing.NewService(db, sharing.Config{
		Secret:       opts.JWT.Secret,
		AccessExpiry: opts.Share.AccessExpiry,
	}, opts.Limiter)

	api := r.Group("/api")

	authHandler := handlers.NewAuthHandler(accountSvc)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	shareHandler := handlers.NewShareHandler(shareSvc, opts.AppURL)
	api.GET("/share/:token", shareHandler.Lookup)
	api.POST("/share/:token", shareHandler.Verify)
	api.GET("/share/:token/records", shareHandler.Records)
	api.GET("/share/:token/overview", shareHandler.Overview)

	authed := api.Group("")
	authed.Use(sessionAuthMiddleware(db, accountSvc))

	authed.GET("/auth/me", authHandler.Me)
	authed.DELETE("/auth/delete-account", authHandler.DeleteAccount)

	projectHandler := handlers.NewProjectHandler(projects.NewService(db))
	authed.GET("/projects", projectHandler.List)
	authed.POST("/projects", projectHandler.Create)
	authed.GET("/projects/:id", projectHandler.Get)
	authed.PUT("/projects/:id", projectHandler.Update)
	authed.DELETE("/projects/:id", projectHandler.Delete)
	authed.POST("/projects/:id/raiyat", projectHandler.AddRaiyat)
	authed.DELETE("/projects/:id/raiyat/:raiyatId", projectHandler.DeleteRaiyat)
	authed.POST("/projects/:id/auto-colors", projectHandler.AutoColors)
	authed.POST("/projects/:id/records", projectHandler.AddRecord)
	authed.PUT("/projects/:id/records/:recordId", projectHandler.UpdateRecord)
	authed.DELETE("/projects/:id/records/:recordId", projectHandler.DeleteRecord)
	authed.POST("/projects/:id/import", projectHandler.Import)
	authed.POST("/projects/:id/import/file", projectHandler.ImportFile)
	authed.GET("/projects/:id/export", projectHandler.Export)
	authed.POST("/projects/:id/share", shareHandler.Issue)
	authed.DELETE("/projects/:id/share", shareHandler.Revoke)

	paymentHandler := handlers.NewPaymentHandler(payments.NewService(db))
	authed.GET("/payments", paymentHandler.List)
	authed.POST("/payments", paymentHandler.Create)
	authed.PUT("/payments/:id", paymentHandler.Update)
	authed.DELETE("/payments/:id", paymentHandler.Delete)
}

// sessionAuthMiddleware validates session JWTs and loads the user id into context.
func sessionAuthMiddleware(db *gorm.DB, accountSvc *accounts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.MsgLoginRequired})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.MsgLoginRequired})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.MsgLoginRequired})
			return
		}

		userID, errAuth := accountSvc.Authenticate(token)
		if errAuth != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.MsgLoginRequired})
			return
		}

		var count int64
		if errCount := db.WithContext(c.Request.Context()).
			Model(&models.User{}).
			Where("id = ?", userID).
			Count(&count).Error; errCount != nil || count == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.MsgLoginRequired})
			return
		}

		c.Set(handlers.ContextUserID, userID)
		c.Next()
	}
}
