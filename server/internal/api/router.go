// Package api provides the REST API of everest-server.
//
// It wires the gin router, the middleware stack and the handlers that sit
// in front of the service handler chain.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/api/handlers"
	"github.com/everest-platform/console/server/internal/api/middleware"
	"github.com/everest-platform/console/server/internal/metrics"
	"github.com/everest-platform/console/server/internal/ratelimit"
	"github.com/everest-platform/console/server/internal/service"
)

// SessionManager validates, issues and revokes session tokens.
// *session.Manager implements it.
type SessionManager interface {
	middleware.SessionValidator
	handlers.SessionIssuer
}

// RouterConfig holds configuration for setting up the HTTP router.
type RouterConfig struct {
	// Logger is the Zap logger for request logging.
	Logger *zap.Logger

	// Handler is the head of the service handler chain.
	Handler service.Handler

	// Sessions authenticates users and their tokens.
	Sessions SessionManager

	// Attempts tracks failed logins per client address.
	Attempts *ratelimit.AttemptsStore

	// RateLimits are the per-IP, per-user and probe budgets.
	RateLimits ratelimit.Config

	// AllowOrigins is the list of allowed CORS origins.
	// Use []string{"*"} to allow all origins.
	AllowOrigins []string

	// Version is reported by GET /v1/version.
	Version models.Version

	// Ready is the readiness probe check. Nil always passes.
	Ready handlers.ReadinessCheck
}

// SetupRouter creates the gin router with all routes and middleware.
// The returned RateLimiter must be stopped when the server shuts down.
func SetupRouter(config *RouterConfig) (*gin.Engine, *middleware.RateLimiter) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(config.Logger))
	if len(config.AllowOrigins) > 0 {
		router.Use(middleware.CORS(config.AllowOrigins))
	}

	limiter := middleware.NewRateLimiter(config.RateLimits)

	healthHandler := handlers.NewHealthHandler(config.Ready)
	sessionHandler := handlers.NewSessionHandler(config.Sessions, config.Attempts)
	namespaceHandler := handlers.NewNamespaceHandler(config.Handler, config.Version)
	clusterHandler := handlers.NewDatabaseClusterHandler(config.Handler)
	backupHandler := handlers.NewBackupHandler(config.Handler, config.Handler)
	storageHandler := handlers.NewBackupStorageHandler(config.Handler, config.Handler)
	engineHandler := handlers.NewEngineHandler(config.Handler, config.Handler)

	// Probes and metrics are scraped often, so they have their own budget.
	health := router.Group("/health", limiter.HealthCheck())
	{
		health.GET("/live", healthHandler.Liveness)
		health.GET("/ready", healthHandler.Readiness)
	}
	router.GET("/metrics", limiter.HealthCheck(), gin.WrapH(promhttp.HandlerFor(
		metrics.Registry,
		promhttp.HandlerOpts{},
	)))

	v1 := router.Group("/v1", limiter.ByIP())
	v1.GET("/version", namespaceHandler.Version)
	v1.POST("/session", sessionHandler.Login)

	authed := v1.Group("", middleware.RequireSession(config.Sessions), limiter.ByUser())
	{
		authed.DELETE("/session", sessionHandler.Logout)
		authed.GET("/permissions", namespaceHandler.GetUserPermissions)
		authed.GET("/namespaces", namespaceHandler.ListNamespaces)
		authed.GET("/cluster-info", namespaceHandler.GetClusterInfo)
	}

	ns := authed.Group("/namespaces/:namespace")

	clusters := ns.Group("/database-clusters")
	{
		clusters.GET("", clusterHandler.List)
		clusters.POST("", clusterHandler.Create)
		clusters.GET("/:name", clusterHandler.Get)
		clusters.PUT("/:name", clusterHandler.Update)
		clusters.DELETE("/:name", clusterHandler.Delete)
		clusters.GET("/:name/credentials", clusterHandler.Credentials)
		clusters.GET("/:name/backups", clusterHandler.Backups)
		clusters.GET("/:name/restores", clusterHandler.Restores)
	}

	backups := ns.Group("/database-cluster-backups")
	{
		backups.GET("", backupHandler.ListBackups)
		backups.POST("", backupHandler.CreateBackup)
		backups.GET("/:name", backupHandler.GetBackup)
		backups.DELETE("/:name", backupHandler.DeleteBackup)
	}

	restores := ns.Group("/database-cluster-restores")
	{
		restores.GET("", backupHandler.ListRestores)
		restores.POST("", backupHandler.CreateRestore)
		restores.GET("/:name", backupHandler.GetRestore)
		restores.PUT("/:name", backupHandler.UpdateRestore)
		restores.DELETE("/:name", backupHandler.DeleteRestore)
	}

	storages := ns.Group("/backup-storages")
	{
		storages.GET("", storageHandler.ListBackupStorages)
		storages.POST("", storageHandler.CreateBackupStorage)
		storages.GET("/:name", storageHandler.GetBackupStorage)
		storages.PUT("/:name", storageHandler.UpdateBackupStorage)
		storages.DELETE("/:name", storageHandler.DeleteBackupStorage)
	}

	monitoring := ns.Group("/monitoring-instances")
	{
		monitoring.GET("", storageHandler.ListMonitoringInstances)
		monitoring.POST("", storageHandler.CreateMonitoringInstance)
		monitoring.GET("/:name", storageHandler.GetMonitoringInstance)
		monitoring.PUT("/:name", storageHandler.UpdateMonitoringInstance)
		monitoring.DELETE("/:name", storageHandler.DeleteMonitoringInstance)
	}

	engines := ns.Group("/database-engines")
	{
		engines.GET("", engineHandler.ListDatabaseEngines)
		engines.GET("/upgrade-plan", engineHandler.GetUpgradePlan)
		engines.PUT("/upgrade-plan/approval", engineHandler.ApproveUpgradePlan)
		engines.GET("/:name", engineHandler.GetDatabaseEngine)
		engines.PUT("/:name", engineHandler.UpdateDatabaseEngine)
	}

	policies := ns.Group("/pod-scheduling-policies")
	{
		policies.GET("", engineHandler.ListPodSchedulingPolicies)
		policies.POST("", engineHandler.CreatePodSchedulingPolicy)
		policies.GET("/:name", engineHandler.GetPodSchedulingPolicy)
		policies.PUT("/:name", engineHandler.UpdatePodSchedulingPolicy)
		policies.DELETE("/:name", engineHandler.DeletePodSchedulingPolicy)
	}

	return router, limiter
}
