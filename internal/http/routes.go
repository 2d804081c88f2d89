package http

import (
	"studyboard/internal/config"
	"studyboard/internal/http/handlers"
	"studyboard/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts health, metrics and the /api/v1 surface on r.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, auth middleware.Authenticator, cfg *config.Config) {
	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, auth, cfg)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, auth middleware.Authenticator, cfg *config.Config) {
	jwt := middleware.Auth(auth)
	authRL := middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)

	// Auth
	api.POST("/auth/register", authRL, h.Register)
	api.POST("/auth/login", authRL, h.Login)
	api.POST("/auth/logout", jwt, h.Logout)

	// Account
	api.GET("/me", jwt, h.Me)
	api.GET("/me/activity", jwt, h.MyActivity)

	// Task mutations are limited per user, not per IP
	taskRL := middleware.UserRateLimit(cfg.TaskRateLimit, cfg.TaskRateWindow)

	tasks := api.Group("/tasks")
	tasks.Use(jwt)
	{
		tasks.GET("", h.ListTasks)
		tasks.GET("/stats", h.TaskStats)
		tasks.GET("/:id", h.GetTask)
		tasks.POST("", taskRL, h.CreateTask)
		tasks.PUT("/:id", taskRL, h.UpdateTask)
		tasks.DELETE("/:id", taskRL, h.DeleteTask)
	}
}
