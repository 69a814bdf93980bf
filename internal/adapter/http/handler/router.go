package handler

import (
	"net/http"

	"warehouse-api/internal/adapter/http/middleware"
	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	TokenSvc       ports.TokenService
	KeySvc         ports.APIKeyService
	OrderSvc       ports.OrderService
	WebhookSvc     ports.WebhookService
	ActivitySvc    ports.ActivityService // nil = activity trail disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// --- Management surface (session JWT) ---
	v1 := r.Group("/api/v1")

	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}

	sessionAuth := middleware.SessionAuth(deps.TokenSvc, deps.Logger)

	keyHandler := NewAPIKeyHandler(deps.KeySvc)
	keys := v1.Group("/keys", sessionAuth)
	{
		keys.POST("", keyHandler.Create)
		keys.GET("", keyHandler.List)
		keys.GET("/:keyId", keyHandler.Get)
		keys.PUT("/:keyId", keyHandler.Update)
		keys.DELETE("/:keyId", keyHandler.Revoke)
	}

	webhookHandler := NewWebhookHandler(deps.WebhookSvc)
	webhooks := v1.Group("/webhooks", sessionAuth)
	{
		webhooks.POST("", webhookHandler.Create)
		webhooks.GET("", webhookHandler.List)
		webhooks.GET("/:webhookId", webhookHandler.Get)
		webhooks.PUT("/:webhookId", webhookHandler.Update)
		webhooks.DELETE("/:webhookId", webhookHandler.Delete)
	}

	orderHandler := NewOrderHandler(deps.OrderSvc)
	orders := v1.Group("/orders", sessionAuth)
	{
		orders.POST("", orderHandler.Create)
		orders.GET("", orderHandler.List)
		orders.GET("/search", orderHandler.Search)
		orders.GET("/stats", orderHandler.Stats)
		orders.GET("/:orderId", orderHandler.Get)
		orders.PUT("/:orderId", orderHandler.Update)
		orders.DELETE("/:orderId", orderHandler.Delete)
	}

	if deps.ActivitySvc != nil {
		activityHandler := NewActivityHandler(deps.ActivitySvc)
		logs := v1.Group("/logs", sessionAuth)
		{
			logs.POST("", activityHandler.Create)
			logs.GET("", activityHandler.List)
			logs.GET("/recent", activityHandler.ListRecent)
			logs.GET("/user/:userId", activityHandler.ListByUser)
			logs.DELETE("/:logId", activityHandler.Delete)
		}
	}

	// --- Public surface (API key + permission) ---
	keyAuth := middleware.APIKeyAuth(deps.KeySvc, deps.Logger)

	publicOrderHandler := NewPublicOrderHandler(deps.OrderSvc)
	public := r.Group("/public/orders", keyAuth)
	if deps.ActivitySvc != nil {
		public.Use(middleware.ActivityTrail(deps.ActivitySvc))
	}
	{
		public.POST("", middleware.RequirePermission(domain.PermOrderCreate), publicOrderHandler.Create)
		public.GET("", middleware.RequirePermission(domain.PermOrderRead), publicOrderHandler.List)
		public.GET("/:orderId", middleware.RequirePermission(domain.PermOrderRead), publicOrderHandler.Get)
		public.PUT("/:orderId", middleware.RequirePermission(domain.PermOrderUpdate), publicOrderHandler.Update)
	}

	return r
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
