package handlers

import (
	"time"

	"invoicegen/internal/caching"
	"invoicegen/internal/middleware"
	"invoicegen/internal/services"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RateLimitSettings bounds per-user calls to the AI routes.
type RateLimitSettings struct {
	Limit  int
	Window time.Duration
}

// Router groups everything the HTTP surface depends on.
type Router struct {
	Auth     *AuthHandlers
	Invoices *InvoiceHandlers
	AI       *AIHandlers
	Health   *HealthHandlers

	AuthService services.AuthService
	Cache       caching.CacheService
	AIRateLimit RateLimitSettings
}

// Register mounts all routes on e.
func (r *Router) Register(e *echo.Echo) {
	e.GET("/health", r.Health.HealthCheck)
	e.GET("/health/live", r.Health.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireAuth := middleware.JWTMiddleware(r.AuthService)

	auth := api.Group("/auth")
	auth.POST("/register", r.Auth.Register)
	auth.POST("/login", r.Auth.Login)
	auth.GET("/me", r.Auth.GetProfile, requireAuth)
	auth.PUT("/me", r.Auth.UpdateProfile, requireAuth)

	invoices := api.Group("/invoices", requireAuth)
	invoices.POST("", r.Invoices.CreateInvoice)
	invoices.GET("", r.Invoices.ListInvoices)
	invoices.GET("/:id", r.Invoices.GetInvoice)
	invoices.PUT("/:id", r.Invoices.UpdateInvoice)
	invoices.DELETE("/:id", r.Invoices.DeleteInvoice)
	invoices.GET("/:id/pdf", r.Invoices.DownloadPDF)
	invoices.POST("/:id/pdf", r.Invoices.ArchivePDF)

	ai := api.Group("/ai")
	ai.GET("/models", r.AI.ListModels)
	limited := ai.Group("", requireAuth, middleware.RateLimit(r.Cache, "ai", r.AIRateLimit.Limit, r.AIRateLimit.Window))
	limited.POST("/parse-text", r.AI.ParseText)
	limited.POST("/generate-reminder", r.AI.GenerateReminder)
	limited.GET("/dashboard-summary", r.AI.DashboardSummary)
}
