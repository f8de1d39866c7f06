package handler

import (
	"goal-service/internal/middleware"
	"goal-service/pkg/logger"
	"goal-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// NewRouter builds the Echo instance with all middleware and routes
func NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(logger.GetLogger()))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", HealthCheck)
	e.GET("/metrics", MetricsHandler)

	// Authentication routes
	auth := e.Group("/api/auth")
	auth.POST("/signup", Signup)
	auth.POST("/login", Login)
	auth.POST("/logout", Logout, middleware.AuthMiddleware)

	// API routes - all require an authenticated session
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Goals
	api.POST("/goals", CreateGoal)
	api.GET("/goals", ListGoals)
	api.GET("/goals/:id", GetGoal)
	api.PUT("/goals/:id", UpdateGoal)
	api.DELETE("/goals/:id", DeleteGoal)
	api.PATCH("/goals/:id/progress", UpdateProgress)

	// Plans nested under their goal
	api.POST("/goals/:id/plans", CreatePlan)
	api.GET("/goals/:id/plans", ListPlans)
	api.PUT("/plans/:id", UpdatePlan)
	api.DELETE("/plans/:id", DeletePlan)

	// Tips nested under their goal
	api.POST("/goals/:id/tips", CreateTip)
	api.GET("/goals/:id/tips", ListTips)
	api.PUT("/tips/:id", UpdateTip)
	api.DELETE("/tips/:id", DeleteTip)

	return e
}
