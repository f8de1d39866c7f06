package main

import (
	"goal-service/internal/handler"
	"goal-service/internal/session"
	"goal-service/pkg/config"
	"goal-service/pkg/database"
	"goal-service/pkg/logger"
	"goal-service/prometheus"

	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting goal tracking service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize session store
	session.Initialize(&cfg.Session)
	log.Info("Session store initialized",
		zap.String("cookie", cfg.Session.CookieName),
		zap.Duration("ttl", cfg.Session.TTL))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Build router with middleware and routes
	e := handler.NewRouter()

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
