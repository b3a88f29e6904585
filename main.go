package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fbdash/internal/app"
	"fbdash/internal/config"
	"fbdash/internal/handlers"
	"fbdash/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Setup logger
	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	log.Info("Starting Facebook page dashboard and webhook relay")

	// Initialize components
	components, err := app.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize components")
	}
	if err := cfg.RequireWebhook(); err != nil {
		log.WithError(err).Warn("Webhook relay is not fully configured")
	}
	if err := cfg.RequirePage(); err != nil {
		log.WithError(err).Warn("Dashboard is not fully configured")
	}

	// Setup Gin router
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := handlers.New(cfg, components.Dashboard, components.Processor, components.Location, log)
	router := handler.Router()

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
