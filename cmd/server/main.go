package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/social-media-monitor/internal/api"
	"github.com/social-media-monitor/internal/config"
	"github.com/social-media-monitor/internal/graph"
	"github.com/social-media-monitor/internal/repository"
	"github.com/social-media-monitor/internal/service"
	"github.com/social-media-monitor/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting Social Media Monitor server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Graph API client
	client := graph.NewClient(cfg.Graph.BaseURL, cfg.Graph.Timeout, log)

	// Store provider. The database is optional: when no database options are
	// configured the provider reports that on open and the services degrade
	// to unenriched responses.
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	stores := repository.NewProvider(cfg.Database, migrationsPath, log)
	if cfg.Database == nil {
		log.Info().Msg("No database options provided, moderation store disabled")
	}

	// Initialize services
	services := service.NewServices(cfg.Accounts.Facebook, client, stores, log)

	// Initialize router
	router := api.NewRouter(services, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
