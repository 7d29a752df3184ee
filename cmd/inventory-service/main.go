package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gemflow/gemflow-backend/internal/inventory/events"
	"github.com/gemflow/gemflow-backend/internal/inventory/handler"
	"github.com/gemflow/gemflow-backend/internal/inventory/repository"
	"github.com/gemflow/gemflow-backend/internal/inventory/service"
	"github.com/gemflow/gemflow-backend/pkg/config"
	"github.com/gemflow/gemflow-backend/pkg/database"
	"github.com/gemflow/gemflow-backend/pkg/httputil"
	"github.com/gemflow/gemflow-backend/pkg/logger"
	"github.com/gemflow/gemflow-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("inventory-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("inventory-service", cfg.Server.Environment)
	log.Info().Msg("starting Inventory Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewInventoryEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	batchRepo := repository.NewBatchRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// Initialize service
	inventoryService := service.NewInventoryService(db, batchRepo, usageRepo, log)

	// Initialize handlers
	inventoryHandler := handler.NewInventoryHandler(inventoryService, log)
	batchHandler := handler.NewBatchHandler(inventoryService, log)
	alertHandler := handler.NewAlertHandler(alertRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the low-stock alert scanner
	if cfg.Alerts.Enabled {
		scanner := service.NewAlertScanner(inventoryService, alertRepo, publisher, log)
		scheduler := service.NewAlertScheduler(scanner, cfg.Alerts.ScanInterval, log)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(httputil.ActorMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "X-User-ID", "X-User-Name", "X-User-Role"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "inventory-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Get("/hierarchy", inventoryHandler.Hierarchy)

		r.Route("/batches", func(r chi.Router) {
			r.Get("/{id}", batchHandler.Get)
		})

		r.Get("/alerts", alertHandler.List)
		r.Put("/alerts/{id}/acknowledge", alertHandler.Acknowledge)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Stop the alert scheduler
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
