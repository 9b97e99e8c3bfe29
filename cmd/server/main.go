package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/segyhp/credit-simulator/internal/app"
	"github.com/segyhp/credit-simulator/internal/config"
	"github.com/segyhp/credit-simulator/internal/handler"
	"github.com/segyhp/credit-simulator/internal/logging"
	"github.com/segyhp/credit-simulator/internal/repository"
	"github.com/segyhp/credit-simulator/internal/service"
	"github.com/segyhp/credit-simulator/internal/tracing"
	"github.com/segyhp/credit-simulator/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	response.SetLogger(logger)

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing, logger)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Initialize database
	db, err := app.OpenDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis
	redisClient := app.OpenRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	simulationRepo := repository.NewSimulationRepository(db)
	scheduleCache := repository.NewScheduleCache(redisClient, cfg.Redis.ScheduleTTL)

	// Initialize service
	simulationService := service.NewSimulationService(
		simulationRepo,
		scheduleCache,
		app.NewEngine(cfg, logger),
		cfg,
		logger.Named("service"),
	)
	simulationHandler := handler.NewSimulationHandler(simulationService, logger.Named("handler"))
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout)

	// Setup routes
	router := handler.NewRouter(simulationHandler, healthHandler, logger.Named("http"))

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("Failed to flush traces", zap.Error(err))
	}

	logger.Info("Server exited")
}
