package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/segyhp/credit-simulator/internal/app"
	"github.com/segyhp/credit-simulator/internal/config"
	"github.com/segyhp/credit-simulator/internal/logging"
	"github.com/segyhp/credit-simulator/internal/repository"
	"github.com/segyhp/credit-simulator/internal/scheduler"
	"github.com/segyhp/credit-simulator/internal/service"
	"github.com/segyhp/credit-simulator/internal/tracing"
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
	logger.Info("Starting simulation scheduler...")

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing, logger)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	redisClient := app.OpenRedis(cfg)
	defer redisClient.Close()

	simulationService := service.NewSimulationService(
		repository.NewSimulationRepository(db),
		repository.NewScheduleCache(redisClient, cfg.Redis.ScheduleTTL),
		app.NewEngine(cfg, logger),
		cfg,
		logger.Named("service"),
	)

	// Initialize cron scheduler
	c, err := scheduler.New(cfg, simulationService, logger.Named("scheduler"))
	if err != nil {
		logger.Fatal("Error scheduling simulation jobs", zap.Error(err))
	}

	// Start the scheduler
	c.Start()
	logger.Info("Scheduler started successfully",
		zap.String("expire_spec", cfg.Scheduler.ExpireSpec),
		zap.String("timezone", cfg.Scheduler.Timezone),
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()

	if err := shutdownTracing(context.Background()); err != nil {
		logger.Warn("Failed to flush traces", zap.Error(err))
	}
	logger.Info("Scheduler stopped")
}
