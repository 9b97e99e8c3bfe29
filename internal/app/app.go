package app

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/segyhp/credit-simulator/internal/config"
	"github.com/segyhp/credit-simulator/internal/credit"
)

// OpenDatabase connects to postgres with the configured pool settings
func OpenDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

// OpenRedis returns a redis client for the configured server
func OpenRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// NewEngine builds the credit engine from the business settings
func NewEngine(cfg *config.Config, logger *zap.Logger) *credit.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []credit.Option{
		credit.WithLogger(logger.Named("credit")),
		credit.WithStrictConvergence(cfg.Business.StrictIRR),
	}

	if cfg.Business.IRRGuess != 0 {
		opts = append(opts, credit.WithIRRSolver(credit.IRRSolver{
			Guess:         cfg.Business.IRRGuess,
			MaxIterations: cfg.Business.IRRMaxIterations,
			Tolerance:     credit.IRRTolerance,
		}))
	} else {
		opts = append(opts, credit.WithIRRMaxIterations(cfg.Business.IRRMaxIterations))
	}

	return credit.NewEngine(opts...)
}
