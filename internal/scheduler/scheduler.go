package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/segyhp/credit-simulator/internal/config"
)

// Expirer expires simulations past their quote validity window
type Expirer interface {
	ExpireStaleSimulations(ctx context.Context) (int, error)
}

// jobTimeout bounds one run of a scheduled job
const jobTimeout = 5 * time.Minute

// New returns a cron scheduler with the simulation jobs registered. The
// caller starts and stops it.
func New(cfg *config.Config, expirer Expirer, logger *zap.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.GetSchedulerLocation()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	// Daily job to expire stale simulations (runs at midnight by default)
	if _, err := c.AddFunc(cfg.Scheduler.ExpireSpec, ExpireJob(expirer, logger, jobTimeout)); err != nil {
		return nil, err
	}

	return c, nil
}

// ExpireJob wraps one expiry run as a cron job
func ExpireJob(expirer Expirer, logger *zap.Logger, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		logger.Info("running simulation expiry job")
		count, err := expirer.ExpireStaleSimulations(ctx)
		if err != nil {
			logger.Error("simulation expiry job failed", zap.Error(err))
			return
		}
		logger.Info("simulation expiry job finished", zap.Int("expired", count))
	}
}
