package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/credit-simulator/internal/domain"
	customError "github.com/segyhp/credit-simulator/pkg/errors"
)

type redisScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScheduleCache returns a ScheduleCache backed by redis. A zero ttl keeps
// entries until evicted.
func NewScheduleCache(client *redis.Client, ttl time.Duration) ScheduleCache {
	return &redisScheduleCache{client: client, ttl: ttl}
}

// ScheduleCacheKey is the redis key holding a simulation's schedule
func ScheduleCacheKey(simulationID uuid.UUID) string {
	return fmt.Sprintf("simulation:%s:schedule", simulationID)
}

func (c *redisScheduleCache) GetSchedule(ctx context.Context, simulationID uuid.UUID) ([]*domain.PaymentScheduleEntry, bool, error) {
	raw, err := c.client.Get(ctx, ScheduleCacheKey(simulationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, customError.WrapCacheError(err)
	}

	var entries []*domain.PaymentScheduleEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, customError.WrapCacheError(fmt.Errorf("decode cached schedule: %w", err))
	}
	return entries, true, nil
}

func (c *redisScheduleCache) SetSchedule(ctx context.Context, simulationID uuid.UUID, entries []*domain.PaymentScheduleEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	if err := c.client.Set(ctx, ScheduleCacheKey(simulationID), raw, c.ttl).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

func (c *redisScheduleCache) DeleteSchedule(ctx context.Context, simulationIDs ...uuid.UUID) error {
	if len(simulationIDs) == 0 {
		return nil
	}
	keys := make([]string, len(simulationIDs))
	for i, id := range simulationIDs {
		keys[i] = ScheduleCacheKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}
