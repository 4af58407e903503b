package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkuznetsov91/busbooking/config"
	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	tripsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, tripsTTL time.Duration) *RedisCache {
	if tripsTTL <= 0 {
		tripsTTL = time.Minute
	}
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		tripsTTL: tripsTTL,
	}
}

func (c *RedisCache) GetTrips(ctx context.Context) ([]domain.Trip, error) {
	data, err := c.client.Get(ctx, tripsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var trips []domain.Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *RedisCache) SetTrips(ctx context.Context, trips []domain.Trip) error {
	payload, err := json.Marshal(trips)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tripsKey(), payload, c.tripsTTL).Err()
}

// AcquireCancellationLock is a fast duplicate-submission guard in front of
// the database's pending-request constraint.
func (c *RedisCache) AcquireCancellationLock(ctx context.Context, pnr string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, cancellationLockKey(pnr), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseCancellationLock(ctx context.Context, pnr string) error {
	return c.client.Del(ctx, cancellationLockKey(pnr)).Err()
}

func tripsKey() string {
	return "cache:trips"
}

func cancellationLockKey(pnr string) string {
	return fmt.Sprintf("lock:cancellation:%s", pnr)
}
