package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Pinger is anything that can report its own reachability.
type Pinger interface{ Ping(ctx context.Context) error }

// RedisClient is the minimal interface for a Redis client needed for readiness.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// BuildReadinessChecks returns the redis and tika checks. A check is nil
// when its dependency is not configured, so /readyz skips it.
func BuildReadinessChecks(rdb RedisClient, tika Pinger) (
	redisCheck func(ctx context.Context) error,
	tikaCheck func(ctx context.Context) error,
) {
	if rdb != nil {
		redisCheck = func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		}
	}
	if tika != nil {
		tikaCheck = func(ctx context.Context) error {
			if err := tika.Ping(ctx); err != nil {
				return errors.Join(errors.New("tika unavailable"), err)
			}
			return nil
		}
	}
	return redisCheck, tikaCheck
}
