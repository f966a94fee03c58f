// Package rediscache stores job search results in Redis.
package rediscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/observability"
)

// JobCache implements domain.JobCache with one JSON value per
// (skill, country) pair.
type JobCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	obs    *observability.ExternalClient
}

// NewJobCache builds a cache whose entries expire after ttl.
func NewJobCache(rdb redis.Cmdable, ttl time.Duration) *JobCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JobCache{
		rdb:    rdb,
		ttl:    ttl,
		prefix: "resumeiq:jobs:",
		obs:    observability.NewExternalClient(observability.ConnectionTypeRedis, "job_cache", 2*time.Second),
	}
}

// Get implements domain.JobCache.
func (c *JobCache) Get(ctx domain.Context, skill, country string) ([]domain.JobListing, bool, error) {
	var raw []byte
	err := c.obs.Execute(ctx, "get", func(ctx context.Context) error {
		b, err := c.rdb.Get(ctx, c.key(skill, country)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		raw = b
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("op=rediscache.Get: %w", err)
	}
	if raw == nil {
		return nil, false, nil
	}
	var jobs []domain.JobListing
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, false, fmt.Errorf("op=rediscache.Get: decode: %w", err)
	}
	return jobs, true, nil
}

// Set implements domain.JobCache. Empty slices are not stored.
func (c *JobCache) Set(ctx domain.Context, skill, country string, jobs []domain.JobListing) error {
	if len(jobs) == 0 {
		return nil
	}
	raw, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("op=rediscache.Set: encode: %w", err)
	}
	err = c.obs.Execute(ctx, "set", func(ctx context.Context) error {
		return c.rdb.Set(ctx, c.key(skill, country), raw, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("op=rediscache.Set: %w", err)
	}
	return nil
}

func (c *JobCache) key(skill, country string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(skill))))
	return c.prefix + strings.ToLower(country) + ":" + hex.EncodeToString(h[:8])
}
