package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resumeiq/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*JobCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewJobCache(rdb, ttl), mr
}

func TestJobCache_RoundTripAndKeying(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Hour)

	jobs := []domain.JobListing{{Title: "Go Developer", Company: "Acme", ApplyLink: "https://acme.example"}}
	require.NoError(t, c.Set(ctx, "Go", "in", jobs))

	got, found, err := c.Get(ctx, " go ", "IN")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, jobs, got)

	_, found, err = c.Get(ctx, "go", "us")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJobCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, c.Set(ctx, "java", "us", []domain.JobListing{{Title: "x"}}))
	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, "java", "us")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJobCache_EmptyNotStored(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, c.Set(ctx, "rust", "in", nil))
	assert.Empty(t, mr.Keys())
}

func TestJobCache_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, mr.Set(c.key("go", "in"), "not json"))
	_, found, err := c.Get(ctx, "go", "in")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestJobCache_RedisDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, found, err := c.Get(ctx, "go", "in")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, c.Set(ctx, "go", "in", []domain.JobListing{{Title: "x"}}))
}
