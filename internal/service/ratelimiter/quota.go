package ratelimiter

import (
	"context"
	"fmt"
)

// Quota adapts a Limiter to domain.QuotaLimiter with a cost of one token
// per call.
type Quota struct {
	limiter Limiter
}

// NewQuota wraps l. A nil l allows every call.
func NewQuota(l Limiter) *Quota { return &Quota{limiter: l} }

// Allow implements domain.QuotaLimiter.
func (q *Quota) Allow(ctx context.Context, key string) (bool, error) {
	if q == nil || q.limiter == nil {
		return true, nil
	}
	allowed, _, err := q.limiter.Allow(ctx, key, 1)
	if err != nil {
		return allowed, fmt.Errorf("op=ratelimiter.Quota.Allow: %w", err)
	}
	return allowed, nil
}
