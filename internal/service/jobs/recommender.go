// Package jobs recommends job listings for the top resume skill, falling
// back to synthesized listings whenever the live search cannot answer.
package jobs

import (
	"context"
	"fmt"

	obsmetrics "github.com/fairyhunter13/resumeiq/internal/adapter/observability"
	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/observability"
	"github.com/fairyhunter13/resumeiq/internal/service/breaker"
)

// QuotaKey names the outbound job search bucket.
const QuotaKey = "jsearch"

// Recommender implements the live-then-offline lookup.
type Recommender struct {
	catalog  *config.Catalog
	searcher domain.JobSearcher
	cache    domain.JobCache
	quota    domain.QuotaLimiter
	breaker  *breaker.Breaker
}

// Option customizes a Recommender.
type Option func(*Recommender)

// WithCache serves repeated lookups from c. Only live results are stored.
func WithCache(c domain.JobCache) Option {
	return func(r *Recommender) { r.cache = c }
}

// WithQuota checks q before every live search.
func WithQuota(q domain.QuotaLimiter) Option {
	return func(r *Recommender) { r.quota = q }
}

// WithBreaker skips the live search while b is open.
func WithBreaker(b *breaker.Breaker) Option {
	return func(r *Recommender) { r.breaker = b }
}

// NewRecommender builds a recommender. A nil searcher always serves the
// offline listings.
func NewRecommender(catalog *config.Catalog, searcher domain.JobSearcher, opts ...Option) *Recommender {
	r := &Recommender{catalog: catalog, searcher: searcher}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Recommend returns listings for skill in country. The only error is
// domain.ErrUnsupportedCountry; every collaborator failure degrades to
// MockJobs.
func (r *Recommender) Recommend(ctx context.Context, skill, country string) ([]domain.JobListing, error) {
	if !domain.ValidCountry(country) {
		return nil, fmt.Errorf("op=jobs.Recommend: %w: %q", domain.ErrUnsupportedCountry, country)
	}
	lg := observability.Logger(ctx, "skill", skill, "country", country)

	if r.searcher == nil {
		return r.fallback(skill, country), nil
	}

	if r.cache != nil {
		jobs, found, err := r.cache.Get(ctx, skill, country)
		switch {
		case err != nil:
			lg.Warn("job cache lookup failed", "error", err)
		case found && len(jobs) > 0:
			lg.Debug("job cache hit", "count", len(jobs))
			return jobs, nil
		}
	}

	if r.quota != nil {
		allowed, err := r.quota.Allow(ctx, QuotaKey)
		if err != nil {
			lg.Warn("job search quota check failed", "error", err)
		}
		if !allowed {
			lg.Info("job search quota exhausted, serving offline listings")
			return r.fallback(skill, country), nil
		}
	}

	if !r.breaker.Allow() {
		lg.Info("job search circuit open, serving offline listings")
		return r.fallback(skill, country), nil
	}
	jobs, err := r.searcher.Search(ctx, skill, country)
	if err != nil || len(jobs) == 0 {
		r.breaker.Failure()
		lg.Warn("job search failed, serving offline listings", "error", err)
		return r.fallback(skill, country), nil
	}
	r.breaker.Success()

	if r.cache != nil {
		if err := r.cache.Set(ctx, skill, country, jobs); err != nil {
			lg.Warn("job cache store failed", "error", err)
		}
	}
	return jobs, nil
}

func (r *Recommender) fallback(skill, country string) []domain.JobListing {
	obsmetrics.RecordFallback("jobs")
	return MockJobs(r.catalog, skill, country)
}
