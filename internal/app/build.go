package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resumeiq/internal/adapter/ai/chat"
	"github.com/fairyhunter13/resumeiq/internal/adapter/cache/rediscache"
	httpserver "github.com/fairyhunter13/resumeiq/internal/adapter/httpserver"
	"github.com/fairyhunter13/resumeiq/internal/adapter/jobsearch/jsearch"
	"github.com/fairyhunter13/resumeiq/internal/adapter/textextractor"
	"github.com/fairyhunter13/resumeiq/internal/adapter/textextractor/tika"
	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/service/breaker"
	"github.com/fairyhunter13/resumeiq/internal/service/jobs"
	"github.com/fairyhunter13/resumeiq/internal/service/ratelimiter"
	"github.com/fairyhunter13/resumeiq/internal/service/resumeparser"
	"github.com/fairyhunter13/resumeiq/internal/service/scoring"
	"github.com/fairyhunter13/resumeiq/internal/service/suggestions"
	"github.com/fairyhunter13/resumeiq/internal/usecase"
)

// Components is the wired application.
type Components struct {
	Catalog   *config.Catalog
	Extractor *textextractor.Registry
	Uploads   usecase.UploadService
	Analyzer  usecase.AnalyzeService
	Jobs      *jobs.Recommender
	Server    *httpserver.Server

	redis *redis.Client
}

// Close releases the Redis connection pool, if any.
func (c *Components) Close() error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Close()
}

type buildOptions struct {
	offline bool
}

// BuildOption customizes Build.
type BuildOption func(*buildOptions)

// WithOffline disables the model, job search, Tika and Redis collaborators
// so only the local extractors and fallbacks run.
func WithOffline() BuildOption {
	return func(o *buildOptions) { o.offline = true }
}

// Build wires every component from cfg. Optional collaborators whose
// configuration is missing are left out and their fallbacks serve instead.
func Build(ctx context.Context, cfg config.Config, opts ...BuildOption) (*Components, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("op=app.Build: %w", err)
	}

	c := &Components{Catalog: catalog}

	var tikaClient *tika.Client
	var remote domain.TextExtractor
	if !o.offline && cfg.TikaURL != "" {
		tikaClient = tika.New(cfg.TikaURL, cfg.TikaTimeout,
			tika.WithAllowedRoots(cfg.UploadTempDir),
			tika.WithOCRLanguage(cfg.OCRLanguage),
		)
		remote = tikaClient
	}
	c.Extractor = textextractor.NewRegistry(remote)
	c.Uploads = usecase.NewUploadService(c.Extractor, cfg.UploadTempDir)

	if !o.offline && cfg.RedisURL != "" {
		rdb, err := newRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable, job cache and quota disabled", slog.Any("error", err))
		} else {
			c.redis = rdb
		}
	}

	var searcher domain.JobSearcher
	if !o.offline && cfg.JobSearchEnabled() {
		searcher = jsearch.New(jsearch.Config{
			APIKey:  cfg.RapidAPIKey,
			Host:    cfg.RapidAPIHost,
			BaseURL: cfg.JSearchBaseURL,
			Timeout: cfg.JSearchTimeout,
		})
	} else {
		slog.Info("job search disabled, serving offline listings")
	}
	jobOpts := []jobs.Option{jobs.WithBreaker(breaker.New("jsearch"))}
	if c.redis != nil {
		jobOpts = append(jobOpts, jobs.WithCache(rediscache.NewJobCache(c.redis, cfg.JobCacheTTL)))
		if cfg.JSearchRateLimitPerMin > 0 {
			limiter := ratelimiter.NewRedisLuaLimiter(c.redis, map[string]ratelimiter.BucketConfig{
				jobs.QuotaKey: ratelimiter.NewBucketConfigFromPerMinute(cfg.JSearchRateLimitPerMin),
			})
			jobOpts = append(jobOpts, jobs.WithQuota(ratelimiter.NewQuota(limiter)))
		}
	}
	c.Jobs = jobs.NewRecommender(catalog, searcher, jobOpts...)

	var chatClient domain.ChatClient
	if !o.offline && cfg.LLMEnabled() {
		cc := chat.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAITimeout,
			chat.WithTemperature(cfg.OpenAITemperature))
		slog.Info("language model enabled", slog.String("model", cc.Model()))
		chatClient = cc
	} else {
		slog.Info("language model disabled, suggestions use the fallback", slog.String("fallback", cfg.SuggestionsFallback))
	}
	generator := suggestions.New(cfg.SuggestionsStrategy, cfg.SuggestionsFallback, chatClient, suggestions.LLMConfig{
		Model:           cfg.OpenAIModel,
		MaxTokens:       cfg.SuggestionMaxTokens,
		PromptMaxTokens: cfg.PromptMaxTokens,
	})

	names := resumeparser.NewNameExtractor(cfg.NameExtractor)
	c.Analyzer = usecase.NewAnalyzeService(
		resumeparser.New(catalog.SkillKeywords, names),
		scoring.New(catalog.MarketSkills, catalog.SkillKeywords),
		c.Jobs,
		generator,
	)

	var redisClient RedisClient
	if c.redis != nil {
		redisClient = c.redis
	}
	var tikaPinger Pinger
	if tikaClient != nil {
		tikaPinger = tikaClient
	}
	redisCheck, tikaCheck := BuildReadinessChecks(redisClient, tikaPinger)
	c.Server = httpserver.NewServer(cfg, c.Uploads, c.Analyzer, c.Jobs, redisCheck, tikaCheck)
	return c, nil
}

// newRedis connects to url and verifies the connection with a short ping.
func newRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=app.newRedis: %w", err)
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("op=app.newRedis: %w", err)
	}
	return rdb, nil
}
