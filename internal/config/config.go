// Package config defines configuration parsing and helpers.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Suggestion strategies.
const (
	StrategyLLM       = "llm"
	StrategyHeuristic = "heuristic"
	StrategyStatic    = "static"
)

// Name extractors.
const (
	NameExtractorEntity    = "entity"
	NameExtractorFirstLine = "firstline"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	UploadTempDir         string        `env:"UPLOAD_TEMP_DIR"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"90s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	// HTTPErrorStatus switches handled upload failures from 200 payload errors
	// to 4xx/5xx responses.
	HTTPErrorStatus bool `env:"HTTP_ERROR_STATUS" envDefault:"false"`

	// TikaURL specifies the base URL for the Apache Tika server used for .doc and image extraction
	TikaURL     string        `env:"TIKA_URL" envDefault:"http://tika:9998"`
	TikaTimeout time.Duration `env:"TIKA_TIMEOUT" envDefault:"60s"`
	OCRLanguage string        `env:"OCR_LANGUAGE" envDefault:"eng"`

	OpenAIAPIKey        string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL       string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel         string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	OpenAITimeout       time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s"`
	OpenAITemperature   float32       `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	SuggestionMaxTokens int           `env:"SUGGESTION_MAX_TOKENS" envDefault:"1000"`
	PromptMaxTokens     int           `env:"PROMPT_MAX_TOKENS" envDefault:"3000"`
	SuggestionsStrategy string        `env:"SUGGESTIONS_STRATEGY" envDefault:"llm"`
	SuggestionsFallback string        `env:"SUGGESTIONS_FALLBACK" envDefault:"static"`

	RapidAPIKey            string        `env:"RAPIDAPI_KEY"`
	RapidAPIHost           string        `env:"RAPIDAPI_HOST" envDefault:"jsearch.p.rapidapi.com"`
	JSearchBaseURL         string        `env:"JSEARCH_BASE_URL" envDefault:"https://jsearch.p.rapidapi.com"`
	JSearchTimeout         time.Duration `env:"JSEARCH_TIMEOUT" envDefault:"10s"`
	JSearchRateLimitPerMin int           `env:"JSEARCH_RATE_LIMIT_PER_MIN" envDefault:"0"`
	RedisURL               string        `env:"REDIS_URL"`
	JobCacheTTL            time.Duration `env:"JOB_CACHE_TTL" envDefault:"1h"`

	NameExtractor string `env:"NAME_EXTRACTOR" envDefault:"entity"`
	CatalogPath   string `env:"CATALOG_PATH"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"resumeiq"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("op=config.LoadDotEnv: %w", err)
		}
	}
	return nil
}

// Validate rejects values the application cannot run with.
func (c Config) Validate() error {
	switch strings.ToLower(c.SuggestionsStrategy) {
	case StrategyLLM, StrategyHeuristic, StrategyStatic:
	default:
		return fmt.Errorf("invalid SUGGESTIONS_STRATEGY %q", c.SuggestionsStrategy)
	}
	switch strings.ToLower(c.SuggestionsFallback) {
	case StrategyHeuristic, StrategyStatic:
	default:
		return fmt.Errorf("invalid SUGGESTIONS_FALLBACK %q", c.SuggestionsFallback)
	}
	switch strings.ToLower(c.NameExtractor) {
	case NameExtractorEntity, NameExtractorFirstLine:
	default:
		return fmt.Errorf("invalid NAME_EXTRACTOR %q", c.NameExtractor)
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// LLMEnabled reports whether a language model credential is configured.
func (c Config) LLMEnabled() bool { return strings.TrimSpace(c.OpenAIAPIKey) != "" }

// JobSearchEnabled reports whether a job search credential is configured.
func (c Config) JobSearchEnabled() bool { return strings.TrimSpace(c.RapidAPIKey) != "" }

// MaxUploadBytes is the upload body limit in bytes.
func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB * 1024 * 1024 }
