package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	CacheBackendMemory   = "memory"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	LanguageConfigPath string `envconfig:"LANGUAGE_CONFIG_PATH" default:""`

	CacheBackend    string        `envconfig:"CACHE_BACKEND" default:"memory"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"720h"`
	CacheMaxEntries int           `envconfig:"CACHE_MAX_ENTRIES" default:"50000"`
	RedisURL        string        `envconfig:"REDIS_URL" default:""`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"NP_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"NP_DB_MAX_CONNS" default:"8"`

	ProviderTimeout          time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"15s"`
	LocalTranslationEndpoint string        `envconfig:"LOCAL_TRANSLATION_ENDPOINT" default:""`
	LocalTranslationModel    string        `envconfig:"LOCAL_TRANSLATION_MODEL" default:"tencent/HY-MT1.5-7B"`
	LibreTranslateAPIKey     string        `envconfig:"LIBRETRANSLATE_API_KEY" default:""`

	MixerLookupLimit int `envconfig:"MIXER_LOOKUP_LIMIT" default:"32"`

	RedditUserAgent    string `envconfig:"REDDIT_USER_AGENT" default:"lingomix/1.0 (+https://horse.fit/lingomix)"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
	case CacheBackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when CACHE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, redis, postgres (got %q)", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}
	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be >= 0")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("NP_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("NP_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("NP_DB_MIN_CONNS (%d) cannot exceed NP_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.MixerLookupLimit < 0 {
		return fmt.Errorf("MIXER_LOOKUP_LIMIT must be >= 0")
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be > 0")
	}
	return nil
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
