package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/lingomix/internal/cache"
	"horse.fit/lingomix/internal/cli"
	"horse.fit/lingomix/internal/config"
	"horse.fit/lingomix/internal/db"
	"horse.fit/lingomix/internal/langconfig"
	"horse.fit/lingomix/internal/langdetect"
	"horse.fit/lingomix/internal/logging"
	"horse.fit/lingomix/internal/mixer"
	"horse.fit/lingomix/internal/tokenize"
	"horse.fit/lingomix/internal/translation"
)

// services is the wired pipeline shared by every command.
type services struct {
	cfg       *config.Config
	logger    zerolog.Logger
	languages *langconfig.Config
	registry  *translation.Registry
	pool      *translation.Pool
	cache     *cache.TranslationCache
	mixer     *mixer.Mixer
	store     cache.Store
}

func loadConfig(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func loadLanguages(path string) (*langconfig.Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return langconfig.Default()
	}
	return langconfig.Load(path)
}

// newServices wires languages, providers, cache tiers and the mixer from cfg.
// The caller owns the returned value and must Close it.
func newServices(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*services, error) {
	languages, err := loadLanguages(cfg.LanguageConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load language config: %w", err)
	}

	registry := translation.NewRegistryFromConfig(languages, translation.RegistryOptions{
		HTTPClient:           &http.Client{Timeout: 2 * cfg.ProviderTimeout},
		LocalEndpoint:        cfg.LocalTranslationEndpoint,
		LocalModel:           cfg.LocalTranslationModel,
		LibreTranslateAPIKey: cfg.LibreTranslateAPIKey,
	})
	pool := translation.NewPool(languages, registry, logger, translation.PoolOptions{
		DefaultTimeout: cfg.ProviderTimeout,
	})

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	translationCache := cache.New(pool, logger, cache.Options{
		TTL:        cfg.CacheTTL,
		MaxEntries: cfg.CacheMaxEntries,
		Secondary:  store,
	})

	codes := make([]string, 0)
	for _, lang := range languages.Languages() {
		codes = append(codes, lang.Code)
	}

	m := mixer.New(
		languages,
		tokenize.NewExtractor(languages),
		translationCache,
		logger,
		mixer.WithDetector(langdetect.New(codes)),
		mixer.WithLookupLimit(cfg.MixerLookupLimit),
	)

	logger.Debug().
		Str("cache_backend", cfg.CacheBackend).
		Strs("providers", registry.ProviderNames()).
		Int("pairs", len(languages.Pairs())).
		Msg("pipeline ready")

	return &services{
		cfg:       cfg,
		logger:    logger,
		languages: languages,
		registry:  registry,
		pool:      pool,
		cache:     translationCache,
		mixer:     m,
		store:     store,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	case config.CacheBackendPostgres:
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := db.NewPool(dbCtx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return cache.NewPostgresStore(pool), nil
	default:
		return nil, nil
	}
}

func (s *services) Close() {
	if s == nil || s.cache == nil {
		return
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("close cache store")
	}
}

// connectServices loads config and wires the pipeline, printing failures the
// way every command reports them.
func connectServices(timeout time.Duration, envLoader *cli.EnvLoader) (context.Context, context.CancelFunc, *services, error) {
	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		return nil, nil, nil, err
	}

	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	svc, err := newServices(ctx, cfg, logger)
	if err != nil {
		cancel()
		logger.Error().Err(err).Msg("pipeline setup failed")
		return nil, nil, nil, err
	}
	return ctx, cancel, svc, nil
}
