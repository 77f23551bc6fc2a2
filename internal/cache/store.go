package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"horse.fit/lingomix/internal/db"
	"horse.fit/lingomix/internal/globaltime"
)

// Entry is one successful translation handed to a secondary store.
type Entry struct {
	Key         string
	Original    string
	Translation string
	FromLang    string
	ToLang      string
	Provider    string
}

// Store is a secondary tier shared across processes. Load reports a miss
// with ok=false and a nil error.
type Store interface {
	Name() string
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, entry Entry, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore keeps translations as plain string keys with a native TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore parses redisURL and pings the server.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Name() string {
	return "redis"
}

func (s *RedisStore) Load(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

func (s *RedisStore) Save(ctx context.Context, entry Entry, ttl time.Duration) error {
	if err := s.client.Set(ctx, entry.Key, entry.Translation, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// PostgresStore keeps translations in lingomix.translation_cache.
type PostgresStore struct {
	pool *db.Pool
}

func NewPostgresStore(pool *db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Name() string {
	return "postgres"
}

func (s *PostgresStore) Load(ctx context.Context, key string) (string, bool, error) {
	value, err := s.pool.LookupCachedTranslation(ctx, key, globaltime.UTC())
	if db.IsNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres lookup: %w", err)
	}
	return value, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, entry Entry, ttl time.Duration) error {
	return s.pool.UpsertCachedTranslation(ctx, db.UpsertCachedTranslationParams{
		CacheKey:     entry.Key,
		OriginalText: entry.Original,
		Translation:  entry.Translation,
		FromLang:     entry.FromLang,
		ToLang:       entry.ToLang,
		ProviderName: entry.Provider,
		ExpiresAt:    globaltime.UTC().Add(ttl),
	})
}

// Prune deletes expired rows.
func (s *PostgresStore) Prune(ctx context.Context) (int64, error) {
	return s.pool.DeleteExpiredTranslations(ctx, globaltime.UTC())
}

// Count reports the number of live rows.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	return s.pool.CountCachedTranslations(ctx, globaltime.UTC())
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	return s.pool.Close()
}
