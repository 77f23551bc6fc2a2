// Package cache puts a TTL cache and in-flight deduplication in front of the
// translation provider pool. One TranslationCache is built per process and
// injected wherever lookups happen.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"horse.fit/lingomix/internal/language"
	"horse.fit/lingomix/internal/translation"
)

const (
	DefaultTTL        = 30 * 24 * time.Hour
	DefaultMaxEntries = 50000

	secondaryTimeout = 2 * time.Second
)

// Translator is the upstream lookup, normally *translation.Pool.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) translation.Result
}

// Options tunes a TranslationCache. A nil Secondary keeps the cache in memory
// and a zero MaxEntries leaves the memory tier unbounded.
type Options struct {
	TTL        time.Duration
	MaxEntries int
	Secondary  Store
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Backend     string `json:"backend"`
	Entries     int    `json:"entries"`
	Hits        int64  `json:"hits"`
	Misses      int64  `json:"misses"`
	Sets        int64  `json:"sets"`
	Expirations int64  `json:"expirations"`
	Evictions   int64  `json:"evictions"`
	Lookups     int64  `json:"lookups"`
	Shared      int64  `json:"shared"`
}

// TranslationCache answers lookups from the TTL tiers and collapses
// concurrent misses for the same key into one upstream call.
type TranslationCache struct {
	upstream  Translator
	memory    *memoryStore
	secondary Store
	dedupe    *Deduplicator
	ttl       time.Duration
	logger    zerolog.Logger

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

func New(upstream Translator, logger zerolog.Logger, opts Options) *TranslationCache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	maxEntries := opts.MaxEntries
	if maxEntries < 0 {
		maxEntries = DefaultMaxEntries
	}
	return &TranslationCache{
		upstream:  upstream,
		memory:    newMemoryStore(ttl, maxEntries),
		secondary: opts.Secondary,
		dedupe:    NewDeduplicator(),
		ttl:       ttl,
		logger:    logger.With().Str("component", "translation_cache").Logger(),
	}
}

// Key builds the cache key for one lookup. Text is NFC-normalized so that
// composed and decomposed spellings share an entry.
func Key(text, from, to string) string {
	return "translation:" + norm.NFC.String(text) + ":" + language.NormalizeCode(from) + ":" + language.NormalizeCode(to)
}

// Translate returns a cached translation when one is live, otherwise asks the
// upstream once per key no matter how many callers are waiting. Only results
// that actually translated the text are stored. The returned error is non-nil
// only when ctx ends before a result is available.
func (c *TranslationCache) Translate(ctx context.Context, text, from, to string) (translation.Result, error) {
	key := Key(text, from, to)
	if value, ok := c.lookup(ctx, key); ok {
		return translation.Result{
			Original:    text,
			Translation: value,
			FromLang:    from,
			ToLang:      to,
			Provider:    translation.ProviderCache,
			Cached:      true,
		}, nil
	}

	return Dedupe(ctx, c.dedupe, key, func() (translation.Result, error) {
		detached := context.WithoutCancel(ctx)
		result := c.upstream.Translate(detached, text, from, to)
		if result.Translated() {
			c.store(detached, Entry{
				Key:         key,
				Original:    text,
				Translation: result.Translation,
				FromLang:    from,
				ToLang:      to,
				Provider:    result.Provider,
			})
		}
		return result, nil
	})
}

// Get reads key from the tiers without touching the upstream.
func (c *TranslationCache) Get(ctx context.Context, key string) (string, bool) {
	return c.lookup(ctx, key)
}

// Set stores a translation under key in every tier.
func (c *TranslationCache) Set(ctx context.Context, entry Entry) {
	c.store(ctx, entry)
}

// Purge drops expired entries from the memory tier.
func (c *TranslationCache) Purge() int {
	return c.memory.purge()
}

func (c *TranslationCache) Stats() Stats {
	expirations, evictions := c.memory.counters()
	backend := "memory"
	if c.secondary != nil {
		backend = "memory+" + c.secondary.Name()
	}
	return Stats{
		Backend:     backend,
		Entries:     c.memory.len(),
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Expirations: expirations,
		Evictions:   evictions,
		Lookups:     c.dedupe.Calls(),
		Shared:      c.dedupe.Shared(),
	}
}

// Ping checks the secondary tier, if any.
func (c *TranslationCache) Ping(ctx context.Context) error {
	if c.secondary == nil {
		return nil
	}
	return c.secondary.Ping(ctx)
}

func (c *TranslationCache) Close() error {
	if c.secondary == nil {
		return nil
	}
	return c.secondary.Close()
}

func (c *TranslationCache) lookup(ctx context.Context, key string) (string, bool) {
	if value, ok := c.memory.get(key); ok {
		c.hits.Add(1)
		return value, true
	}

	if c.secondary != nil {
		loadCtx, cancel := context.WithTimeout(ctx, secondaryTimeout)
		value, ok, err := c.secondary.Load(loadCtx, key)
		cancel()
		if err != nil {
			c.logger.Warn().Err(err).Str("store", c.secondary.Name()).Msg("secondary cache lookup failed")
		}
		if ok {
			c.memory.set(key, value)
			c.hits.Add(1)
			return value, true
		}
	}

	c.misses.Add(1)
	return "", false
}

func (c *TranslationCache) store(ctx context.Context, entry Entry) {
	c.memory.set(entry.Key, entry.Translation)
	c.sets.Add(1)

	if c.secondary == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(ctx, secondaryTimeout)
	defer cancel()
	if err := c.secondary.Save(saveCtx, entry, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("store", c.secondary.Name()).Msg("secondary cache write failed")
	}
}
