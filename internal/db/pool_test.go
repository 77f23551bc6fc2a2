package db

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestResolveGormLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level       string
		environment string
		want        logger.LogLevel
	}{
		{level: "debug", want: logger.Info},
		{level: "", want: logger.Warn},
		{level: "error", want: logger.Error},
		{level: "silent", want: logger.Silent},
		{level: "verbose", environment: "local", want: logger.Warn},
		{level: "verbose", environment: "production", want: logger.Error},
	}
	for _, tc := range cases {
		if got := resolveGormLogLevel(tc.level, tc.environment); got != tc.want {
			t.Fatalf("resolveGormLogLevel(%q, %q) = %v, want %v", tc.level, tc.environment, got, tc.want)
		}
	}
}

func TestNilPoolReportsUninitialized(t *testing.T) {
	t.Parallel()

	var pool *Pool
	if _, err := pool.LookupCachedTranslation(context.Background(), "k", time.Time{}); !IsNoRows(err) {
		t.Fatalf("expected no rows from nil pool, got %v", err)
	}
	if err := pool.UpsertCachedTranslation(context.Background(), UpsertCachedTranslationParams{CacheKey: "k"}); err == nil {
		t.Fatalf("expected error from nil pool")
	}
	if err := pool.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error from nil pool")
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("close nil pool: %v", err)
	}
}

func TestAutoMigrateModelsTableNames(t *testing.T) {
	t.Parallel()

	models := autoMigrateModels()
	if len(models) != 1 {
		t.Fatalf("expected one model, got %d", len(models))
	}
	entry, ok := models[0].(*TranslationCacheEntry)
	if !ok || entry.TableName() != "lingomix.translation_cache" {
		t.Fatalf("unexpected model %#v", models[0])
	}
}

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	gormLogger := newGormLogger(log.New(&buf, "", 0), logger.Error)
	query := func() (string, int64) { return "SELECT translation FROM translation_cache", 0 }

	gormLogger.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("expected cache miss to stay quiet, got %q", buf.String())
	}

	gormLogger.Trace(context.Background(), time.Now(), query, errors.New("connection reset"))
	if buf.Len() == 0 {
		t.Fatalf("expected failed statement to be logged")
	}
}
