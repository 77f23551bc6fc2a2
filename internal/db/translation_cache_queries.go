package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"
)

// UpsertCachedTranslationParams controls translation cache upserts.
type UpsertCachedTranslationParams struct {
	CacheKey     string
	OriginalText string
	Translation  string
	FromLang     string
	ToLang       string
	ProviderName string
	ExpiresAt    time.Time
}

// LookupCachedTranslation returns the translation stored under key when it
// has not expired at now. A miss returns ErrNoRows.
func (p *Pool) LookupCachedTranslation(ctx context.Context, key string, now time.Time) (string, error) {
	if p == nil || p.gdb == nil {
		return "", ErrNoRows
	}

	var entry TranslationCacheEntry
	err := p.gdb.WithContext(ctx).
		Select("translation").
		Where("cache_key = ? AND expires_at > ?", key, now).
		Take(&entry).Error
	if err != nil {
		return "", err
	}
	return entry.Translation, nil
}

// UpsertCachedTranslation inserts a row or refreshes translation, provider
// and expiry of an existing one.
func (p *Pool) UpsertCachedTranslation(ctx context.Context, row UpsertCachedTranslationParams) error {
	if p == nil || p.gdb == nil {
		return errNotInitialized
	}

	entry := TranslationCacheEntry{
		CacheKey:     row.CacheKey,
		OriginalText: row.OriginalText,
		Translation:  row.Translation,
		FromLang:     row.FromLang,
		ToLang:       row.ToLang,
		ProviderName: row.ProviderName,
		ExpiresAt:    row.ExpiresAt,
	}
	err := p.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"translation", "provider_name", "expires_at", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert cached translation: %w", err)
	}
	return nil
}

// DeleteExpiredTranslations removes rows that expired at or before now.
func (p *Pool) DeleteExpiredTranslations(ctx context.Context, now time.Time) (int64, error) {
	if p == nil || p.gdb == nil {
		return 0, errNotInitialized
	}

	res := p.gdb.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&TranslationCacheEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired translations: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CountCachedTranslations counts live rows.
func (p *Pool) CountCachedTranslations(ctx context.Context, now time.Time) (int64, error) {
	if p == nil || p.gdb == nil {
		return 0, errNotInitialized
	}

	var count int64
	err := p.gdb.WithContext(ctx).
		Model(&TranslationCacheEntry{}).
		Where("expires_at > ?", now).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count cached translations: %w", err)
	}
	return count, nil
}
