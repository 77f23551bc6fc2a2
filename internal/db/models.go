package db

import "time"

// TranslationCacheEntry maps lingomix.translation_cache.
type TranslationCacheEntry struct {
	CacheKey     string    `gorm:"column:cache_key;type:text;primaryKey"`
	OriginalText string    `gorm:"column:original_text;type:text;not null"`
	Translation  string    `gorm:"column:translation;type:text;not null"`
	FromLang     string    `gorm:"column:from_lang;type:text;not null"`
	ToLang       string    `gorm:"column:to_lang;type:text;not null"`
	ProviderName string    `gorm:"column:provider_name;type:text;not null"`
	ExpiresAt    time.Time `gorm:"column:expires_at;type:timestamptz;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (TranslationCacheEntry) TableName() string { return "lingomix.translation_cache" }

func autoMigrateModels() []any {
	return []any{
		&TranslationCacheEntry{},
	}
}
