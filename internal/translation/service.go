// Package translation queries external translation backends. A Pool fans a
// lookup out to every provider configured for the language pair, waits for
// all of them, and keeps the first success in configured priority order.
package translation

import (
	"context"
	"errors"
)

// Sentinel provider names that do not refer to a backend.
const (
	ProviderCache       = "cache"
	ProviderUnsupported = "unsupported"
	ProviderFallback    = "fallback"
)

var (
	// ErrEmptyTranslation marks a response that was blank, echoed the input,
	// or contained only punctuation.
	ErrEmptyTranslation = errors.New("provider returned no usable translation")
	// ErrProviderNotRegistered is recorded for configured ids without an instance.
	ErrProviderNotRegistered = errors.New("provider is not registered")
)

// Provider translates free-form text between languages.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
	Name() string
}

// TranslateRequest describes one translation request.
type TranslateRequest struct {
	Text       string
	SourceLang string // ISO 639-1 (for example: "ja", "en")
	TargetLang string
}

// TranslateResponse contains translated text and provider metadata.
type TranslateResponse struct {
	Text         string
	SourceLang   string
	TargetLang   string
	ProviderName string
	LatencyMs    int64
}

// Result is the outcome of one lookup as seen by callers of the pipeline.
// Translation == Original with Provider "fallback" or "unsupported" means no
// provider produced a different text; callers must treat it as a soft failure.
type Result struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
	FromLang    string `json:"fromLang"`
	ToLang      string `json:"toLang"`
	Provider    string `json:"provider"`
	Cached      bool   `json:"cached"`
}

// Translated reports whether a backend (or the cache) produced the result.
func (r Result) Translated() bool {
	return r.Provider != ProviderFallback && r.Provider != ProviderUnsupported && r.Translation != r.Original
}
