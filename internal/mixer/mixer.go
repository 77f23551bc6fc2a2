// Package mixer turns normalized text into mixed-language content: a string
// with numbered {{WORD:n}} placeholders plus the metadata a reader UI needs
// to render each placeholder.
package mixer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"horse.fit/lingomix/internal/langconfig"
	"horse.fit/lingomix/internal/language"
	"horse.fit/lingomix/internal/markdown"
	"horse.fit/lingomix/internal/tokenize"
	"horse.fit/lingomix/internal/translation"
)

// Mode selects the mixing algorithm.
type Mode string

const (
	// ModeAuto uses extraction when the target language needs a segmenter
	// and selection otherwise.
	ModeAuto Mode = "auto"
	// ModeExtraction glosses target-language tokens found by the extractor.
	ModeExtraction Mode = "extraction"
	// ModeSelection replaces a level-controlled share of source words.
	ModeSelection Mode = "selection"
)

// ParseMode accepts "", "auto", "extraction" and "selection".
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeExtraction:
		return ModeExtraction, nil
	case ModeSelection:
		return ModeSelection, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected auto, extraction or selection)", raw)
	}
}

// Request is one CreateMixedContent call.
type Request struct {
	Text       string `json:"text"`
	UserLevel  int    `json:"userLevel"`
	TargetLang string `json:"targetLang"`
	SourceLang string `json:"sourceLang"`
	Mode       Mode   `json:"mode,omitempty"`
}

// WordMetadataEntry describes the placeholder {{WORD:Index}}.
type WordMetadataEntry struct {
	Index          int    `json:"index"`
	Original       string `json:"original"`
	Translation    string `json:"translation"`
	TargetLanguage string `json:"targetLanguage"`
	ShowScript     bool   `json:"showScript,omitempty"`
}

// MixedContent is immutable once returned.
type MixedContent struct {
	Text                string              `json:"text"`
	WordMetadata        []WordMetadataEntry `json:"wordMetadata"`
	AllWordTranslations map[string]string   `json:"allWordTranslations"`

	Diagnostics Diagnostics `json:"-"`
}

// Diagnostics records how a result was produced. It is not part of the
// wire format.
type Diagnostics struct {
	Mode            Mode   `json:"mode"`
	SourceLang      string `json:"sourceLang"`
	Tokens          int    `json:"tokens"`
	UniqueTokens    int    `json:"uniqueTokens"`
	SkippedOverlaps int    `json:"skippedOverlaps"`
	Fallbacks       int    `json:"fallbacks"`
	Budget          int    `json:"budget"`
	Replaced        int    `json:"replaced"`
	ExtractionError string `json:"extractionError,omitempty"`
}

// Translator resolves one token, normally *cache.TranslationCache. A non-nil
// error means ctx ended.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (translation.Result, error)
}

// Detector guesses the language of text for sourceLang "auto".
type Detector interface {
	Detect(text string) (string, bool)
}

// Mixer builds mixed-language content. It is safe for concurrent use.
type Mixer struct {
	languages   *langconfig.Config
	extractor   *tokenize.Extractor
	translator  Translator
	detector    Detector
	lookupLimit int
	logger      zerolog.Logger
}

type Option func(*Mixer)

// WithDetector enables sourceLang "auto".
func WithDetector(d Detector) Option {
	return func(m *Mixer) {
		m.detector = d
	}
}

// WithLookupLimit caps concurrent token lookups per call. Zero or less
// means every unique token is looked up at once.
func WithLookupLimit(n int) Option {
	return func(m *Mixer) {
		m.lookupLimit = n
	}
}

func New(languages *langconfig.Config, extractor *tokenize.Extractor, translator Translator, logger zerolog.Logger, opts ...Option) *Mixer {
	m := &Mixer{
		languages:  languages,
		extractor:  extractor,
		translator: translator,
		logger:     logger.With().Str("component", "mixer").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateMixedContent validates req, normalizes its text and runs the mode
// picked by req.Mode. Only *Error values and ctx errors are returned; every
// other failure degrades the result.
func (m *Mixer) CreateMixedContent(ctx context.Context, req Request) (*MixedContent, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, invalidText("text must be a non-empty string")
	}

	target, source, err := m.resolvePair(req)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" || mode == ModeAuto {
		mode = ModeSelection
		if lang, ok := m.languages.Language(target); ok && lang.Segmented() {
			mode = ModeExtraction
		}
	}

	level := langconfig.ClampLevel(req.UserLevel)
	normalized := neutralizeMarkers(markdown.Normalize(req.Text))

	var content *MixedContent
	switch mode {
	case ModeExtraction:
		content, err = m.extract(ctx, normalized, target, source)
	case ModeSelection:
		content, err = m.selectWords(ctx, normalized, level, target, source)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return nil, err
	}

	content.Diagnostics.Mode = mode
	content.Diagnostics.SourceLang = source
	m.logger.Debug().
		Str("mode", string(mode)).
		Str("target", target).
		Str("source", source).
		Int("words", len(content.WordMetadata)).
		Int("fallbacks", content.Diagnostics.Fallbacks).
		Int("skipped_overlaps", content.Diagnostics.SkippedOverlaps).
		Msg("mixed content created")
	return content, nil
}

// neutralizeMarkers drops one brace from every marker-shaped sequence already
// in text so that the only markers in the output are the ones assembled here.
func neutralizeMarkers(text string) string {
	for strings.Contains(text, markerOpen) {
		text = strings.ReplaceAll(text, markerOpen, markerOpen[1:])
	}
	return text
}

// resolvePair normalizes the language codes, detects "auto" sources and
// checks that the "<target>-<source>" pair is enabled.
func (m *Mixer) resolvePair(req Request) (string, string, error) {
	target := language.NormalizeCode(req.TargetLang)
	source := language.NormalizeCode(req.SourceLang)
	if target == "" {
		return "", "", unsupportedPair("targetLang %q is not a language code", req.TargetLang)
	}

	if source == "" || source == language.Auto {
		if m.detector == nil {
			return "", "", unsupportedPair("sourceLang %q requires language detection", req.SourceLang)
		}
		detected, ok := m.detector.Detect(markdown.Normalize(req.Text))
		if !ok {
			return "", "", unsupportedPair("could not detect the source language")
		}
		source = detected
	}

	if _, ok := m.languages.Pair(target, source); !ok {
		return "", "", unsupportedPair("language pair %s is not enabled", language.PairKey(target, source))
	}
	return target, source, nil
}

// resolveTranslations looks up every word concurrently. Words whose lookup
// produced nothing map to themselves. The count of such fallbacks is returned
// alongside the map.
func (m *Mixer) resolveTranslations(ctx context.Context, words []string, from, to string) (map[string]string, int, error) {
	results := make([]translation.Result, len(words))

	g, gctx := errgroup.WithContext(ctx)
	if m.lookupLimit > 0 {
		g.SetLimit(m.lookupLimit)
	}
	for idx, word := range words {
		g.Go(func() error {
			result, err := m.translator.Translate(gctx, word, from, to)
			if err != nil {
				return err
			}
			results[idx] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	translations := make(map[string]string, len(words))
	fallbacks := 0
	for idx, word := range words {
		result := results[idx]
		if !result.Translated() {
			fallbacks++
			m.logger.Debug().
				Str("word", word).
				Str("provider", result.Provider).
				Str("from", from).
				Str("to", to).
				Msg("no translation, echoing original")
			translations[word] = word
			continue
		}
		translations[word] = result.Translation
	}
	return translations, fallbacks, nil
}

func (m *Mixer) showScript(lang string) bool {
	l, ok := m.languages.Language(lang)
	return ok && l.ShowScript
}

func emptyContent(text string) *MixedContent {
	return &MixedContent{
		Text:                text,
		WordMetadata:        []WordMetadataEntry{},
		AllWordTranslations: map[string]string{},
	}
}

const markerOpen = "{{WORD:"

// Placeholder renders the marker for index i.
func Placeholder(i int) string {
	return markerOpen + strconv.Itoa(i) + "}}"
}
