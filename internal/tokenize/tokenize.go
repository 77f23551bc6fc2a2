// Package tokenize finds translatable token occurrences in normalized text.
//
// Languages without whitespace word boundaries are segmented either by the
// kagome morphological analyzer (Japanese) or by maximal runs of the
// language's script (Chinese, Korean). Whitespace-delimited languages yield
// no occurrences here; they go through Chunks instead.
//
// Offsets are byte offsets: text[o.Start:o.End] == o.Token for every
// returned Occurrence.
package tokenize

import (
	"errors"
	"fmt"
	"sort"

	"horse.fit/lingomix/internal/langconfig"
)

// Part-of-speech labels attached to occurrences.
const (
	PosNoun          = "noun"
	PosVerb          = "verb"
	PosAdjective     = "adjective"
	PosAdverb        = "adverb"
	PosParticle      = "particle"
	PosAuxiliaryVerb = "auxiliary_verb"
	PosSymbol        = "symbol"
	PosConjunction   = "conjunction"
	PosAdnominal     = "adnominal"
	PosPrefix        = "prefix"
	PosInterjection  = "interjection"
	PosFiller        = "filler"
	PosOther         = "other"
)

// excludedPOS is grammatical glue that has no standalone translation.
var excludedPOS = map[string]struct{}{
	PosParticle:      {},
	PosAuxiliaryVerb: {},
	PosSymbol:        {},
	PosConjunction:   {},
}

// ErrUnknownLanguage is returned for language codes missing from the table.
var ErrUnknownLanguage = errors.New("unknown language")

// Occurrence is one token found at [Start, End) in the text.
type Occurrence struct {
	Token        string `json:"token"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	PartOfSpeech string `json:"partOfSpeech,omitempty"`
}

// Segmenter splits text into candidate occurrences for one language.
type Segmenter interface {
	Segment(text string, lang langconfig.Language) ([]Occurrence, error)
}

// Extractor maps a language to its segmenter and filters the result.
type Extractor struct {
	languages  *langconfig.Config
	segmenters map[string]Segmenter
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithSegmenter replaces the segmenter used for a segmenter kind
// (langconfig.SegmenterKagome or langconfig.SegmenterScriptRun).
func WithSegmenter(kind string, seg Segmenter) Option {
	return func(e *Extractor) {
		e.segmenters[kind] = seg
	}
}

func NewExtractor(languages *langconfig.Config, opts ...Option) *Extractor {
	e := &Extractor{
		languages: languages,
		segmenters: map[string]Segmenter{
			langconfig.SegmenterKagome:    NewKagomeSegmenter(),
			langconfig.SegmenterScriptRun: ScriptRunSegmenter{},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractTokens returns the occurrences of translatable tokens of lang in
// text, sorted by Start. Segmenter failures are returned as errors.
func (e *Extractor) ExtractTokens(text, lang string) ([]Occurrence, error) {
	if e == nil {
		return nil, fmt.Errorf("extractor is nil")
	}
	language, ok := e.languages.Language(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if !language.Segmented() || text == "" {
		return nil, nil
	}

	seg, ok := e.segmenters[language.Segmenter]
	if !ok {
		return nil, fmt.Errorf("no segmenter registered for %q", language.Segmenter)
	}

	raw, err := seg.Segment(text, language)
	if err != nil {
		return nil, fmt.Errorf("segment %s text: %w", language.Code, err)
	}

	out := make([]Occurrence, 0, len(raw))
	for _, occ := range raw {
		if occ.End <= occ.Start || occ.Start < 0 || occ.End > len(text) {
			continue
		}
		if _, skip := excludedPOS[occ.PartOfSpeech]; skip {
			continue
		}
		if !language.HasScript(occ.Token) {
			continue
		}
		out = append(out, occ)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}
