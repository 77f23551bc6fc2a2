package mixer

import (
	"context"
	"strings"

	"horse.fit/lingomix/internal/language"
	"horse.fit/lingomix/internal/markdown"
	"horse.fit/lingomix/internal/vocab"
)

// VocabularyRequest asks for the vocabulary report of Text written in Lang.
// A non-empty TranslateTo attaches translations into that language.
type VocabularyRequest struct {
	Text        string `json:"text"`
	Lang        string `json:"lang"`
	TranslateTo string `json:"translateTo,omitempty"`
}

// Vocabulary lists the teachable words of the text. Segmented languages use
// the token extractor; everything else uses the chunker and the eligibility
// heuristic.
func (m *Mixer) Vocabulary(ctx context.Context, req VocabularyRequest) ([]vocab.Item, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, invalidText("text must be a non-empty string")
	}
	lang := language.NormalizeCode(req.Lang)
	l, ok := m.languages.Language(lang)
	if !ok {
		return nil, unsupportedPair("language %q is not configured", req.Lang)
	}

	to := language.NormalizeCode(req.TranslateTo)
	if to != "" {
		if _, ok := m.languages.Pair(lang, to); !ok {
			return nil, unsupportedPair("language pair %s is not enabled", language.PairKey(lang, to))
		}
	}

	text := markdown.Normalize(req.Text)
	var items []vocab.Item
	if l.Segmented() {
		occs, err := m.extractor.ExtractTokens(text, lang)
		if err != nil {
			m.logger.Warn().Err(err).Str("lang", lang).Msg("token extraction failed, empty vocabulary")
			return []vocab.Item{}, nil
		}
		items = vocab.FromOccurrences(occs)
	} else {
		items = vocab.ExtractVocabulary(text)
	}
	if items == nil {
		items = []vocab.Item{}
	}
	if to == "" || len(items) == 0 {
		return items, nil
	}

	words := make([]string, len(items))
	for i, item := range items {
		words[i] = item.Word
	}
	translations, _, err := m.resolveTranslations(ctx, words, lang, to)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Translation = translations[items[i].Word]
	}
	return items, nil
}
