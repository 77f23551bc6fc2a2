package mixer

import (
	"context"
	"strings"
)

// extract glosses target-language tokens of text for a reader of source.
// Lookups run target->source.
func (m *Mixer) extract(ctx context.Context, text, target, source string) (*MixedContent, error) {
	occs, err := m.extractor.ExtractTokens(text, target)
	if err != nil {
		m.logger.Warn().Err(err).Str("lang", target).Msg("token extraction failed, returning text unchanged")
		content := emptyContent(text)
		content.Diagnostics.ExtractionError = err.Error()
		return content, nil
	}
	if len(occs) == 0 {
		return emptyContent(text), nil
	}

	unique := make([]string, 0, len(occs))
	seen := make(map[string]struct{}, len(occs))
	for _, occ := range occs {
		if _, dup := seen[occ.Token]; dup {
			continue
		}
		seen[occ.Token] = struct{}{}
		unique = append(unique, occ.Token)
	}

	translations, fallbacks, err := m.resolveTranslations(ctx, unique, target, source)
	if err != nil {
		return nil, err
	}

	showScript := m.showScript(target)
	var b strings.Builder
	b.Grow(len(text))
	metadata := make([]WordMetadataEntry, 0, len(occs))
	cursor := 0
	skipped := 0
	for _, occ := range occs {
		if occ.Start < cursor {
			skipped++
			continue
		}
		b.WriteString(text[cursor:occ.Start])
		idx := len(metadata)
		b.WriteString(Placeholder(idx))
		metadata = append(metadata, WordMetadataEntry{
			Index:          idx,
			Original:       occ.Token,
			Translation:    translations[occ.Token],
			TargetLanguage: target,
			ShowScript:     showScript,
		})
		cursor = occ.End
	}
	b.WriteString(text[cursor:])

	if skipped > 0 {
		m.logger.Debug().Int("skipped", skipped).Str("lang", target).Msg("skipped overlapping tokens")
	}

	return &MixedContent{
		Text:                b.String(),
		WordMetadata:        metadata,
		AllWordTranslations: translations,
		Diagnostics: Diagnostics{
			Tokens:          len(occs),
			UniqueTokens:    len(unique),
			SkippedOverlaps: skipped,
			Fallbacks:       fallbacks,
			Replaced:        len(metadata),
		},
	}, nil
}
