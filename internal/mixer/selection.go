package mixer

import (
	"context"
	"math"
	"sort"
	"strings"

	"horse.fit/lingomix/internal/tokenize"
	"horse.fit/lingomix/internal/vocab"
)

// wordGroup gathers every occurrence of one word, compared case-insensitively.
type wordGroup struct {
	key        string
	first      int
	count      int
	eligible   bool
	difficulty int
}

// selectWords replaces a level-controlled share of the words of text with
// placeholders. Lookups run source->target.
//
// The budget is floor(words*fraction) replaced occurrences. A selected word
// is replaced everywhere it appears, so a word only fits when all of its
// occurrences fit in what is left of the budget. Eligible words closest to
// the reader's level go first, then the remaining words in text order.
func (m *Mixer) selectWords(ctx context.Context, text string, level int, target, source string) (*MixedContent, error) {
	chunks := tokenize.Chunks(text)

	groups := make(map[string]*wordGroup)
	order := make([]*wordGroup, 0)
	totalWords := 0
	for _, chunk := range chunks {
		if chunk.Kind != tokenize.ChunkWord {
			continue
		}
		totalWords++
		key := strings.ToLower(chunk.Text)
		if g, ok := groups[key]; ok {
			g.count++
			continue
		}
		g := &wordGroup{
			key:      key,
			first:    chunk.Start,
			count:    1,
			eligible: vocab.IsEligibleToken(chunk.Text),
		}
		if g.eligible {
			g.difficulty = vocab.ClassifyDifficulty(chunk.Text, vocab.GuessPartOfSpeech(chunk.Text))
		}
		groups[key] = g
		order = append(order, g)
	}
	if totalWords == 0 {
		return emptyContent(text), nil
	}

	budget := int(math.Floor(float64(totalWords) * m.languages.Fraction(level)))
	selected := pickWords(order, budget, level)

	words := make([]string, 0, len(order))
	for _, g := range order {
		words = append(words, g.key)
	}
	translations, fallbacks, err := m.resolveTranslations(ctx, words, source, target)
	if err != nil {
		return nil, err
	}

	showScript := m.showScript(target)
	var b strings.Builder
	b.Grow(len(text))
	metadata := make([]WordMetadataEntry, 0, budget)
	for _, chunk := range chunks {
		if chunk.Kind != tokenize.ChunkWord {
			b.WriteString(chunk.Text)
			continue
		}
		key := strings.ToLower(chunk.Text)
		if _, ok := selected[key]; !ok {
			b.WriteString(chunk.Text)
			continue
		}
		idx := len(metadata)
		b.WriteString(Placeholder(idx))
		metadata = append(metadata, WordMetadataEntry{
			Index:          idx,
			Original:       chunk.Text,
			Translation:    translations[key],
			TargetLanguage: target,
			ShowScript:     showScript,
		})
	}

	return &MixedContent{
		Text:                b.String(),
		WordMetadata:        metadata,
		AllWordTranslations: translations,
		Diagnostics: Diagnostics{
			Tokens:       totalWords,
			UniqueTokens: len(order),
			Fallbacks:    fallbacks,
			Budget:       budget,
			Replaced:     len(metadata),
		},
	}, nil
}

// pickWords spends budget on whole word groups, eligible ones first.
func pickWords(order []*wordGroup, budget, level int) map[string]struct{} {
	selected := make(map[string]struct{})
	if budget <= 0 {
		return selected
	}

	eligible := make([]*wordGroup, 0, len(order))
	rest := make([]*wordGroup, 0, len(order))
	for _, g := range order {
		if g.eligible {
			eligible = append(eligible, g)
		} else {
			rest = append(rest, g)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		di, dj := distance(eligible[i].difficulty, level), distance(eligible[j].difficulty, level)
		if di != dj {
			return di < dj
		}
		return eligible[i].first < eligible[j].first
	})

	remaining := budget
	for _, g := range append(eligible, rest...) {
		if remaining == 0 {
			break
		}
		if g.count > remaining {
			continue
		}
		selected[g.key] = struct{}{}
		remaining -= g.count
	}
	return selected
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
