package tokenize

import (
	"unicode/utf8"

	"horse.fit/lingomix/internal/langconfig"
)

// ScriptRunSegmenter emits every maximal run of the language's script as
// one occurrence.
type ScriptRunSegmenter struct{}

func (ScriptRunSegmenter) Segment(text string, lang langconfig.Language) ([]Occurrence, error) {
	var occs []Occurrence
	start := -1
	for i, r := range text {
		if r != utf8.RuneError && lang.InScript(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			occs = append(occs, Occurrence{Token: text[start:i], Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		occs = append(occs, Occurrence{Token: text[start:], Start: start, End: len(text)})
	}
	return occs, nil
}
