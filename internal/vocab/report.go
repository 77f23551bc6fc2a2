package vocab

import (
	"strings"

	"horse.fit/lingomix/internal/tokenize"
)

// Item is one row of the vocabulary report.
type Item struct {
	Word        string `json:"word"`
	Position    int    `json:"position"`
	Type        string `json:"type"`
	Difficulty  int    `json:"difficulty"`
	Translation string `json:"translation"`
}

// ExtractVocabulary lists the eligible words of whitespace-delimited text in
// order of first appearance. Position is the byte offset of that first
// appearance; repeated words (case-insensitive) are reported once.
func ExtractVocabulary(text string) []Item {
	seen := make(map[string]struct{})
	var items []Item
	for _, chunk := range tokenize.Chunks(text) {
		if chunk.Kind != tokenize.ChunkWord || !IsEligibleToken(chunk.Text) {
			continue
		}
		key := strings.ToLower(chunk.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		pos := GuessPartOfSpeech(chunk.Text)
		items = append(items, Item{
			Word:       chunk.Text,
			Position:   chunk.Start,
			Type:       pos,
			Difficulty: ClassifyDifficulty(chunk.Text, pos),
		})
	}
	return items
}

// FromOccurrences builds report rows for analyzer output of a segmented language.
func FromOccurrences(occs []tokenize.Occurrence) []Item {
	seen := make(map[string]struct{})
	items := make([]Item, 0, len(occs))
	for _, occ := range occs {
		if _, dup := seen[occ.Token]; dup {
			continue
		}
		seen[occ.Token] = struct{}{}

		pos := occ.PartOfSpeech
		if pos == "" {
			pos = TypeUnknown
		}
		items = append(items, Item{
			Word:       occ.Token,
			Position:   occ.Start,
			Type:       pos,
			Difficulty: ClassifyDifficulty(occ.Token, pos),
		})
	}
	return items
}
