package translation

import (
	"sort"

	"horse.fit/lingomix/internal/langconfig"
)

// LanguageOption is one selectable language with the targets it can be
// translated into.
type LanguageOption struct {
	Code       string   `json:"code"`
	Label      string   `json:"label"`
	Native     string   `json:"native,omitempty"`
	Script     string   `json:"script"`
	ShowScript bool     `json:"showScript,omitempty"`
	Targets    []string `json:"targets"`
}

// LanguageOptions lists every configured language that appears in at least
// one enabled pair, sorted by code.
func LanguageOptions(languages *langconfig.Config) []LanguageOption {
	targets := map[string][]string{}
	for _, pair := range languages.Pairs() {
		targets[pair.From] = append(targets[pair.From], pair.To)
		if _, ok := targets[pair.To]; !ok {
			targets[pair.To] = nil
		}
	}

	options := make([]LanguageOption, 0, len(targets))
	for _, lang := range languages.Languages() {
		to, ok := targets[lang.Code]
		if !ok {
			continue
		}
		sort.Strings(to)
		if to == nil {
			to = []string{}
		}
		options = append(options, LanguageOption{
			Code:       lang.Code,
			Label:      lang.Label,
			Native:     lang.Native,
			Script:     lang.Script,
			ShowScript: lang.ShowScript,
			Targets:    to,
		})
	}
	return options
}
