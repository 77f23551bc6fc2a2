package language

import (
	"fmt"
	"strings"
)

// Auto asks the caller to detect the source language from the text.
const Auto = "auto"

// NormalizeTag normalizes a language tag to lowercase and "-" separators.
// Returns an empty string when the value is blank or contains invalid characters.
func NormalizeTag(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}

	trimmed = strings.ReplaceAll(trimmed, "_", "-")
	parts := strings.Split(trimmed, "-")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !isAlphaLower(part) {
			return ""
		}
		normalized = append(normalized, part)
	}

	if len(normalized) == 0 {
		return ""
	}
	return strings.Join(normalized, "-")
}

// NormalizeCode returns the primary language subtag (for example, "en" from "en-US").
func NormalizeCode(raw string) string {
	tag := NormalizeTag(raw)
	if tag == "" {
		return ""
	}
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		return tag[:dash]
	}
	return tag
}

// PairKey builds the "<from>-<to>" key used by the language pair table.
func PairKey(from, to string) string {
	return NormalizeCode(from) + "-" + NormalizeCode(to)
}

// SplitPairKey is the inverse of PairKey.
func SplitPairKey(key string) (string, string, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(key), "-")
	if !ok {
		return "", "", fmt.Errorf("language pair %q must look like <from>-<to>", key)
	}
	from = NormalizeCode(from)
	to = NormalizeCode(to)
	if from == "" || to == "" {
		return "", "", fmt.Errorf("language pair %q has an invalid language code", key)
	}
	return from, to, nil
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
