package translation

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateTranslation rejects blank output, output that only echoes the
// input, and output without a single letter or digit.
func ValidateTranslation(input, output string) error {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return fmt.Errorf("%w: blank", ErrEmptyTranslation)
	}
	if strings.EqualFold(trimmed, strings.TrimSpace(input)) {
		return fmt.Errorf("%w: echoed input", ErrEmptyTranslation)
	}
	if !strings.ContainsFunc(trimmed, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}) {
		return fmt.Errorf("%w: punctuation only", ErrEmptyTranslation)
	}
	return nil
}
