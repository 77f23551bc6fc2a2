// Package langdetect guesses the language of free text for requests that ask
// for sourceLang "auto".
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// minLetters is the shortest sample worth handing to the detector.
const minLetters = 6

// Detector is restricted to the languages the service is configured for.
// Models load on first use.
type Detector struct {
	languages []lingua.Language

	once     sync.Once
	detector lingua.LanguageDetector
}

// New builds a detector for the given ISO 639-1 codes. Unknown codes are
// ignored; with fewer than two known codes every language is considered.
func New(codes []string) *Detector {
	wanted := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		wanted[strings.ToLower(strings.TrimSpace(code))] = struct{}{}
	}

	d := &Detector{}
	for _, lang := range lingua.AllLanguages() {
		if _, ok := wanted[strings.ToLower(lang.IsoCode639_1().String())]; ok {
			d.languages = append(d.languages, lang)
		}
	}
	return d
}

// Detect returns the ISO 639-1 code of text, or false when the sample is too
// short or the detector is unsure.
func (d *Detector) Detect(text string) (string, bool) {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return "", false
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < minLetters {
		return "", false
	}

	language, exists := d.get().DetectLanguageOf(sample)
	if !exists {
		return "", false
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return "", false
	}
	return code, true
}

func (d *Detector) get() lingua.LanguageDetector {
	d.once.Do(func() {
		var builder lingua.LanguageDetectorBuilder
		if len(d.languages) >= 2 {
			builder = lingua.NewLanguageDetectorBuilder().FromLanguages(d.languages...)
		} else {
			builder = lingua.NewLanguageDetectorBuilder().FromAllLanguages()
		}
		d.detector = builder.WithPreloadedLanguageModels().Build()
	})
	return d.detector
}
