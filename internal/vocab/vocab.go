// Package vocab decides which words are worth teaching and how hard they are.
// Everything here is pure; translations are attached by callers.
package vocab

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"horse.fit/lingomix/internal/tokenize"
)

const (
	minEligibleRunes = 2
	maxEligibleRunes = 20
	maxRepeatRun     = 3

	MinDifficulty = 1
	MaxDifficulty = 5
)

// Part-of-speech guesses for whitespace-delimited text. Segmented languages
// carry the analyzer's tags from package tokenize instead.
const (
	TypeFunction  = "function"
	TypeNoun      = tokenize.PosNoun
	TypeVerb      = tokenize.PosVerb
	TypeAdjective = tokenize.PosAdjective
	TypeAdverb    = tokenize.PosAdverb
	TypeUnknown   = "unknown"
)

var functionWords = toSet(
	"a", "an", "the", "and", "or", "but", "nor", "so", "yet", "if", "then",
	"of", "in", "on", "at", "to", "for", "from", "by", "with", "about", "as",
	"into", "onto", "over", "under", "up", "down", "out", "off",
	"i", "me", "my", "we", "us", "our", "you", "your", "he", "him", "his",
	"she", "her", "it", "its", "they", "them", "their", "this", "that",
	"these", "those", "who", "whom", "which", "what",
	"is", "am", "are", "was", "were", "be", "been", "being", "do", "does",
	"did", "have", "has", "had", "will", "would", "can", "could", "shall",
	"should", "may", "might", "must", "not", "no", "yes",
	"i'm", "it's", "don't", "can't", "won't", "isn't", "aren't", "didn't",
)

// IsEligibleToken reports whether token is a reasonable teaching unit:
// 2 to 20 letters (apostrophes and hyphens allowed), at least one letter,
// and no character repeated four or more times in a row.
func IsEligibleToken(token string) bool {
	n := utf8.RuneCountInString(token)
	if n < minEligibleRunes || n > maxEligibleRunes {
		return false
	}

	letters := 0
	run := 0
	var prev rune
	for i, r := range []rune(token) {
		switch {
		case unicode.IsLetter(r) || unicode.Is(unicode.Mn, r):
			letters++
		case r == '\'' || r == '’' || r == '-':
		default:
			return false
		}

		lower := unicode.ToLower(r)
		if i > 0 && lower == prev {
			run++
		} else {
			run = 1
		}
		if run > maxRepeatRun {
			return false
		}
		prev = lower
	}
	return letters > 0
}

// IsFunctionWord reports whether token is a closed-class English word.
func IsFunctionWord(token string) bool {
	_, ok := functionWords[strings.ToLower(token)]
	return ok
}

// GuessPartOfSpeech assigns a coarse part of speech to an English word from
// its shape.
func GuessPartOfSpeech(word string) string {
	lower := strings.ToLower(word)
	switch {
	case lower == "":
		return TypeUnknown
	case IsFunctionWord(lower):
		return TypeFunction
	case hasAnySuffix(lower, "ly"):
		return TypeAdverb
	case hasAnySuffix(lower, "ous", "ful", "able", "ible", "ive", "less", "ical", "ish"):
		return TypeAdjective
	case hasAnySuffix(lower, "ing", "ed", "ize", "ise", "ify", "ate"):
		return TypeVerb
	case hasAnySuffix(lower, "tion", "sion", "ness", "ment", "ity", "ship", "ance", "ence", "er", "or", "ist"):
		return TypeNoun
	default:
		return TypeUnknown
	}
}

// ClassifyDifficulty rates token from MinDifficulty to MaxDifficulty.
// Function words are always the easiest; longer words and modifiers rate
// higher. Characters of logographic and syllabic scripts count double.
func ClassifyDifficulty(token, partOfSpeech string) int {
	if partOfSpeech == TypeFunction || IsFunctionWord(token) {
		return MinDifficulty
	}
	switch partOfSpeech {
	case tokenize.PosParticle, tokenize.PosAuxiliaryVerb, tokenize.PosConjunction, tokenize.PosSymbol:
		return MinDifficulty
	}

	weight := 0
	for _, r := range token {
		switch {
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul):
			weight += 2
		case unicode.IsLetter(r):
			weight++
		}
	}
	if partOfSpeech == TypeAdjective || partOfSpeech == TypeAdverb {
		weight++
	}

	switch {
	case weight <= 3:
		return 1
	case weight <= 5:
		return 2
	case weight <= 7:
		return 3
	case weight <= 9:
		return 4
	default:
		return MaxDifficulty
	}
}

func hasAnySuffix(word string, suffixes ...string) bool {
	for _, s := range suffixes {
		if len(word) > len(s)+1 && strings.HasSuffix(word, s) {
			return true
		}
	}
	return false
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
