package tokenize

import (
	"errors"
	"strings"
	"testing"

	"horse.fit/lingomix/internal/langconfig"
)

func defaultLanguages(t *testing.T) *langconfig.Config {
	t.Helper()
	cfg, err := langconfig.Default()
	if err != nil {
		t.Fatalf("load language config: %v", err)
	}
	return cfg
}

type stubSegmenter struct {
	occs []Occurrence
	err  error
}

func (s stubSegmenter) Segment(string, langconfig.Language) ([]Occurrence, error) {
	return s.occs, s.err
}

func assertOffsets(t *testing.T, text string, occs []Occurrence) {
	t.Helper()
	for i, occ := range occs {
		if text[occ.Start:occ.End] != occ.Token {
			t.Fatalf("occurrence %d: text[%d:%d]=%q, token=%q", i, occ.Start, occ.End, text[occ.Start:occ.End], occ.Token)
		}
		if i > 0 && occs[i-1].Start > occ.Start {
			t.Fatalf("occurrences not sorted at %d", i)
		}
	}
}

func TestExtractTokensJapanese(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(defaultLanguages(t))
	text := "東京は日本の首都です。"
	occs, err := extractor.ExtractTokens(text, "ja")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	assertOffsets(t, text, occs)

	got := make([]string, 0, len(occs))
	for _, occ := range occs {
		got = append(got, occ.Token)
	}
	joined := strings.Join(got, "|")
	if joined != "東京|日本|首都" {
		t.Fatalf("unexpected tokens: %s", joined)
	}
	for _, occ := range occs {
		if occ.PartOfSpeech != PosNoun {
			t.Fatalf("expected noun for %q, got %q", occ.Token, occ.PartOfSpeech)
		}
	}
}

func TestExtractTokensLatinTextAgainstJapanese(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(defaultLanguages(t))
	occs, err := extractor.ExtractTokens("The quick brown fox", "ja")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(occs) != 0 {
		t.Fatalf("expected no Japanese tokens, got %+v", occs)
	}
}

func TestExtractTokensWhitespaceLanguageIsEmpty(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(defaultLanguages(t))
	occs, err := extractor.ExtractTokens("The quick brown fox", "en")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(occs) != 0 {
		t.Fatalf("expected empty result for whitespace language, got %+v", occs)
	}
}

func TestExtractTokensUnknownLanguage(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(defaultLanguages(t))
	if _, err := extractor.ExtractTokens("text", "xx"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestExtractTokensFiltersAndSorts(t *testing.T) {
	t.Parallel()

	text := "猫がいる。dog"
	seg := stubSegmenter{occs: []Occurrence{
		{Token: "いる", Start: 6, End: 12, PartOfSpeech: PosVerb},
		{Token: "猫", Start: 0, End: 3, PartOfSpeech: PosNoun},
		{Token: "が", Start: 3, End: 6, PartOfSpeech: PosParticle},
		{Token: "。", Start: 12, End: 15, PartOfSpeech: PosSymbol},
		{Token: "dog", Start: 15, End: 18, PartOfSpeech: PosNoun},
		{Token: "", Start: 3, End: 3, PartOfSpeech: PosNoun},
	}}
	extractor := NewExtractor(defaultLanguages(t), WithSegmenter(langconfig.SegmenterKagome, seg))

	occs, err := extractor.ExtractTokens(text, "ja")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	assertOffsets(t, text, occs)
	if len(occs) != 2 || occs[0].Token != "猫" || occs[1].Token != "いる" {
		t.Fatalf("unexpected occurrences: %+v", occs)
	}
}

func TestExtractTokensPropagatesSegmenterError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	extractor := NewExtractor(defaultLanguages(t), WithSegmenter(langconfig.SegmenterKagome, stubSegmenter{err: boom}))
	if _, err := extractor.ExtractTokens("猫", "ja"); !errors.Is(err, boom) {
		t.Fatalf("expected segmenter error, got %v", err)
	}
}

func TestScriptRunSegmenterKorean(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(defaultLanguages(t))
	text := "나는 학교에 갑니다 (school)."
	occs, err := extractor.ExtractTokens(text, "ko")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	assertOffsets(t, text, occs)
	if len(occs) != 3 || occs[0].Token != "나는" || occs[2].Token != "갑니다" {
		t.Fatalf("unexpected korean occurrences: %+v", occs)
	}
}

func TestChunksReconstructInput(t *testing.T) {
	t.Parallel()

	text := "Don't stop;the well-known fox, 42 times!  Café?"
	chunks := Chunks(text)

	var b strings.Builder
	words := 0
	for i, c := range chunks {
		if text[c.Start:c.End] != c.Text {
			t.Fatalf("chunk %d offsets mismatch", i)
		}
		if i > 0 && chunks[i-1].End != c.Start {
			t.Fatalf("gap between chunk %d and %d", i-1, i)
		}
		if c.Kind == ChunkWord {
			words++
		}
		b.WriteString(c.Text)
	}
	if b.String() != text {
		t.Fatalf("chunks do not reconstruct input: %q", b.String())
	}
	// Don't, stop, the, well-known, fox, 42, times, Café
	if words != 8 {
		t.Fatalf("unexpected word count: got %d want 8", words)
	}
	if chunks[0].Text != "Don't" || chunks[0].Kind != ChunkWord {
		t.Fatalf("expected apostrophe word first, got %+v", chunks[0])
	}
}
