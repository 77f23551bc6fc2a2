package language

import "testing"

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	if got := NormalizeTag(" EN_us "); got != "en-us" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("zh-Hans"); got != "zh-hans" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("en--US"); got != "en-us" {
		t.Fatalf("unexpected collapsed tag: %q", got)
	}
	if got := NormalizeTag("en_123"); got != "" {
		t.Fatalf("expected invalid tag to normalize to empty string, got %q", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCode(" EN-us "); got != "en" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode("zh"); got != "zh" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode(" "); got != "" {
		t.Fatalf("expected empty code for blank input, got %q", got)
	}
}

func TestPairKey(t *testing.T) {
	t.Parallel()

	if got := PairKey("JA", "en-US"); got != "ja-en" {
		t.Fatalf("unexpected pair key: %q", got)
	}

	from, to, err := SplitPairKey("ja-en")
	if err != nil {
		t.Fatalf("split pair key: %v", err)
	}
	if from != "ja" || to != "en" {
		t.Fatalf("unexpected split: %q %q", from, to)
	}

	if _, _, err := SplitPairKey("japanese"); err == nil {
		t.Fatalf("expected error for key without separator")
	}
	if _, _, err := SplitPairKey("ja-1"); err == nil {
		t.Fatalf("expected error for invalid code")
	}
}
