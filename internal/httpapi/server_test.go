package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/lingomix/internal/cache"
	"horse.fit/lingomix/internal/langconfig"
	"horse.fit/lingomix/internal/mixer"
	"horse.fit/lingomix/internal/translation"
	"horse.fit/lingomix/internal/vocab"
)

type stubMixer struct {
	content *mixer.MixedContent
	items   []vocab.Item
	err     error
	lastReq mixer.Request
}

func (s *stubMixer) CreateMixedContent(_ context.Context, req mixer.Request) (*mixer.MixedContent, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.content, nil
}

func (s *stubMixer) Vocabulary(_ context.Context, _ mixer.VocabularyRequest) ([]vocab.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

type stubCache struct {
	pingErr error
	calls   int
}

func (s *stubCache) Translate(_ context.Context, text, from, to string) (translation.Result, error) {
	s.calls++
	return translation.Result{Original: text, Translation: text + "-" + to, FromLang: from, ToLang: to, Provider: "stub"}, nil
}

func (s *stubCache) Stats() cache.Stats {
	return cache.Stats{Backend: "memory", Entries: 3, Hits: 2}
}

func (s *stubCache) Ping(context.Context) error {
	return s.pingErr
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestServer(t *testing.T, m Mixer, c TranslationCache) *Server {
	t.Helper()
	languages, err := langconfig.Default()
	if err != nil {
		t.Fatalf("load default languages: %v", err)
	}
	return NewServer(m, c, languages, zerolog.Nop(), Options{})
}

func doRequest(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestMixedContentSuccess(t *testing.T) {
	t.Parallel()

	m := &stubMixer{content: &mixer.MixedContent{
		Text: "{{WORD:0}} cat",
		WordMetadata: []mixer.WordMetadataEntry{
			{Index: 0, Original: "the", Translation: "el", TargetLanguage: "es"},
		},
		AllWordTranslations: map[string]string{"the": "el"},
		Diagnostics:         mixer.Diagnostics{Mode: mixer.ModeSelection, Budget: 1, Replaced: 1},
	}}
	s := newTestServer(t, m, &stubCache{})

	rec, env := doRequest(t, s, http.MethodPost, "/api/v1/mixed-content",
		`{"text":"the cat","userLevel":3,"targetLang":"es","sourceLang":"en","mode":"selection"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.Status != "success" {
		t.Fatalf("expected success envelope, got %q", env.Status)
	}
	if m.lastReq.Mode != mixer.ModeSelection || m.lastReq.UserLevel != 3 {
		t.Fatalf("unexpected request forwarded: %+v", m.lastReq)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	for _, key := range []string{"text", "wordMetadata", "allWordTranslations"} {
		if _, ok := data[key]; !ok {
			t.Fatalf("expected %q in response, got %s", key, env.Data)
		}
	}
	if _, ok := data["diagnostics"]; ok {
		t.Fatalf("diagnostics must be opt-in, got %s", env.Data)
	}
}

func TestMixedContentDiagnosticsOptIn(t *testing.T) {
	t.Parallel()

	m := &stubMixer{content: &mixer.MixedContent{
		Text:                "hello",
		WordMetadata:        []mixer.WordMetadataEntry{},
		AllWordTranslations: map[string]string{},
		Diagnostics:         mixer.Diagnostics{Mode: mixer.ModeExtraction, SkippedOverlaps: 2},
	}}
	s := newTestServer(t, m, &stubCache{})

	_, env := doRequest(t, s, http.MethodPost, "/api/v1/mixed-content?diagnostics=true",
		`{"text":"hello","userLevel":1,"targetLang":"ja","sourceLang":"en"}`)

	var data struct {
		Diagnostics *mixer.Diagnostics `json:"diagnostics"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Diagnostics == nil || data.Diagnostics.SkippedOverlaps != 2 {
		t.Fatalf("expected diagnostics with 2 skipped overlaps, got %s", env.Data)
	}
}

func TestMixedContentValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubMixer{}, &stubCache{})
	cases := []string{
		``,
		`{"text":"x","userLevel":0,"targetLang":"es","sourceLang":"en"}`,
		`{"text":"x","userLevel":6,"targetLang":"es","sourceLang":"en"}`,
		`{"text":"x","userLevel":3,"targetLang":"es","sourceLang":"en","mode":"random"}`,
		`{"text":"x","userLevel":3,"unknown":true}`,
	}
	for _, body := range cases {
		rec, env := doRequest(t, s, http.MethodPost, "/api/v1/mixed-content", body)
		if rec.Code != http.StatusBadRequest || env.Status != "fail" {
			t.Fatalf("body %q: expected 400 fail, got %d %q", body, rec.Code, env.Status)
		}
	}
}

func TestMixedContentContractErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&mixer.Error{Code: mixer.CodeInvalidTextInput, Message: "text must be a non-empty string"}, http.StatusBadRequest, mixer.CodeInvalidTextInput},
		{&mixer.Error{Code: mixer.CodeUnsupportedLanguagePair, Message: "language pair ru-en is not enabled"}, http.StatusUnprocessableEntity, mixer.CodeUnsupportedLanguagePair},
	}
	for _, tc := range cases {
		s := newTestServer(t, &stubMixer{err: tc.err}, &stubCache{})
		rec, env := doRequest(t, s, http.MethodPost, "/api/v1/mixed-content",
			`{"text":"hello","userLevel":3,"targetLang":"ru","sourceLang":"en"}`)
		if rec.Code != tc.status {
			t.Fatalf("expected %d, got %d", tc.status, rec.Code)
		}
		var data struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if data.Code != tc.code {
			t.Fatalf("expected code %s, got %s", tc.code, data.Code)
		}
	}
}

func TestMixedContentInternalError(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubMixer{err: errors.New("boom")}, &stubCache{})
	rec, env := doRequest(t, s, http.MethodPost, "/api/v1/mixed-content",
		`{"text":"hello","userLevel":3,"targetLang":"ja","sourceLang":"en"}`)
	if rec.Code != http.StatusInternalServerError || env.Status != "error" {
		t.Fatalf("expected 500 error, got %d %q", rec.Code, env.Status)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	t.Parallel()

	c := &stubCache{}
	s := newTestServer(t, &stubMixer{}, c)

	rec, env := doRequest(t, s, http.MethodPost, "/api/v1/translate", `{"text":"猫","from":"ja","to":"en"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result translation.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Translation != "猫-en" {
		t.Fatalf("unexpected translation %+v", result)
	}

	rec, _ = doRequest(t, s, http.MethodPost, "/api/v1/translate", `{"text":"hola","from":"xx","to":"en"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for disabled pair, got %d", rec.Code)
	}
	if c.calls != 1 {
		t.Fatalf("disabled pair must not reach the cache, calls=%d", c.calls)
	}

	rec, _ = doRequest(t, s, http.MethodPost, "/api/v1/translate", `{"text":"  ","from":"ja","to":"en"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank text, got %d", rec.Code)
	}
}

func TestVocabularyEndpoint(t *testing.T) {
	t.Parallel()

	m := &stubMixer{items: []vocab.Item{{Word: "猫", Position: 0, Type: "noun", Difficulty: 1}}}
	s := newTestServer(t, m, &stubCache{})

	rec, env := doRequest(t, s, http.MethodPost, "/api/v1/vocabulary", `{"text":"猫と猫","lang":"ja"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(string(env.Data), "猫") {
		t.Fatalf("expected vocabulary item in %s", env.Data)
	}

	rec, _ = doRequest(t, s, http.MethodPost, "/api/v1/vocabulary", `{"text":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without lang, got %d", rec.Code)
	}
}

func TestHealthAndStats(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubMixer{}, &stubCache{})
	rec, env := doRequest(t, s, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("expected healthy response, got %d %q", rec.Code, env.Status)
	}

	rec, env = doRequest(t, s, http.MethodGet, "/api/v1/cache/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats cache.Stats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Entries != 3 || stats.Hits != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	down := newTestServer(t, &stubMixer{}, &stubCache{pingErr: errors.New("redis down")})
	rec, env = doRequest(t, down, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusServiceUnavailable || env.Status != "error" {
		t.Fatalf("expected 503 error, got %d %q", rec.Code, env.Status)
	}
}

func TestLanguagesEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubMixer{}, &stubCache{})
	rec, env := doRequest(t, s, http.MethodGet, "/api/v1/languages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var data struct {
		Items  []translation.LanguageOption `json:"items"`
		Levels map[string]float64           `json:"levels"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Items) == 0 {
		t.Fatalf("expected language options")
	}
	if len(data.Levels) != langconfig.MaxLevel {
		t.Fatalf("expected %d levels, got %d", langconfig.MaxLevel, len(data.Levels))
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubMixer{}, &stubCache{})
	rec, env := doRequest(t, s, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || env.Status != "fail" {
		t.Fatalf("expected 404 fail, got %d %q", rec.Code, env.Status)
	}
}
