package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horse.fit/lingomix/internal/langconfig"
)

func TestLingvaProviderTranslate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ja/en/猫" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"translation":" cat "}`))
	}))
	defer server.Close()

	resp, err := NewLingvaProvider(server.URL+"/", server.Client()).Translate(context.Background(), TranslateRequest{
		Text:       "猫",
		SourceLang: "ja",
		TargetLang: "en",
	})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if resp.Text != "cat" || resp.ProviderName != LingvaProviderName {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestLingvaProviderErrorPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"invalid language"}`))
	}))
	defer server.Close()

	_, err := NewLingvaProvider(server.URL, server.Client()).Translate(context.Background(), TranslateRequest{
		Text:       "cat",
		SourceLang: "en",
		TargetLang: "xx",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid language") {
		t.Fatalf("expected lingva error, got %v", err)
	}
}

func TestGoogleProviderJoinsSegments(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/translate_a/single" || q.Get("sl") != "en" || q.Get("tl") != "ja" || q.Get("client") != "gtx" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`[[["素早い","quick",null,null,1],["茶色","brown",null,null,1]],null,"en"]`))
	}))
	defer server.Close()

	resp, err := NewGoogleProvider(server.URL, server.Client()).Translate(context.Background(), TranslateRequest{
		Text:       "quick brown",
		SourceLang: "en",
		TargetLang: "ja",
	})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if resp.Text != "素早い茶色" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
}

func TestMyMemoryProviderStatusHandling(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "fox":
			if r.URL.Query().Get("langpair") != "en|ja" {
				t.Errorf("unexpected langpair %q", r.URL.Query().Get("langpair"))
			}
			_, _ = w.Write([]byte(`{"responseData":{"translatedText":"キツネ"},"responseStatus":200}`))
		default:
			_, _ = w.Write([]byte(`{"responseData":{"translatedText":""},"responseStatus":"403","responseDetails":"INVALID LANGUAGE PAIR"}`))
		}
	}))
	defer server.Close()

	provider := NewMyMemoryProvider(server.URL, server.Client())
	resp, err := provider.Translate(context.Background(), TranslateRequest{Text: "fox", SourceLang: "en", TargetLang: "ja"})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if resp.Text != "キツネ" {
		t.Fatalf("unexpected text %q", resp.Text)
	}

	if _, err := provider.Translate(context.Background(), TranslateRequest{Text: "dog", SourceLang: "en", TargetLang: "ja"}); err == nil {
		t.Fatalf("expected status error")
	}
	if _, err := provider.Translate(context.Background(), TranslateRequest{Text: "fox", TargetLang: "ja"}); err == nil {
		t.Fatalf("expected missing source language error")
	}
}

func TestLibreTranslateProviderPostsJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/translate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body libreTranslateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Q != "perro" || body.Source != "es" || body.Target != "en" || body.APIKey != "secret" {
			t.Errorf("unexpected body %+v", body)
		}
		_, _ = w.Write([]byte(`{"translatedText":"dog"}`))
	}))
	defer server.Close()

	resp, err := NewLibreTranslateProvider(server.URL, " secret ", server.Client()).Translate(context.Background(), TranslateRequest{
		Text:       "perro",
		SourceLang: "es",
		TargetLang: "en",
	})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if resp.Text != "dog" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
}

func TestLocalProviderChatCompletion(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body chatRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body.Messages) != 1 || !strings.Contains(body.Messages[0].Content, "Japanese word or phrase into English") {
			t.Errorf("unexpected prompt %+v", body.Messages)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" capital city \n"}}]}`))
	}))
	defer server.Close()

	provider := NewLocalProvider(server.URL, "")
	if provider.ModelName() != DefaultLocalModel {
		t.Fatalf("unexpected model %q", provider.ModelName())
	}
	resp, err := provider.Translate(context.Background(), TranslateRequest{Text: "首都", SourceLang: "ja", TargetLang: "en"})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if resp.Text != "capital city" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
}

func TestLocalProviderErrorMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"model loading"}}`))
	}))
	defer server.Close()

	_, err := NewLocalProvider(server.URL+"/v1", "m").Translate(context.Background(), TranslateRequest{Text: "首都", TargetLang: "en"})
	if err == nil || !strings.Contains(err.Error(), "model loading") {
		t.Fatalf("expected endpoint error message, got %v", err)
	}
}

func TestChatCompletionsURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                                "http://127.0.0.1:8845/v1/chat/completions",
		"localhost:9000":                  "http://localhost:9000/v1/chat/completions",
		"http://host/v1/":                 "http://host/v1/chat/completions",
		"http://host/v1/chat/completions": "http://host/v1/chat/completions",
		"http://host/proxy":               "http://host/proxy/v1/chat/completions",
	}
	for in, want := range cases {
		if got := chatCompletionsURL(normalizeEndpoint(in)); got != want {
			t.Fatalf("chatCompletionsURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegistryFromConfigSkipsDisabledProviders(t *testing.T) {
	t.Parallel()

	languages, err := langconfig.Default()
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	registry := NewRegistryFromConfig(languages, RegistryOptions{})

	names := strings.Join(registry.ProviderNames(), ",")
	if names != "google,lingva,mymemory" {
		t.Fatalf("unexpected providers %q", names)
	}
	if _, err := registry.Provider("local"); err == nil {
		t.Fatalf("disabled local provider should not be registered")
	}
}

func TestLanguageOptionsListsEnabledTargets(t *testing.T) {
	t.Parallel()

	languages, err := langconfig.Default()
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	options := LanguageOptions(languages)

	byCode := map[string]LanguageOption{}
	for _, option := range options {
		byCode[option.Code] = option
	}
	if _, ok := byCode["ru"]; ok {
		t.Fatalf("ru only has disabled pairs and should be omitted")
	}
	ja, ok := byCode["ja"]
	if !ok || strings.Join(ja.Targets, ",") != "en" || !ja.ShowScript {
		t.Fatalf("unexpected ja option %+v", ja)
	}
	en := byCode["en"]
	if strings.Join(en.Targets, ",") != "de,es,fr,ja,ko,zh" {
		t.Fatalf("unexpected en targets %v", en.Targets)
	}
}
