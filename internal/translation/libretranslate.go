package translation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const LibreTranslateProviderName = "libretranslate"

// LibreTranslateProvider calls a LibreTranslate server (POST /translate).
type LibreTranslateProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewLibreTranslateProvider(baseURL, apiKey string, client *http.Client) *LibreTranslateProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &LibreTranslateProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
	}
}

func (p *LibreTranslateProvider) Name() string {
	return LibreTranslateProviderName
}

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (p *LibreTranslateProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	source := req.SourceLang
	if source == "" {
		source = "auto"
	}

	started := time.Now()
	var parsed libreTranslateResponse
	err := doJSON(ctx, p.client, http.MethodPost, p.baseURL+"/translate", libreTranslateRequest{
		Q:      req.Text,
		Source: source,
		Target: req.TargetLang,
		Format: "text",
		APIKey: p.apiKey,
	}, &parsed)
	if err != nil {
		return nil, fmt.Errorf("libretranslate: %w", err)
	}

	return &TranslateResponse{
		Text:         strings.TrimSpace(parsed.TranslatedText),
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}
