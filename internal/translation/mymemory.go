package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const MyMemoryProviderName = "mymemory"

// MyMemoryProvider calls the MyMemory translation memory API
// (GET /get?q=<text>&langpair=<source>|<target>).
type MyMemoryProvider struct {
	baseURL string
	client  *http.Client
}

func NewMyMemoryProvider(baseURL string, client *http.Client) *MyMemoryProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &MyMemoryProvider{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (p *MyMemoryProvider) Name() string {
	return MyMemoryProviderName
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  json.Number `json:"responseStatus"`
	ResponseDetails string      `json:"responseDetails"`
	QuotaFinished   bool        `json:"quotaFinished"`
}

func (p *MyMemoryProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if req.SourceLang == "" {
		return nil, fmt.Errorf("mymemory: source language is required")
	}
	query := url.Values{}
	query.Set("q", req.Text)
	query.Set("langpair", req.SourceLang+"|"+req.TargetLang)

	started := time.Now()
	var parsed myMemoryResponse
	if err := doJSON(ctx, p.client, http.MethodGet, p.baseURL+"/get?"+query.Encode(), nil, &parsed); err != nil {
		return nil, fmt.Errorf("mymemory: %w", err)
	}
	if parsed.QuotaFinished {
		return nil, fmt.Errorf("mymemory: quota finished")
	}
	if status := parsed.ResponseStatus.String(); status != "" && status != "200" {
		return nil, fmt.Errorf("mymemory: status %s: %s", status, parsed.ResponseDetails)
	}

	return &TranslateResponse{
		Text:         strings.TrimSpace(parsed.ResponseData.TranslatedText),
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}
