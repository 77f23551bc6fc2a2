package translation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const GoogleProviderName = "google"

// GoogleProvider uses the keyless translate_a/single endpoint (client=gtx).
type GoogleProvider struct {
	baseURL string
	client  *http.Client
}

func NewGoogleProvider(baseURL string, client *http.Client) *GoogleProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleProvider{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (p *GoogleProvider) Name() string {
	return GoogleProviderName
}

func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	source := req.SourceLang
	if source == "" {
		source = "auto"
	}
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", req.TargetLang)
	query.Set("dt", "t")
	query.Set("q", req.Text)

	started := time.Now()
	var parsed []any
	if err := doJSON(ctx, p.client, http.MethodGet, p.baseURL+"/translate_a/single?"+query.Encode(), nil, &parsed); err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}

	text, err := joinGoogleSegments(parsed)
	if err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}

	return &TranslateResponse{
		Text:         text,
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

// joinGoogleSegments concatenates the translated part of every segment in
// [[["translated","original",...],...],...].
func joinGoogleSegments(parsed []any) (string, error) {
	if len(parsed) == 0 {
		return "", fmt.Errorf("empty response")
	}
	segments, ok := parsed[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
