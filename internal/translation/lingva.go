package translation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const LingvaProviderName = "lingva"

// LingvaProvider calls a Lingva Translate instance
// (GET /api/v1/<source>/<target>/<text>).
type LingvaProvider struct {
	baseURL string
	client  *http.Client
}

func NewLingvaProvider(baseURL string, client *http.Client) *LingvaProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &LingvaProvider{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (p *LingvaProvider) Name() string {
	return LingvaProviderName
}

type lingvaResponse struct {
	Translation string `json:"translation"`
	Error       string `json:"error"`
}

func (p *LingvaProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	source := req.SourceLang
	if source == "" {
		source = "auto"
	}
	endpoint := fmt.Sprintf("%s/api/v1/%s/%s/%s",
		p.baseURL,
		url.PathEscape(source),
		url.PathEscape(req.TargetLang),
		url.PathEscape(req.Text),
	)

	started := time.Now()
	var parsed lingvaResponse
	if err := doJSON(ctx, p.client, http.MethodGet, endpoint, nil, &parsed); err != nil {
		return nil, fmt.Errorf("lingva: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("lingva: %s", parsed.Error)
	}

	return &TranslateResponse{
		Text:         strings.TrimSpace(parsed.Translation),
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}
