package translation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	textlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	LocalProviderName    = "local"
	DefaultLocalEndpoint = "http://127.0.0.1:8845/v1"
	DefaultLocalModel    = "tencent/HY-MT1.5-7B"
)

// LocalProvider glosses words through an OpenAI-compatible chat completions
// endpoint, normally a model served on the same host.
type LocalProvider struct {
	endpointURL string
	model       string
	client      *http.Client
}

func NewLocalProvider(endpoint, model string) *LocalProvider {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultLocalModel
	}
	return &LocalProvider{
		endpointURL: chatCompletionsURL(normalizeEndpoint(endpoint)),
		model:       model,
		client:      &http.Client{Timeout: 2 * time.Minute},
	}
}

func (p *LocalProvider) Name() string {
	return LocalProviderName
}

func (p *LocalProvider) ModelName() string {
	if p == nil {
		return ""
	}
	return p.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *LocalProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil {
		return nil, fmt.Errorf("local provider is nil")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" || req.TargetLang == "" {
		return nil, fmt.Errorf("local: text and target language are required")
	}

	started := time.Now()
	var parsed chatResponse
	err := doJSON(ctx, p.client, http.MethodPost, p.endpointURL, chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: glossPrompt(text, req.SourceLang, req.TargetLang)}},
		Temperature: 0.2,
		TopP:        0.6,
	}, &parsed)
	if err != nil {
		return nil, fmt.Errorf("local: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("local: response has no choices")
	}

	return &TranslateResponse{
		Text:         strings.TrimSpace(parsed.Choices[0].Message.Content),
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: LocalProviderName,
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

func glossPrompt(text, sourceLang, targetLang string) string {
	from := "the following"
	if sourceLang != "" {
		from += " " + englishName(sourceLang)
	}
	return fmt.Sprintf("Translate %s word or phrase into %s. Reply with the translation only, without explanation or quotes.\n\n%s",
		from, englishName(targetLang), text)
}

func englishName(code string) string {
	tag, err := textlang.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// normalizeEndpoint accepts host:port, bare hosts and full URLs. Anything
// unparseable falls back to DefaultLocalEndpoint.
func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return DefaultLocalEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return DefaultLocalEndpoint
	}
	if u.Path = strings.TrimRight(u.Path, "/"); u.Path == "" {
		u.Path = "/v1"
	}
	return u.String()
}

func chatCompletionsURL(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return DefaultLocalEndpoint + "/chat/completions"
	}
	p := strings.TrimRight(u.Path, "/")
	switch {
	case strings.HasSuffix(p, "/chat/completions"):
	case strings.HasSuffix(p, "/v1"):
		p += "/chat/completions"
	default:
		p += "/v1/chat/completions"
	}
	u.Path = p
	return u.String()
}
