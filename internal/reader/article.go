// Package reader extracts the readable text of a web page so that articles
// can be mixed like any other input.
package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
)

const (
	DefaultFetchTimeout  = 12 * time.Second
	DefaultBodyByteLimit = 2 * 1024 * 1024

	defaultUserAgent = "lingomix-reader/1.0"
)

// Options controls HTTP behavior of a Reader.
type Options struct {
	Timeout       time.Duration
	BodyByteLimit int64
	UserAgent     string
	HTTPClient    *http.Client
}

// Article is the readable part of a page.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Reader struct {
	timeout   time.Duration
	bodyLimit int64
	userAgent string
	client    *http.Client
}

func New(opts Options) *Reader {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	bodyLimit := opts.BodyByteLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyByteLimit
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Reader{timeout: timeout, bodyLimit: bodyLimit, userAgent: userAgent, client: client}
}

// Fetch downloads page and extracts its article text. Plain-text responses
// are returned as-is after whitespace cleanup.
func (r *Reader) Fetch(ctx context.Context, page string) (Article, error) {
	page = strings.TrimSpace(page)
	if page == "" {
		return Article{}, fmt.Errorf("page URL is required")
	}
	pageURL, err := url.Parse(page)
	if err != nil || pageURL.Host == "" {
		return Article{}, fmt.Errorf("invalid page URL %q", page)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, page, nil)
	if err != nil {
		return Article{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Article{}, fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.bodyLimit))
	if err != nil {
		return Article{}, fmt.Errorf("read body: %w", err)
	}

	contentType := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Type")))
	if strings.HasPrefix(contentType, "text/plain") {
		text := CleanText(string(body))
		if text == "" {
			return Article{}, fmt.Errorf("page is empty")
		}
		return Article{URL: page, Text: text}, nil
	}

	parsed, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("readability parse: %w", err)
	}

	var rendered bytes.Buffer
	if err := parsed.RenderText(&rendered); err != nil {
		return Article{}, fmt.Errorf("render readability text: %w", err)
	}

	article := Article{
		URL:   page,
		Title: strings.TrimSpace(parsed.Title()),
		Text:  CleanText(rendered.String()),
	}
	if article.Text == "" {
		article.Text = CleanText(parsed.Excerpt())
	}
	if article.Text == "" {
		return Article{}, fmt.Errorf("reader extracted empty content")
	}
	return article, nil
}

// CleanText normalizes line endings, collapses in-line whitespace and keeps
// one blank line between paragraphs.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(line), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}
	return strings.Join(paragraphs, "\n\n")
}

// MarkdownText renders an article as Markdown input for the normalizer, with
// the title as a heading.
func (a Article) MarkdownText() string {
	if a.Title == "" {
		return a.Text
	}
	return "# " + a.Title + "\n\n" + a.Text
}
