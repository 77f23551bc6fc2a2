// Package reddit reads public subreddit listings, the raw text that gets
// normalized and mixed.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://www.reddit.com"
	DefaultUserAgent = "lingomix/1.0"
	MaxLimit         = 100

	maxResponseBytes = 8 << 20
)

// Listing sorts accepted by FetchPosts.
var sorts = map[string]struct{}{
	"hot": {}, "new": {}, "top": {}, "rising": {}, "controversial": {},
}

// ErrRateLimited is returned for 429 responses. Later calls wait out the
// server's Retry-After window.
var ErrRateLimited = errors.New("reddit rate limit exceeded")

// Post is one submission from a listing.
type Post struct {
	ID         string    `json:"id"`
	Subreddit  string    `json:"subreddit"`
	Title      string    `json:"title"`
	SelfText   string    `json:"selftext"`
	URL        string    `json:"url"`
	Permalink  string    `json:"permalink"`
	Author     string    `json:"author"`
	Score      int       `json:"score"`
	CreatedUTC time.Time `json:"createdUtc"`
}

// Text is the title followed by the self text, separated by a blank line.
func (p Post) Text() string {
	title := strings.TrimSpace(p.Title)
	body := strings.TrimSpace(p.SelfText)
	switch {
	case body == "":
		return title
	case title == "":
		return body
	default:
		return title + "\n\n" + body
	}
}

// Options configures a Client. Zero values use the defaults.
type Options struct {
	BaseURL           string
	UserAgent         string
	HTTPClient        *http.Client
	RequestsPerSecond float64
	Burst             int
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rateLimiter
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      client,
		limiter:   newRateLimiter(opts.RequestsPerSecond, opts.Burst),
	}
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Kind string      `json:"kind"`
			Data listingPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type listingPost struct {
	ID         string  `json:"id"`
	Subreddit  string  `json:"subreddit"`
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Stickied   bool    `json:"stickied"`
}

// FetchPosts reads up to limit submissions of /r/<subreddit>/<sort>. Stickied
// posts are dropped and HTML entities in titles and bodies are decoded.
func (c *Client) FetchPosts(ctx context.Context, subreddit, sort string, limit int) ([]Post, error) {
	subreddit = strings.TrimPrefix(strings.TrimSpace(subreddit), "r/")
	if subreddit == "" {
		return nil, fmt.Errorf("subreddit is required")
	}
	sort = strings.ToLower(strings.TrimSpace(sort))
	if sort == "" {
		sort = "hot"
	}
	if _, ok := sorts[sort]; !ok {
		return nil, fmt.Errorf("unsupported sort %q", sort)
	}
	if limit <= 0 || limit > MaxLimit {
		limit = 25
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/r/%s/%s.json?limit=%d", c.baseURL, url.PathEscape(subreddit), sort, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.backoff(retryAfter(resp.Header.Get("Retry-After")))
		return nil, ErrRateLimited
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch r/%s: status %d", subreddit, resp.StatusCode)
	}

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" || child.Data.Stickied {
			continue
		}
		p := child.Data
		posts = append(posts, Post{
			ID:         p.ID,
			Subreddit:  p.Subreddit,
			Title:      html.UnescapeString(p.Title),
			SelfText:   html.UnescapeString(p.SelfText),
			URL:        p.URL,
			Permalink:  p.Permalink,
			Author:     p.Author,
			Score:      p.Score,
			CreatedUTC: time.Unix(int64(p.CreatedUTC), 0).UTC(),
		})
	}
	return posts, nil
}

func retryAfter(raw string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
