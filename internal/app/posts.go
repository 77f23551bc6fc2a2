package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"horse.fit/lingomix/internal/cli"
	"horse.fit/lingomix/internal/langconfig"
	"horse.fit/lingomix/internal/mixer"
	"horse.fit/lingomix/internal/reddit"
)

type contentMixer interface {
	CreateMixedContent(ctx context.Context, req mixer.Request) (*mixer.MixedContent, error)
}

type mixedPost struct {
	ID        string              `json:"id"`
	Subreddit string              `json:"subreddit"`
	Title     string              `json:"title"`
	Permalink string              `json:"permalink"`
	Content   *mixer.MixedContent `json:"content,omitempty"`
	Error     string              `json:"error,omitempty"`
}

func runPosts(args []string) int {
	fs := flag.NewFlagSet("posts", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	subreddit := fs.String("subreddit", "", "Subreddit name (without r/)")
	sort := fs.String("sort", "hot", "Listing: hot, new, top or rising")
	limit := fs.Int("limit", 10, "Number of posts to fetch (1-100)")
	level := fs.Int("level", 3, "User level (1-5)")
	target := fs.String("target", "", "Target language code")
	source := fs.String("source", "en", "Source language code, or auto to detect")
	mode := fs.String("mode", string(mixer.ModeAuto), "Mixing mode: auto, extraction or selection")
	concurrency := fs.Int("concurrency", 4, "Posts mixed at once")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if strings.TrimSpace(*subreddit) == "" {
		fmt.Fprintln(os.Stderr, "--subreddit is required")
		return 2
	}
	if strings.TrimSpace(*target) == "" {
		fmt.Fprintln(os.Stderr, "--target is required")
		return 2
	}
	if *limit < 1 || *limit > reddit.MaxLimit {
		fmt.Fprintf(os.Stderr, "--limit must be between 1 and %d\n", reddit.MaxLimit)
		return 2
	}
	if *level < langconfig.MinLevel || *level > langconfig.MaxLevel {
		fmt.Fprintf(os.Stderr, "--level must be between %d and %d\n", langconfig.MinLevel, langconfig.MaxLevel)
		return 2
	}
	if *concurrency < 1 {
		fmt.Fprintln(os.Stderr, "--concurrency must be >= 1")
		return 2
	}
	parsedMode, err := mixer.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid mode: %v\n", err)
		return 2
	}

	ctx, cancel, svc, err := connectServices(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer svc.Close()

	client := reddit.NewClient(reddit.Options{UserAgent: svc.cfg.RedditUserAgent})
	posts, err := client.FetchPosts(ctx, *subreddit, *sort, *limit)
	if err != nil {
		svc.logger.Error().Err(err).Str("subreddit", *subreddit).Msg("fetch posts failed")
		fmt.Fprintf(os.Stderr, "Fetch posts failed: %v\n", err)
		return 1
	}

	results, err := mixPosts(ctx, svc.mixer, posts, mixer.Request{
		UserLevel:  *level,
		TargetLang: *target,
		SourceLang: *source,
		Mode:       parsedMode,
	}, *concurrency)
	if err != nil {
		var mixErr *mixer.Error
		if errors.As(err, &mixErr) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", mixErr.Code, mixErr.Message)
			return 2
		}
		fmt.Fprintf(os.Stderr, "Mix posts failed: %v\n", err)
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	for _, result := range results {
		if err := encoder.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
	}

	stats := svc.cache.Stats()
	svc.logger.Info().
		Int("posts", len(results)).
		Int64("cache_hits", stats.Hits).
		Int64("cache_misses", stats.Misses).
		Int64("shared_lookups", stats.Shared).
		Msg("posts mixed")
	return 0
}

// mixPosts runs base against every post concurrently. All calls share the
// mixer's cache, so repeated words across posts are fetched once. A contract
// error aborts the batch; posts with blank text are reported individually.
func mixPosts(ctx context.Context, m contentMixer, posts []reddit.Post, base mixer.Request, concurrency int) ([]mixedPost, error) {
	results := make([]mixedPost, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, post := range posts {
		g.Go(func() error {
			out := mixedPost{
				ID:        post.ID,
				Subreddit: post.Subreddit,
				Title:     post.Title,
				Permalink: post.Permalink,
			}

			req := base
			req.Text = post.Text()
			content, err := m.CreateMixedContent(gctx, req)
			switch {
			case err == nil:
				out.Content = content
			case errors.Is(err, mixer.ErrInvalidTextInput):
				out.Error = err.Error()
			default:
				return err
			}

			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
