package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/lingomix/internal/cli"
	"horse.fit/lingomix/internal/langconfig"
	"horse.fit/lingomix/internal/mixer"
	"horse.fit/lingomix/internal/reader"
)

func runMix(args []string) int {
	fs := flag.NewFlagSet("mix", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	text := fs.String("text", "", "Input text")
	file := fs.String("file", "", "Read input from a file (- for stdin)")
	pageURL := fs.String("url", "", "Fetch an article and mix its readable text")
	level := fs.Int("level", 3, "User level (1-5)")
	target := fs.String("target", "", "Target language code (for example: ja, es)")
	source := fs.String("source", "en", "Source language code, or auto to detect")
	mode := fs.String("mode", string(mixer.ModeAuto), "Mixing mode: auto, extraction or selection")
	format := fs.String("format", outputFormatJSON, "Output format: json or text")
	verbose := fs.Bool("verbose", false, "Print pipeline diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "mix does not accept positional arguments")
		return 2
	}

	input := inputSource{Text: *text, File: *file, URL: *pageURL}
	if err := input.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if strings.TrimSpace(*target) == "" {
		fmt.Fprintln(os.Stderr, "--target is required")
		return 2
	}
	if *level < langconfig.MinLevel || *level > langconfig.MaxLevel {
		fmt.Fprintf(os.Stderr, "--level must be between %d and %d\n", langconfig.MinLevel, langconfig.MaxLevel)
		return 2
	}
	parsedMode, err := mixer.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid mode: %v\n", err)
		return 2
	}
	outputFormat, err := parseOutputFormat(*format, outputFormatJSON, outputFormatJSON, outputFormatText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	ctx, cancel, svc, err := connectServices(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer svc.Close()

	raw, err := input.read(ctx, os.Stdin, reader.New(reader.Options{UserAgent: svc.cfg.RedditUserAgent}))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	content, err := svc.mixer.CreateMixedContent(ctx, mixer.Request{
		Text:       raw,
		UserLevel:  *level,
		TargetLang: *target,
		SourceLang: *source,
		Mode:       parsedMode,
	})
	if err != nil {
		var mixErr *mixer.Error
		if errors.As(err, &mixErr) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", mixErr.Code, mixErr.Message)
			return 2
		}
		fmt.Fprintf(os.Stderr, "Mix failed: %v\n", err)
		return 1
	}

	if *verbose {
		printDiagnostics(content.Diagnostics, svc)
	}

	if outputFormat == outputFormatText {
		fmt.Println(renderInline(content))
		return 0
	}
	if err := printJSON(os.Stdout, content); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
		return 1
	}
	return 0
}

func printDiagnostics(d mixer.Diagnostics, svc *services) {
	stats := svc.cache.Stats()
	fmt.Fprintf(os.Stderr,
		"mode=%s source=%s tokens=%d unique=%d skipped_overlaps=%d fallbacks=%d budget=%d replaced=%d cache_hits=%d cache_misses=%d shared=%d\n",
		d.Mode,
		d.SourceLang,
		d.Tokens,
		d.UniqueTokens,
		d.SkippedOverlaps,
		d.Fallbacks,
		d.Budget,
		d.Replaced,
		stats.Hits,
		stats.Misses,
		stats.Shared,
	)
	if d.ExtractionError != "" {
		fmt.Fprintf(os.Stderr, "extraction_error=%q\n", d.ExtractionError)
	}
}
