package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/lingomix/internal/cli"
	"horse.fit/lingomix/internal/language"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	from := fs.String("from", "", "Source language code")
	to := fs.String("to", "", "Target language code")
	provider := fs.String("provider", "", "Query only this provider and bypass the cache")
	format := fs.String("format", outputFormatText, "Output format: text or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "translate requires one argument")
		printTranslateUsage()
		return 2
	}

	text := strings.TrimSpace(fs.Arg(0))
	if text == "" {
		fmt.Fprintln(os.Stderr, "translate argument must not be empty")
		return 2
	}
	fromLang := language.NormalizeCode(*from)
	toLang := language.NormalizeCode(*to)
	if fromLang == "" || toLang == "" {
		fmt.Fprintln(os.Stderr, "--from and --to are required and must be valid language codes")
		return 2
	}
	outputFormat, err := parseOutputFormat(*format, outputFormatText, outputFormatText, outputFormatJSON)
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

	if !svc.pool.Supported(fromLang, toLang) {
		fmt.Fprintf(os.Stderr, "Language pair %s is not enabled\n", language.PairKey(fromLang, toLang))
		return 2
	}

	if name := strings.TrimSpace(*provider); name != "" {
		if _, err := svc.registry.Provider(name); err != nil {
			fmt.Fprintf(os.Stderr, "Unknown provider: %s (available: %s)\n", name, strings.Join(svc.registry.ProviderNames(), ", "))
			return 2
		}
		outcome, ok := svc.pool.TranslateViaProviders(ctx, text, fromLang, toLang, []string{name})
		if !ok {
			fmt.Fprintf(os.Stderr, "Provider %s failed: %v\n", name, outcome.Err)
			return 1
		}
		if outputFormat == outputFormatJSON {
			return encodeOrFail(map[string]string{
				"original":    text,
				"translation": outcome.Text,
				"fromLang":    fromLang,
				"toLang":      toLang,
				"provider":    outcome.Provider,
			})
		}
		fmt.Printf("%s\t%s\n", outcome.Text, outcome.Provider)
		return 0
	}

	result, err := svc.cache.Translate(ctx, text, fromLang, toLang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translate failed: %v\n", err)
		return 1
	}
	if outputFormat == outputFormatJSON {
		return encodeOrFail(result)
	}
	fmt.Printf("%s\t%s cached=%t\n", result.Translation, result.Provider, result.Cached)
	return 0
}

func encodeOrFail(value any) int {
	if err := printJSON(os.Stdout, value); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
		return 1
	}
	return 0
}

func printTranslateUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingomix translate <text> --from <lang> --to <lang> [--provider lingva] [--format text|json] [--env .env] [--timeout 30s]")
}
