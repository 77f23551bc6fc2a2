package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"horse.fit/lingomix/internal/cli"
	"horse.fit/lingomix/internal/mixer"
	"horse.fit/lingomix/internal/reader"
	"horse.fit/lingomix/internal/vocab"
)

func runVocab(args []string) int {
	fs := flag.NewFlagSet("vocab", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	text := fs.String("text", "", "Input text")
	file := fs.String("file", "", "Read input from a file (- for stdin)")
	pageURL := fs.String("url", "", "Fetch an article and list its vocabulary")
	lang := fs.String("lang", "", "Language of the input text")
	translateTo := fs.String("translate-to", "", "Attach translations into this language")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "vocab does not accept positional arguments")
		return 2
	}

	input := inputSource{Text: *text, File: *file, URL: *pageURL}
	if err := input.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if strings.TrimSpace(*lang) == "" {
		fmt.Fprintln(os.Stderr, "--lang is required")
		return 2
	}
	outputFormat, err := parseOutputFormat(*format, outputFormatTable, outputFormatTable, outputFormatJSON)
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

	items, err := svc.mixer.Vocabulary(ctx, mixer.VocabularyRequest{
		Text:        raw,
		Lang:        *lang,
		TranslateTo: *translateTo,
	})
	if err != nil {
		var mixErr *mixer.Error
		if errors.As(err, &mixErr) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", mixErr.Code, mixErr.Message)
			return 2
		}
		fmt.Fprintf(os.Stderr, "Vocabulary failed: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(os.Stdout, items); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	if err := writeTable(os.Stdout, []string{"word", "position", "type", "difficulty", "translation"}, vocabRows(items)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}
	return 0
}

func vocabRows(items []vocab.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			truncateForTable(item.Word, 32),
			strconv.Itoa(item.Position),
			item.Type,
			strconv.Itoa(item.Difficulty),
			truncateForTable(item.Translation, 40),
		})
	}
	return rows
}
