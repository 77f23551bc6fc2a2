package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"horse.fit/lingomix/internal/mixer"
	"horse.fit/lingomix/internal/reader"
)

const (
	outputFormatTable = "table"
	outputFormatJSON  = "json"
	outputFormatText  = "text"
)

var placeholderPattern = regexp.MustCompile(`\{\{WORD:(\d+)\}\}`)

func parseOutputFormat(raw, defaultFormat string, allowed ...string) (string, error) {
	format := strings.TrimSpace(strings.ToLower(raw))
	if format == "" {
		format = strings.TrimSpace(strings.ToLower(defaultFormat))
	}
	for _, candidate := range allowed {
		if format == candidate {
			return format, nil
		}
	}
	return "", fmt.Errorf("--format must be one of %s", strings.Join(allowed, ", "))
}

// inputSource is the text given to mix and vocab: exactly one of Text, File
// (or "-" for stdin) and URL.
type inputSource struct {
	Text string
	File string
	URL  string
}

func (s inputSource) validate() error {
	set := 0
	for _, value := range []string{s.Text, s.File, s.URL} {
		if strings.TrimSpace(value) != "" {
			set++
		}
	}
	switch set {
	case 0:
		return fmt.Errorf("one of --text, --file or --url is required")
	case 1:
		return nil
	default:
		return fmt.Errorf("--text, --file and --url are mutually exclusive")
	}
}

func (s inputSource) read(ctx context.Context, stdin io.Reader, fetcher *reader.Reader) (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}

	switch {
	case strings.TrimSpace(s.Text) != "":
		return s.Text, nil
	case strings.TrimSpace(s.File) != "":
		var raw []byte
		var err error
		if strings.TrimSpace(s.File) == "-" {
			raw, err = io.ReadAll(stdin)
		} else {
			raw, err = os.ReadFile(s.File)
		}
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("input file is not valid UTF-8")
		}
		return string(raw), nil
	default:
		if fetcher == nil {
			fetcher = reader.New(reader.Options{})
		}
		article, err := fetcher.Fetch(ctx, s.URL)
		if err != nil {
			return "", fmt.Errorf("fetch article: %w", err)
		}
		return article.MarkdownText(), nil
	}
}

// renderInline replaces every placeholder with "translation (original)" for
// terminal output.
func renderInline(content *mixer.MixedContent) string {
	if content == nil {
		return ""
	}
	byIndex := make(map[int]mixer.WordMetadataEntry, len(content.WordMetadata))
	for _, entry := range content.WordMetadata {
		byIndex[entry.Index] = entry
	}
	return placeholderPattern.ReplaceAllStringFunc(content.Text, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		index, err := strconv.Atoi(sub[1])
		if err != nil {
			return match
		}
		entry, ok := byIndex[index]
		if !ok {
			return match
		}
		return fmt.Sprintf("%s (%s)", entry.Translation, entry.Original)
	})
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(writer, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(writer, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func truncateForTable(value string, maxLen int) string {
	trimmed := strings.TrimSpace(value)
	if maxLen <= 0 || utf8.RuneCountInString(trimmed) <= maxLen {
		return trimmed
	}
	runes := []rune(trimmed)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
