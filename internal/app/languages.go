package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"horse.fit/lingomix/internal/cli"
	"horse.fit/lingomix/internal/langconfig"
	"horse.fit/lingomix/internal/translation"
)

func runLanguages(args []string) int {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	outputFormat, err := parseOutputFormat(*format, outputFormatTable, outputFormatTable, outputFormatJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	cfg, _, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	languages, err := loadLanguages(cfg.LanguageConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load language config: %v\n", err)
		return 1
	}

	options := translation.LanguageOptions(languages)
	if outputFormat == outputFormatJSON {
		return encodeOrFail(map[string]any{
			"items":  options,
			"levels": levelFractions(languages),
		})
	}

	if err := writeTable(os.Stdout, []string{"code", "label", "script", "targets"}, languageRows(options)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}
	fmt.Println()
	levelRows := make([][]string, 0, langconfig.MaxLevel)
	for level := langconfig.MinLevel; level <= langconfig.MaxLevel; level++ {
		levelRows = append(levelRows, []string{
			strconv.Itoa(level),
			strconv.FormatFloat(languages.Fraction(level)*100, 'f', 0, 64) + "%",
		})
	}
	if err := writeTable(os.Stdout, []string{"level", "replaced"}, levelRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}
	return 0
}

func levelFractions(languages *langconfig.Config) map[string]float64 {
	out := make(map[string]float64, langconfig.MaxLevel)
	for level := langconfig.MinLevel; level <= langconfig.MaxLevel; level++ {
		out[strconv.Itoa(level)] = languages.Fraction(level)
	}
	return out
}

func languageRows(options []translation.LanguageOption) [][]string {
	rows := make([][]string, 0, len(options))
	for _, option := range options {
		label := option.Label
		if option.Native != "" {
			label += " (" + option.Native + ")"
		}
		rows = append(rows, []string{option.Code, label, option.Script, strings.Join(option.Targets, ",")})
	}
	return rows
}
