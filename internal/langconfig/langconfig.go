// Package langconfig loads the language tables that drive the mixing
// pipeline: which language pairs are enabled and through which providers,
// where each provider lives, and how much of a text each difficulty level
// replaces. A Config is built once at startup and never mutated.
package langconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/lingomix/internal/language"
)

//go:embed language_config.schema.json
var schemaJSON string

//go:embed defaults.json
var defaultsJSON []byte

const (
	SegmenterNone      = "none"
	SegmenterKagome    = "kagome"
	SegmenterScriptRun = "script_run"

	MinLevel = 1
	MaxLevel = 5
)

var scriptTables = map[string][]*unicode.RangeTable{
	"latin":    {unicode.Latin},
	"cyrillic": {unicode.Cyrillic},
	"japanese": {unicode.Hiragana, unicode.Katakana, unicode.Han},
	"han":      {unicode.Han},
	"hangul":   {unicode.Hangul},
	"thai":     {unicode.Thai},
	"arabic":   {unicode.Arabic},
}

// Language describes one supported language.
type Language struct {
	Code       string `json:"code"`
	Label      string `json:"label"`
	Native     string `json:"native,omitempty"`
	Script     string `json:"script"`
	Segmenter  string `json:"segmenter"`
	ShowScript bool   `json:"showScript,omitempty"`
}

// InScript reports whether r belongs to the language's defining script.
func (l Language) InScript(r rune) bool {
	return unicode.IsOneOf(scriptTables[l.Script], r)
}

// HasScript reports whether s contains at least one rune of the language's script.
func (l Language) HasScript(s string) bool {
	tables := scriptTables[l.Script]
	for _, r := range s {
		if unicode.IsOneOf(tables, r) {
			return true
		}
	}
	return false
}

// Segmented reports whether the language needs a segmenter to find word boundaries.
func (l Language) Segmented() bool {
	return l.Segmenter == SegmenterKagome || l.Segmenter == SegmenterScriptRun
}

// Pair is one entry of the "<from>-<to>" table.
type Pair struct {
	From         string
	To           string
	Enabled      bool
	APIProviders []string
}

// ProviderEndpoint is the endpoint configuration of one provider id. A zero
// Timeout means the process-wide default applies.
type ProviderEndpoint struct {
	ID                string
	BaseURL           string
	Enabled           bool
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Config is the immutable language table.
type Config struct {
	languages map[string]Language
	pairs     map[string]Pair
	providers map[string]ProviderEndpoint
	levels    map[int]float64
}

type fileConfig struct {
	Languages map[string]struct {
		Label      string `json:"label"`
		Native     string `json:"native"`
		Script     string `json:"script"`
		Segmenter  string `json:"segmenter"`
		ShowScript bool   `json:"showScript"`
	} `json:"languages"`
	Pairs map[string]struct {
		Enabled      bool     `json:"enabled"`
		APIProviders []string `json:"apiProviders"`
	} `json:"pairs"`
	Providers map[string]struct {
		BaseURL           string  `json:"baseUrl"`
		Enabled           bool    `json:"enabled"`
		Timeout           int64   `json:"timeout"`
		RequestsPerSecond float64 `json:"requestsPerSecond"`
		Burst             int     `json:"burst"`
	} `json:"providers"`
	Levels map[string]float64 `json:"levels"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	return Parse(defaultsJSON)
}

// Load reads the configuration at path, or the embedded defaults when path is empty.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read language config %s: %w", path, err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("language config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates raw against the JSON schema and builds a Config.
func Parse(raw []byte) (*Config, error) {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var file fileConfig
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("unmarshal language config: %w", err)
	}
	return build(file)
}

func build(file fileConfig) (*Config, error) {
	cfg := &Config{
		languages: make(map[string]Language, len(file.Languages)),
		pairs:     make(map[string]Pair, len(file.Pairs)),
		providers: make(map[string]ProviderEndpoint, len(file.Providers)),
		levels:    make(map[int]float64, len(file.Levels)),
	}

	for code, entry := range file.Languages {
		segmenter := entry.Segmenter
		if segmenter == "" {
			segmenter = SegmenterNone
		}
		cfg.languages[code] = Language{
			Code:       code,
			Label:      entry.Label,
			Native:     entry.Native,
			Script:     entry.Script,
			Segmenter:  segmenter,
			ShowScript: entry.ShowScript,
		}
	}

	for id, entry := range file.Providers {
		cfg.providers[id] = ProviderEndpoint{
			ID:                id,
			BaseURL:           strings.TrimRight(entry.BaseURL, "/"),
			Enabled:           entry.Enabled,
			Timeout:           time.Duration(entry.Timeout) * time.Millisecond,
			RequestsPerSecond: entry.RequestsPerSecond,
			Burst:             entry.Burst,
		}
	}

	for key, entry := range file.Pairs {
		from, to, err := language.SplitPairKey(key)
		if err != nil {
			return nil, err
		}
		for _, id := range entry.APIProviders {
			if _, ok := cfg.providers[id]; !ok {
				return nil, fmt.Errorf("pair %s references unknown provider %q", key, id)
			}
		}
		cfg.pairs[key] = Pair{
			From:         from,
			To:           to,
			Enabled:      entry.Enabled,
			APIProviders: append([]string(nil), entry.APIProviders...),
		}
	}

	for key, fraction := range file.Levels {
		level, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("level %q is not an integer", key)
		}
		cfg.levels[level] = fraction
	}

	return cfg, nil
}

// Pair returns the enabled configuration for from->to. Absent and disabled
// pairs both report false.
func (c *Config) Pair(from, to string) (Pair, bool) {
	if c == nil {
		return Pair{}, false
	}
	pair, ok := c.pairs[language.PairKey(from, to)]
	if !ok || !pair.Enabled {
		return Pair{}, false
	}
	pair.APIProviders = append([]string(nil), pair.APIProviders...)
	return pair, true
}

// Pairs lists every enabled pair sorted by key.
func (c *Config) Pairs() []Pair {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.pairs))
	for key, pair := range c.pairs {
		if pair.Enabled {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := make([]Pair, 0, len(keys))
	for _, key := range keys {
		pair := c.pairs[key]
		pair.APIProviders = append([]string(nil), pair.APIProviders...)
		out = append(out, pair)
	}
	return out
}

// Language looks up a language by code.
func (c *Config) Language(code string) (Language, bool) {
	if c == nil {
		return Language{}, false
	}
	lang, ok := c.languages[language.NormalizeCode(code)]
	return lang, ok
}

// Languages lists all configured languages sorted by code.
func (c *Config) Languages() []Language {
	if c == nil {
		return nil
	}
	out := make([]Language, 0, len(c.languages))
	for _, lang := range c.languages {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Provider returns the endpoint configuration for id.
func (c *Config) Provider(id string) (ProviderEndpoint, bool) {
	if c == nil {
		return ProviderEndpoint{}, false
	}
	p, ok := c.providers[id]
	return p, ok
}

// ProviderIDs lists configured provider ids sorted by name.
func (c *Config) ProviderIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.providers))
	for id := range c.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Fraction returns the share of words replaced at level. Levels outside
// 1..5 clamp to the nearest bound; a missing level yields 0.
func (c *Config) Fraction(level int) float64 {
	if c == nil {
		return 0
	}
	level = ClampLevel(level)
	return c.levels[level]
}

// ClampLevel forces level into MinLevel..MaxLevel.
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("language_config.schema.json", strings.NewReader(schemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("language_config.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("config is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config contains trailing content")
	}
	return value, nil
}
