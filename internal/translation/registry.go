package translation

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"horse.fit/lingomix/internal/langconfig"
)

// Registry stores provider instances by id.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// RegistryOptions carries settings that are not part of the language table.
type RegistryOptions struct {
	HTTPClient *http.Client
	// LocalEndpoint overrides the base URL of the "local" provider entry.
	LocalEndpoint string
	LocalModel    string
	// LibreTranslateAPIKey is sent with every LibreTranslate request.
	LibreTranslateAPIKey string
}

// NewRegistryFromConfig builds one provider per enabled endpoint in languages.
// Endpoint ids without a known implementation are ignored.
func NewRegistryFromConfig(languages *langconfig.Config, opts RegistryOptions) *Registry {
	registry := NewRegistry()
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}

	for _, id := range languages.ProviderIDs() {
		endpoint, _ := languages.Provider(id)
		if !endpoint.Enabled {
			continue
		}

		var provider Provider
		switch id {
		case LingvaProviderName:
			provider = NewLingvaProvider(endpoint.BaseURL, client)
		case GoogleProviderName:
			provider = NewGoogleProvider(endpoint.BaseURL, client)
		case MyMemoryProviderName:
			provider = NewMyMemoryProvider(endpoint.BaseURL, client)
		case LibreTranslateProviderName:
			provider = NewLibreTranslateProvider(endpoint.BaseURL, opts.LibreTranslateAPIKey, client)
		case LocalProviderName:
			baseURL := endpoint.BaseURL
			if opts.LocalEndpoint != "" {
				baseURL = opts.LocalEndpoint
			}
			provider = NewLocalProvider(baseURL, opts.LocalModel)
		default:
			continue
		}
		_ = registry.Register(provider)
	}
	return registry
}

// Register adds one provider, replacing any provider with the same name.
func (r *Registry) Register(provider Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if provider == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeProviderName(provider.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	r.providers[name] = provider
	return nil
}

// Provider resolves a provider by name.
func (r *Registry) Provider(name string) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	provider, ok := r.providers[normalizeProviderName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrProviderNotRegistered, name, strings.Join(r.ProviderNames(), ", "))
	}
	return provider, nil
}

func (r *Registry) ProviderNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
