package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"horse.fit/lingomix/internal/langconfig"
)

// DefaultProviderTimeout bounds one provider call when neither the endpoint
// nor the pool options set a timeout.
const DefaultProviderTimeout = 15 * time.Second

// Outcome is what one provider produced for one lookup.
type Outcome struct {
	Provider string
	Text     string
	Err      error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// SelectFirstSuccess returns the first ok outcome. The slice is expected in
// configured priority order, so completion order never affects the choice.
func SelectFirstSuccess(outcomes []Outcome) (Outcome, bool) {
	for _, outcome := range outcomes {
		if outcome.OK() {
			return outcome, true
		}
	}
	return Outcome{}, false
}

// PoolOptions tunes the provider pool.
type PoolOptions struct {
	DefaultTimeout time.Duration
}

// Pool resolves translations by querying every provider configured for a
// language pair in parallel.
type Pool struct {
	languages *langconfig.Config
	registry  *Registry
	logger    zerolog.Logger
	timeout   time.Duration
	limiters  map[string]*rate.Limiter
}

func NewPool(languages *langconfig.Config, registry *Registry, logger zerolog.Logger, opts PoolOptions) *Pool {
	timeout := opts.DefaultTimeout
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}

	limiters := make(map[string]*rate.Limiter)
	for _, id := range languages.ProviderIDs() {
		endpoint, _ := languages.Provider(id)
		if endpoint.RequestsPerSecond <= 0 {
			continue
		}
		burst := endpoint.Burst
		if burst < 1 {
			burst = 1
		}
		limiters[id] = rate.NewLimiter(rate.Limit(endpoint.RequestsPerSecond), burst)
	}

	return &Pool{
		languages: languages,
		registry:  registry,
		logger:    logger.With().Str("component", "translation_pool").Logger(),
		timeout:   timeout,
		limiters:  limiters,
	}
}

// Supported reports whether from->to is an enabled pair.
func (p *Pool) Supported(from, to string) bool {
	_, ok := p.languages.Pair(from, to)
	return ok
}

// Translate looks text up through the providers of the from->to pair.
// Disabled pairs return provider "unsupported" without any network call and
// exhausted providers return provider "fallback"; both echo the input.
//
// Provider calls are detached from ctx cancellation so that a caller giving
// up does not abort lookups whose results are still worth caching.
func (p *Pool) Translate(ctx context.Context, text, from, to string) Result {
	result := Result{
		Original:    text,
		Translation: text,
		FromLang:    from,
		ToLang:      to,
	}

	pair, ok := p.languages.Pair(from, to)
	if !ok {
		result.Provider = ProviderUnsupported
		return result
	}

	winner, ok := p.TranslateViaProviders(context.WithoutCancel(ctx), text, from, to, pair.APIProviders)
	if !ok {
		result.Provider = ProviderFallback
		return result
	}
	result.Translation = winner.Text
	result.Provider = winner.Provider
	return result
}

// TranslateViaProviders calls every provider in the list concurrently, waits
// for all of them, and returns the first success in list order.
func (p *Pool) TranslateViaProviders(ctx context.Context, text, from, to string, providers []string) (Outcome, bool) {
	outcomes := make([]Outcome, len(providers))

	var g errgroup.Group
	for idx, id := range providers {
		g.Go(func() error {
			outcomes[idx] = p.call(ctx, id, text, from, to)
			return nil
		})
	}
	_ = g.Wait()

	for _, outcome := range outcomes {
		if !outcome.OK() {
			p.logger.Debug().
				Err(outcome.Err).
				Str("provider", outcome.Provider).
				Str("from", from).
				Str("to", to).
				Msg("provider produced no translation")
		}
	}

	return SelectFirstSuccess(outcomes)
}

func (p *Pool) call(ctx context.Context, id, text, from, to string) Outcome {
	outcome := Outcome{Provider: id}

	provider, err := p.registry.Provider(id)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeoutFor(id))
	defer cancel()

	if limiter := p.limiters[id]; limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			outcome.Err = fmt.Errorf("rate limit: %w", err)
			return outcome
		}
	}

	resp, err := provider.Translate(ctx, TranslateRequest{
		Text:       text,
		SourceLang: from,
		TargetLang: to,
	})
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if resp == nil {
		outcome.Err = ErrEmptyTranslation
		return outcome
	}
	if err := ValidateTranslation(text, resp.Text); err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Text = strings.TrimSpace(resp.Text)
	return outcome
}

func (p *Pool) timeoutFor(id string) time.Duration {
	if endpoint, ok := p.languages.Provider(id); ok && endpoint.Timeout > 0 {
		return endpoint.Timeout
	}
	return p.timeout
}
