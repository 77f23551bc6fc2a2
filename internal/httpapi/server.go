package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/lingomix/internal/cache"
	"horse.fit/lingomix/internal/langconfig"
	"horse.fit/lingomix/internal/mixer"
	"horse.fit/lingomix/internal/translation"
	"horse.fit/lingomix/internal/vocab"
)

const maxBodyBytes = "1M"

// Mixer is the content pipeline behind the API.
type Mixer interface {
	CreateMixedContent(ctx context.Context, req mixer.Request) (*mixer.MixedContent, error)
	Vocabulary(ctx context.Context, req mixer.VocabularyRequest) ([]vocab.Item, error)
}

// TranslationCache serves single lookups and cache metrics.
type TranslationCache interface {
	Translate(ctx context.Context, text, from, to string) (translation.Result, error)
	Stats() cache.Stats
	Ping(ctx context.Context) error
}

type Options struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
}

func (o Options) withDefaults() Options {
	if o.Host = strings.TrimSpace(o.Host); o.Host == "" {
		o.Host = "0.0.0.0"
	}
	if o.Port <= 0 {
		o.Port = 8090
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 10 * time.Second
	}
	// Mixing a long post can wait on several provider timeouts.
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 60 * time.Second
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 10 * time.Second
	}
	if len(o.CORSAllowedOrigins) == 0 {
		o.CORSAllowedOrigins = []string{"*"}
	}
	return o
}

func (o Options) addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// Server exposes the mixer and translation cache over JSON.
type Server struct {
	mixer     Mixer
	cache     TranslationCache
	languages *langconfig.Config
	logger    zerolog.Logger
	opts      Options
}

func NewServer(m Mixer, c TranslationCache, languages *langconfig.Config, logger zerolog.Logger, opts Options) *Server {
	return &Server{
		mixer:     m,
		cache:     c,
		languages: languages,
		logger:    logger.With().Str("component", "httpapi").Logger(),
		opts:      opts.withDefaults(),
	}
}

// Handler builds the echo instance with every route registered.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.BodyLimit(maxBodyBytes),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.opts.CORSAllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			MaxAge:       3600,
		}),
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogStatus:     true,
			LogURI:        true,
			LogMethod:     true,
			LogLatency:    true,
			LogRequestID:  true,
			LogError:      true,
			LogValuesFunc: s.logRequest,
		}),
	)

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/languages", s.handleLanguages)
	api.GET("/cache/stats", s.handleCacheStats)
	api.POST("/mixed-content", s.handleMixedContent)
	api.POST("/translate", s.handleTranslate)
	api.POST("/vocabulary", s.handleVocabulary)
	return e
}

func (s *Server) logRequest(_ echo.Context, v middleware.RequestLoggerValues) error {
	event := s.logger.Info()
	if v.Error != nil {
		event = s.logger.Warn().Err(v.Error)
	}
	event.
		Str("method", v.Method).
		Str("uri", v.URI).
		Int("status", v.Status).
		Dur("latency", v.Latency).
		Str("request_id", v.RequestID).
		Msg("http request")
	return nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.mixer == nil || s.cache == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.Handler()
	httpServer := &http.Server{
		Addr:         s.opts.addr(),
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", httpServer.Addr).Msg("lingomix api listening")
	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("lingomix api stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("unhandled error")
		_ = internalError(c, "Internal server error")
		return
	}

	message, _ := he.Message.(string)
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(he.Code)
	}
	_ = fail(c, he.Code, message, nil)
}
