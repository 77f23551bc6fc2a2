package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/lingomix/internal/globaltime"
	"horse.fit/lingomix/internal/langconfig"
	"horse.fit/lingomix/internal/language"
	"horse.fit/lingomix/internal/mixer"
	"horse.fit/lingomix/internal/translation"
)

type mixedContentRequest struct {
	Text       string `json:"text"`
	UserLevel  int    `json:"userLevel"`
	TargetLang string `json:"targetLang"`
	SourceLang string `json:"sourceLang"`
	Mode       string `json:"mode"`
}

type mixedContentResponse struct {
	*mixer.MixedContent
	Diagnostics *mixer.Diagnostics `json:"diagnostics,omitempty"`
}

type translateRequest struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.cache.Ping(c.Request().Context()); err != nil {
		s.logger.Error().Err(err).Msg("cache store ping failed")
		return errorWithStatus(c, http.StatusServiceUnavailable, "Cache store unavailable")
	}
	return success(c, map[string]any{
		"service": "lingomix",
		"cache":   s.cache.Stats().Backend,
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	levels := make(map[int]float64, langconfig.MaxLevel)
	for level := langconfig.MinLevel; level <= langconfig.MaxLevel; level++ {
		levels[level] = s.languages.Fraction(level)
	}
	return success(c, map[string]any{
		"items":  translation.LanguageOptions(s.languages),
		"levels": levels,
	})
}

func (s *Server) handleCacheStats(c echo.Context) error {
	return success(c, s.cache.Stats())
}

func (s *Server) handleMixedContent(c echo.Context) error {
	var req mixedContentRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	fieldErrors := map[string]string{}
	if req.UserLevel < langconfig.MinLevel || req.UserLevel > langconfig.MaxLevel {
		fieldErrors["userLevel"] = fmt.Sprintf("must be between %d and %d", langconfig.MinLevel, langconfig.MaxLevel)
	}
	mode, err := mixer.ParseMode(req.Mode)
	if err != nil {
		fieldErrors["mode"] = err.Error()
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	content, err := s.mixer.CreateMixedContent(c.Request().Context(), mixer.Request{
		Text:       req.Text,
		UserLevel:  req.UserLevel,
		TargetLang: req.TargetLang,
		SourceLang: req.SourceLang,
		Mode:       mode,
	})
	if err != nil {
		return s.pipelineError(c, err, "Failed to create mixed content")
	}

	resp := mixedContentResponse{MixedContent: content}
	if wantsDiagnostics(c) {
		resp.Diagnostics = &content.Diagnostics
	}
	return success(c, resp)
}

func (s *Server) handleTranslate(c echo.Context) error {
	var req translateRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	fieldErrors := map[string]string{}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		fieldErrors["text"] = "is required"
	}
	from := language.NormalizeCode(req.From)
	to := language.NormalizeCode(req.To)
	if from == "" {
		fieldErrors["from"] = "must be a language code"
	}
	if to == "" {
		fieldErrors["to"] = "must be a language code"
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}
	if _, ok := s.languages.Pair(from, to); !ok {
		return fail(c, http.StatusUnprocessableEntity, fmt.Sprintf("language pair %s is not enabled", language.PairKey(from, to)), map[string]any{
			"code": mixer.CodeUnsupportedLanguagePair,
		})
	}

	result, err := s.cache.Translate(c.Request().Context(), text, from, to)
	if err != nil {
		return s.pipelineError(c, err, "Failed to translate text")
	}
	return success(c, result)
}

func (s *Server) handleVocabulary(c echo.Context) error {
	var req mixer.VocabularyRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}
	if strings.TrimSpace(req.Lang) == "" {
		return failValidation(c, map[string]string{"lang": "is required"})
	}

	items, err := s.mixer.Vocabulary(c.Request().Context(), req)
	if err != nil {
		return s.pipelineError(c, err, "Failed to build vocabulary")
	}
	return success(c, map[string]any{
		"items": items,
	})
}

func (s *Server) pipelineError(c echo.Context, err error, message string) error {
	if handled, respErr := failContract(c, err); handled {
		return respErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn().Err(err).Msg("request ended before the pipeline finished")
		return errorWithStatus(c, http.StatusServiceUnavailable, message)
	}
	s.logger.Error().Err(err).Msg(message)
	return internalError(c, message)
}

func wantsDiagnostics(c echo.Context) bool {
	switch strings.ToLower(strings.TrimSpace(c.QueryParam("diagnostics"))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func decodeJSONBody(c echo.Context, out any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if decoder.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
