package mixer

import (
	"errors"
	"fmt"
)

// Error codes returned to callers that misuse the mixer.
const (
	CodeInvalidTextInput        = "INVALID_TEXT_INPUT"
	CodeUnsupportedLanguagePair = "UNSUPPORTED_LANGUAGE_PAIR"
)

var (
	ErrInvalidTextInput        = errors.New("invalid text input")
	ErrUnsupportedLanguagePair = errors.New("unsupported language pair")
)

// Error is a contract violation by the caller. It is never used for
// transient provider or tokenizer failures, which degrade instead.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches the sentinel that corresponds to Code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidTextInput:
		return e.Code == CodeInvalidTextInput
	case ErrUnsupportedLanguagePair:
		return e.Code == CodeUnsupportedLanguagePair
	}
	return false
}

func invalidText(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidTextInput, Message: fmt.Sprintf(format, args...)}
}

func unsupportedPair(format string, args ...any) *Error {
	return &Error{Code: CodeUnsupportedLanguagePair, Message: fmt.Sprintf(format, args...)}
}
