package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"horse.fit/lingomix/internal/mixer"
)

type jsendResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func success(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, jsendResponse{
		Status: "success",
		Data:   data,
	})
}

func fail(c echo.Context, code int, message string, data any) error {
	resp := jsendResponse{
		Status:  "fail",
		Message: message,
	}
	if data != nil {
		resp.Data = data
	}
	return c.JSON(code, resp)
}

func failValidation(c echo.Context, fieldErrors map[string]string) error {
	return fail(c, http.StatusBadRequest, "Validation failed", map[string]any{
		"validation_errors": fieldErrors,
	})
}

// failContract maps a mixer contract error to 400 or 422 with its code in
// the payload. It returns false when err is not a contract error.
func failContract(c echo.Context, err error) (bool, error) {
	var mixErr *mixer.Error
	if !errors.As(err, &mixErr) {
		return false, nil
	}
	status := http.StatusBadRequest
	if mixErr.Code == mixer.CodeUnsupportedLanguagePair {
		status = http.StatusUnprocessableEntity
	}
	return true, fail(c, status, mixErr.Message, map[string]any{
		"code": mixErr.Code,
	})
}

func errorWithStatus(c echo.Context, code int, message string) error {
	return c.JSON(code, jsendResponse{
		Status:  "error",
		Message: message,
		Code:    code,
	})
}

func internalError(c echo.Context, message string) error {
	return errorWithStatus(c, http.StatusInternalServerError, message)
}
