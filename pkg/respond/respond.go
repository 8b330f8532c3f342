// Package respond renders the response envelope shared by the gateway and every
// service: {"success": bool, "message": string, "data": ...}.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Body{Success: true, Message: message, Data: data})
}

func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Body{Success: false, Message: message})
}

// ErrorHandler converts every error escaping a handler chain into the envelope.
// Unexpected errors are logged and masked as a generic 500; messages attached to
// explicit HTTP errors (401/403/404/429/502) pass through untouched.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok && s != "" {
				msg = s
			}
		}
		if code == http.StatusInternalServerError {
			log.Error("unhandled request error", "error", err)
			msg = "internal server error"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, Body{Success: false, Message: msg})
	}
}
