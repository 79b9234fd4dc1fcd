package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"sekolahku_echo/internal/services"
)

// JSONErrorHandler maps errors to JSON responses. Service-layer sentinels
// carry the billing error taxonomy; echo.HTTPError passes through; anything
// else is a 500 with a generic body so internals never leak.
func JSONErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, services.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrInvalidState):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrValidation):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrProvider):
		code = http.StatusBadGateway
		message = err.Error()
	default:
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok && msg != "" {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if jsonErr := c.JSON(code, map[string]string{"error": message}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}
