package apperrors

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EchoHTTPErrorHandler renders every error as {"error": "<message>"}
// with the status mapped from its kind. Unmatched routes come through
// as echo 404s.
func EchoHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Erro no servidor"

	var appErr *Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.Status()
		message = appErr.Message
		if appErr.Kind == Internal {
			log.Printf("internal error: %v", appErr)
		}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if status == http.StatusNotFound {
			message = "Rota não encontrada"
		} else if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	default:
		log.Printf("unhandled error: %v", err)
	}

	if err := c.JSON(status, echo.Map{"error": message}); err != nil {
		log.Printf("error response failed: %v", err)
	}
}
