package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gmeta/backoffice/internal/api/handler"
	"github.com/gmeta/backoffice/internal/core/domain"
)

const (
	msgUnauthorized  = "login expired"
	msgInvalidParams = "invalid parameters"
	msgInternal      = "internal server error"
)

// businessErrors surface inside a 200 envelope with code -1.
var businessErrors = []error{
	domain.ErrPermissionDenied,
	domain.ErrInvalidCredentials,
	domain.ErrWrongPassword,
	domain.ErrUserNotFound,
	domain.ErrUserExists,
	domain.ErrRoleNotFound,
	domain.ErrRoleExists,
	domain.ErrPermissionNotFound,
	domain.ErrUnsupportedUpload,
	domain.ErrInvalidPage,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders authentication failures as 401, whatever the cause.
//   - Renders business errors inside a 200 envelope with code -1.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, handler.DataEnvelope{
			Code: http.StatusUnprocessableEntity,
			Msg:  msgInvalidParams,
			Data: ve.Detail,
		}
	}

	// Malformed and stale tokens look the same to the client.
	if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrUnauthenticated) {
		return http.StatusUnauthorized, handler.Envelope{Code: http.StatusUnauthorized, Msg: msgUnauthorized}
	}

	for _, sentinel := range businessErrors {
		if errors.Is(err, sentinel) {
			return http.StatusOK, handler.Envelope{Code: handler.CodeBusinessError, Msg: sentinel.Error()}
		}
	}

	// Echo's own errors (404 from router, 405, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.Envelope{Code: he.Code, Msg: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.Envelope{Code: http.StatusInternalServerError, Msg: msgInternal}
}
