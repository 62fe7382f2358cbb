package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gmeta/backoffice/internal/api/metrics"
	"github.com/gmeta/backoffice/internal/core/domain"
)

const userContextKey = "auth_user"

// Gate authenticates a raw bearer token for one principal population.
type Gate[U any] interface {
	Authenticate(ctx context.Context, token string) (U, error)
	Principal() domain.Principal
}

// Auth rejects requests that do not carry a token the gate accepts, and
// stores the resolved user in the context.
func Auth[U any](gate Gate[U]) echo.MiddlewareFunc {
	return authenticate(gate, false)
}

// OptionalAuth lets requests without an Authorization header through
// anonymously. A header that is present must still be valid.
func OptionalAuth[U any](gate Gate[U]) echo.MiddlewareFunc {
	return authenticate(gate, true)
}

func authenticate[U any](gate Gate[U], optional bool) echo.MiddlewareFunc {
	population := string(gate.Principal())
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" && optional {
				return next(c)
			}

			user, err := gate.Authenticate(c.Request().Context(), bearerToken(header))
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues(population, rejectionReason(err)).Inc()
				return err
			}
			metrics.SessionRenewalsTotal.WithLabelValues(population).Inc()

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// bearerToken returns "" unless header has the form "Bearer <token>".
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "error"
	}
}

// CurrentUser returns the user stored by Auth or OptionalAuth.
func CurrentUser[U any](c echo.Context) (U, bool) {
	u, ok := c.Get(userContextKey).(U)
	return u, ok
}
