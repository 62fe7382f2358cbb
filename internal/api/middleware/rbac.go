package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/gmeta/backoffice/internal/api/metrics"
	"github.com/gmeta/backoffice/internal/core/domain"
)

// PermissionChecker resolves a user's effective permissions.
type PermissionChecker interface {
	HasPermission(ctx context.Context, user *domain.AdminUser, key domain.PermissionKey) (bool, error)
}

// RequirePermission must run after Auth on the admin gate. A user without
// key gets domain.ErrPermissionDenied.
func RequirePermission(checker PermissionChecker, key domain.PermissionKey) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, found := CurrentUser[*domain.AdminUser](c)
			if !found || user == nil {
				return domain.ErrUnauthenticated
			}
			allowed, err := checker.HasPermission(c.Request().Context(), user, key)
			if err != nil {
				return err
			}
			if !allowed {
				metrics.PermissionDenialsTotal.WithLabelValues(string(key)).Inc()
				return domain.ErrPermissionDenied
			}
			return next(c)
		}
	}
}
