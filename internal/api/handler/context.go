package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gmeta/backoffice/internal/api/middleware"
	"github.com/gmeta/backoffice/internal/core/domain"
)

// currentAdmin returns the operator resolved by the admin gate. Its absence
// means the route was registered without the gate.
func currentAdmin(c echo.Context) (*domain.AdminUser, error) {
	u, found := middleware.CurrentUser[*domain.AdminUser](c)
	if !found || u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

func currentUser(c echo.Context) (*domain.User, error) {
	u, found := middleware.CurrentUser[*domain.User](c)
	if !found || u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}
