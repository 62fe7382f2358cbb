package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gmeta/backoffice/internal/api/middleware"
	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// UserHandler serves the end-user population.
type UserHandler struct {
	authService ports.UserAuthService
}

func NewUserHandler(authService ports.UserAuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Login authenticates an end user.
//
// @Summary      End-user login
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  DataEnvelope{data=tokenResponse}
// @Router       /login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, c.RealIP())
	observeLogin(domain.PrincipalUser, err)
	if err != nil {
		return err
	}
	return data(c, tokenResponse{Token: token})
}

// Info returns the authenticated end user.
//
// @Summary      Current end user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  DataEnvelope{data=userInfoResponse}
// @Failure      401  {object}  Envelope
// @Router       /user/info [get]
func (h *UserHandler) Info(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return data(c, userInfoResponse{ID: user.ID, Username: user.Username})
}

// Me is Info behind the optional gate: anonymous callers get null data.
//
// @Summary      Current end user, if any
// @Tags         user
// @Produce      json
// @Success      200  {object}  DataEnvelope{data=userInfoResponse}
// @Router       /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, found := middleware.CurrentUser[*domain.User](c)
	if !found || user == nil {
		return data(c, nil)
	}
	return data(c, userInfoResponse{ID: user.ID, Username: user.Username})
}
