package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/gmeta/backoffice/internal/api/metrics"
	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// AuthHandler serves operator login and password management.
type AuthHandler struct {
	authService ports.AdminAuthService
}

func NewAuthHandler(authService ports.AdminAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an operator and returns a session token.
//
// @Summary      Operator login
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  DataEnvelope{data=tokenResponse}
// @Failure      422   {object}  DataEnvelope
// @Router       /back/admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, c.RealIP())
	observeLogin(domain.PrincipalAdmin, err)
	if err != nil {
		return err
	}
	return data(c, tokenResponse{Token: token})
}

// ChangePassword replaces the caller's password after checking the old one.
//
// @Summary      Change own password
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /back/admin/password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user, req.OldPassword, req.NewPassword, c.RealIP()); err != nil {
		return err
	}
	return ok(c)
}

// ResetPassword sets another operator's password back to their username.
//
// @Summary      Reset an operator's password
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resetPasswordRequest  true  "Target username"
// @Success      200   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /back/admin/password/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), user, req.Username, c.RealIP()); err != nil {
		return err
	}
	return ok(c)
}

func observeLogin(population domain.Principal, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials):
		result = "invalid_credentials"
	default:
		result = "error"
	}
	metrics.LoginsTotal.WithLabelValues(string(population), result).Inc()
}
