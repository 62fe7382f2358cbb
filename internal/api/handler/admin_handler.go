package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// AdminHandler serves operator profiles and the operator directory.
type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// UserInfo returns the caller's profile and effective permission keys.
//
// @Summary      Current operator
// @Tags         admin-user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  DataEnvelope{data=adminInfoResponse}
// @Failure      401  {object}  Envelope
// @Router       /back/admin/user/info [get]
func (h *AdminHandler) UserInfo(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	isAdmin, err := h.adminService.HasPermission(c.Request().Context(), user, domain.PermissionAdmin)
	if err != nil {
		return err
	}
	return data(c, toAdminInfo(user, isAdmin))
}

// EditInfo updates a profile. Only admins may target another operator.
//
// @Summary      Edit profile
// @Tags         admin-user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      editInfoRequest  true  "Profile fields"
// @Success      200   {object}  Envelope
// @Router       /back/admin/user/info/edit [post]
func (h *AdminHandler) EditInfo(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req editInfoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := ports.EditProfileInput{
		TargetID: req.ID,
		Summary:  req.Summary,
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
	}
	if err := h.adminService.EditProfile(c.Request().Context(), user, in); err != nil {
		return err
	}
	return ok(c)
}

// InfoDetail returns one profile. Only admins may pass an id.
//
// @Summary      Profile detail
// @Tags         admin-user
// @Produce      json
// @Security     BearerAuth
// @Param        id   query     int  false  "Operator id"
// @Success      200  {object}  DataEnvelope{data=adminDetailResponse}
// @Router       /back/admin/user/info/detail [get]
func (h *AdminHandler) InfoDetail(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req idQuery
	if err := bind(c, &req); err != nil {
		return err
	}

	target, err := h.adminService.Profile(c.Request().Context(), user, req.ID)
	if err != nil {
		return err
	}
	return data(c, toAdminDetail(target))
}

// InfoList pages through operators. Non-admins only ever see themselves.
//
// @Summary      List operators
// @Tags         admin-user
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page, from 1"
// @Param        size      query     int     false  "Page size, 1..100"
// @Param        nickname  query     string  false  "Nickname contains"
// @Param        username  query     string  false  "Username contains"
// @Success      200       {object}  PageEnvelope{data=[]adminListItem}
// @Failure      400       {object}  Envelope
// @Router       /back/admin/user/info/list [get]
func (h *AdminHandler) InfoList(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	req := adminListRequest{Page: 1, Size: ports.DefaultPageSize}
	if err := bind(c, &req); err != nil {
		return err
	}

	filter := ports.AdminUserFilter{
		Nickname: req.Nickname,
		Username: req.Username,
		Page:     ports.PageQuery{Page: req.Page, Size: req.Size},
	}
	page, err := h.adminService.ListAdmins(c.Request().Context(), user, filter)
	if err != nil {
		return err
	}
	return pageList(c, toAdminList(page.Items), page.Total, page.TotalPage)
}

// AddUser creates an operator with a role.
//
// @Summary      Create operator
// @Tags         admin-user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addAdminRequest  true  "New operator"
// @Success      200   {object}  Envelope
// @Router       /back/admin/user/add [post]
func (h *AdminHandler) AddUser(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req addAdminRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := ports.CreateAdminInput{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
		RoleID:   req.RoleID,
	}
	if _, err := h.adminService.CreateAdmin(c.Request().Context(), user, in); err != nil {
		return err
	}
	return ok(c)
}

// EditUserRole moves an operator to another role.
//
// @Summary      Change operator role
// @Tags         admin-user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      editUserRoleRequest  true  "Operator and role"
// @Success      200   {object}  Envelope
// @Router       /back/admin/user/role/edit [post]
func (h *AdminHandler) EditUserRole(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req editUserRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.adminService.ChangeRole(c.Request().Context(), user, req.AdminUserID, req.RoleID); err != nil {
		return err
	}
	return ok(c)
}
