package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gmeta/backoffice/internal/core/ports"
)

// RoleHandler serves permissions, roles and the grants between them.
type RoleHandler struct {
	adminService ports.AdminService
}

func NewRoleHandler(adminService ports.AdminService) *RoleHandler {
	return &RoleHandler{adminService: adminService}
}

// PermissionList pages through permission rows.
//
// @Summary      List permissions
// @Tags         admin-role
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page, from 1"
// @Param        size  query     int  false  "Page size, 1..100"
// @Success      200   {object}  PageEnvelope{data=[]permissionItem}
// @Router       /back/admin/permission/list [get]
func (h *RoleHandler) PermissionList(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	req := defaultPage()
	if err := bind(c, &req); err != nil {
		return err
	}

	page, err := h.adminService.ListPermissions(c.Request().Context(), user, req.query())
	if err != nil {
		return err
	}
	return pageList(c, toPermissionItems(page.Items), page.Total, page.TotalPage)
}

// PermissionEdit renames a permission. Keys are immutable.
//
// @Summary      Edit permission
// @Tags         admin-role
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      editPermissionRequest  true  "Permission fields"
// @Success      200   {object}  Envelope
// @Router       /back/admin/permission/edit [post]
func (h *RoleHandler) PermissionEdit(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req editPermissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.adminService.EditPermission(c.Request().Context(), user, req.ID, req.Name, req.Description); err != nil {
		return err
	}
	return ok(c)
}

// RoleList pages through roles.
//
// @Summary      List roles
// @Tags         admin-role
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page, from 1"
// @Param        size  query     int  false  "Page size, 1..100"
// @Success      200   {object}  PageEnvelope{data=[]roleItem}
// @Router       /back/admin/role/list [get]
func (h *RoleHandler) RoleList(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	req := defaultPage()
	if err := bind(c, &req); err != nil {
		return err
	}

	page, err := h.adminService.ListRoles(c.Request().Context(), user, req.query())
	if err != nil {
		return err
	}
	return pageList(c, toRoleItems(page.Items), page.Total, page.TotalPage)
}

// RoleAdd creates a role with a unique name.
//
// @Summary      Create role
// @Tags         admin-role
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Role fields"
// @Success      200   {object}  Envelope
// @Router       /back/admin/role/add [post]
func (h *RoleHandler) RoleAdd(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if _, err := h.adminService.AddRole(c.Request().Context(), user, req.Name, req.Description); err != nil {
		return err
	}
	return ok(c)
}

// RoleEdit renames a role.
//
// @Summary      Edit role
// @Tags         admin-role
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      editRoleRequest  true  "Role fields"
// @Success      200   {object}  Envelope
// @Router       /back/admin/role/edit [post]
func (h *RoleHandler) RoleEdit(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req editRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.adminService.EditRole(c.Request().Context(), user, req.ID, req.Name, req.Description); err != nil {
		return err
	}
	return ok(c)
}

// RoleDelete removes a role. Its operators are left without a role.
//
// @Summary      Delete role
// @Tags         admin-role
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteRoleRequest  true  "Role id"
// @Success      200   {object}  Envelope
// @Router       /back/admin/role/delete [post]
func (h *RoleHandler) RoleDelete(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req deleteRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.adminService.DeleteRole(c.Request().Context(), user, req.ID); err != nil {
		return err
	}
	return ok(c)
}

// RolePermissionList returns a role and the permissions granted to it.
//
// @Summary      Role permissions
// @Tags         admin-role
// @Produce      json
// @Security     BearerAuth
// @Param        id   query     int  true  "Role id"
// @Success      200  {object}  DataEnvelope{data=rolePermissionsResponse}
// @Router       /back/admin/role/permission/list [get]
func (h *RoleHandler) RolePermissionList(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req requiredIDQuery
	if err := bind(c, &req); err != nil {
		return err
	}

	rp, err := h.adminService.RolePermissionList(c.Request().Context(), user, req.ID)
	if err != nil {
		return err
	}
	return data(c, toRolePermissions(rp))
}

// RolePermissionAdd grants a permission to a role.
//
// @Summary      Grant permission
// @Tags         admin-role
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      rolePermissionRequest  true  "Role and permission"
// @Success      200   {object}  Envelope
// @Router       /back/admin/role/permission/add [post]
func (h *RoleHandler) RolePermissionAdd(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req rolePermissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.adminService.AddRolePermission(c.Request().Context(), user, req.RoleID, req.PermissionID); err != nil {
		return err
	}
	return ok(c)
}

// RolePermissionRemove revokes a permission from a role.
//
// @Summary      Revoke permission
// @Tags         admin-role
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      rolePermissionRequest  true  "Role and permission"
// @Success      200   {object}  Envelope
// @Router       /back/admin/role/permission/remove [post]
func (h *RoleHandler) RolePermissionRemove(c echo.Context) error {
	user, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req rolePermissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.adminService.RemoveRolePermission(c.Request().Context(), user, req.RoleID, req.PermissionID); err != nil {
		return err
	}
	return ok(c)
}

// RoleDropdown lists every role for select inputs.
//
// @Summary      Role options
// @Tags         admin-dropdown
// @Produce      json
// @Success      200  {object}  DataEnvelope{data=[]roleRef}
// @Router       /back/admin/dropdown/role [get]
func (h *RoleHandler) RoleDropdown(c echo.Context) error {
	roles, err := h.adminService.AllRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return data(c, toRoleOptions(roles))
}

// PermissionDropdown lists every permission for select inputs.
//
// @Summary      Permission options
// @Tags         admin-dropdown
// @Produce      json
// @Success      200  {object}  DataEnvelope{data=[]permissionOption}
// @Router       /back/admin/dropdown/permission [get]
func (h *RoleHandler) PermissionDropdown(c echo.Context) error {
	perms, err := h.adminService.AllPermissions(c.Request().Context())
	if err != nil {
		return err
	}
	return data(c, toPermissionOptions(perms))
}
