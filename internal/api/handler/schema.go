package handler

import "github.com/gmeta/backoffice/internal/core/ports"

// --- Request types ---
// Every request binds from JSON, form or query, depending on the method.

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required"`
}

type resetPasswordRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
}

type pageRequest struct {
	Page int `query:"page" validate:"gte=1"`
	Size int `query:"size" validate:"gte=1,lte=100"`
}

type adminListRequest struct {
	Page     int    `query:"page" validate:"gte=1"`
	Size     int    `query:"size" validate:"gte=1,lte=100"`
	Nickname string `query:"nickname"`
	Username string `query:"username"`
}

type idQuery struct {
	ID int64 `query:"id" validate:"gte=0"`
}

type requiredIDQuery struct {
	ID int64 `query:"id" validate:"required,gt=0"`
}

type editInfoRequest struct {
	ID       int64  `json:"id" form:"id" validate:"gte=0"`
	Summary  string `json:"summary" form:"summary" validate:"max=512"`
	Nickname string `json:"nickname" form:"nickname" validate:"required,max=20"`
	Avatar   string `json:"avatar" form:"avatar" validate:"max=255"`
}

type editPermissionRequest struct {
	ID          int64  `json:"id" form:"id" validate:"required,gt=0"`
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"max=255"`
}

type roleRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"max=255"`
}

type editRoleRequest struct {
	ID          int64  `json:"id" form:"id" validate:"required,gt=0"`
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"max=255"`
}

type deleteRoleRequest struct {
	ID int64 `json:"id" form:"id" validate:"required,gt=0"`
}

type rolePermissionRequest struct {
	RoleID       int64 `json:"role_id" form:"role_id" validate:"required,gt=0"`
	PermissionID int64 `json:"permission_id" form:"permission_id" validate:"required,gt=0"`
}

type addAdminRequest struct {
	Nickname string `json:"nickname" form:"nickname" validate:"required,max=20"`
	Username string `json:"username" form:"username" validate:"required,max=255"`
	Password string `json:"password" form:"password" validate:"required"`
	RoleID   int64  `json:"role_id" form:"role_id" validate:"required,gt=0"`
}

type editUserRoleRequest struct {
	AdminUserID int64 `json:"admin_user_id" form:"admin_user_id" validate:"required,gt=0"`
	RoleID      int64 `json:"role_id" form:"role_id" validate:"required,gt=0"`
}

type uploadParamsRequest struct {
	Ext string `json:"ext" form:"ext" validate:"required,max=10"`
}

// --- Response types ---

type tokenResponse struct {
	Token string `json:"token"`
}

type adminInfoResponse struct {
	ID           int64    `json:"id"`
	Introduction string   `json:"introduction"`
	RoleName     string   `json:"role_name"`
	Roles        []string `json:"roles"`
	Avatar       string   `json:"avatar"`
	Nickname     string   `json:"nickname"`
	IsAdmin      bool     `json:"is_admin"`
}

type adminDetailResponse struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Summary  string `json:"summary"`
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
}

type adminListItem struct {
	ID       int64  `json:"id"`
	Avatar   string `json:"avatar"`
	Nickname string `json:"nickname"`
	Summary  string `json:"summary"`
	Username string `json:"username"`
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
}

type permissionItem struct {
	ID          int64  `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type roleItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type roleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rolePermissionsResponse struct {
	Role        roleRef          `json:"role"`
	Permissions []permissionItem `json:"permissions"`
}

type permissionOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

type uploadParamsResponse struct {
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	Key         string            `json:"key"`
	PublicURL   string            `json:"public_url"`
	Fields      map[string]string `json:"fields"`
	ExpiresAt   string            `json:"expires_at"`
	MaxFileSize int64             `json:"max_file_size"`
}

type userInfoResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type ipResponse struct {
	IP string `json:"ip"`
}

type statusResponse struct {
	DB         bool `json:"db"`
	Redis      bool `json:"redis"`
	Mongo      bool `json:"mongo"`
	Migrations bool `json:"migrations"`
}

func defaultPage() pageRequest {
	return pageRequest{Page: 1, Size: ports.DefaultPageSize}
}

func (r pageRequest) query() ports.PageQuery {
	return ports.PageQuery{Page: r.Page, Size: r.Size}
}
