package ports

import (
	"context"

	"github.com/gmeta/backoffice/internal/core/domain"
)

// AdminAuthService covers login and password management for operators.
type AdminAuthService interface {
	Login(ctx context.Context, username, password, ip string) (string, *domain.AdminUser, error)
	ChangePassword(ctx context.Context, user *domain.AdminUser, oldPassword, newPassword, ip string) error
	ResetPassword(ctx context.Context, actor *domain.AdminUser, username, ip string) error
}

// EditProfileInput carries the editable profile fields.
type EditProfileInput struct {
	TargetID int64 // 0 edits the actor
	Summary  string
	Nickname string
	Avatar   string
}

// CreateAdminInput carries the fields for a new operator.
type CreateAdminInput struct {
	Username string
	Password string
	Nickname string
	RoleID   int64
}

// RolePermissions is a role together with its permission rows.
type RolePermissions struct {
	Role        *domain.Role
	Permissions []domain.Permission
}

// AdminService covers the back-office CRUD surface. Every method that takes an
// actor applies the admin gate itself.
type AdminService interface {
	Profile(ctx context.Context, actor *domain.AdminUser, targetID int64) (*domain.AdminUser, error)
	EditProfile(ctx context.Context, actor *domain.AdminUser, in EditProfileInput) error
	ListAdmins(ctx context.Context, actor *domain.AdminUser, filter AdminUserFilter) (*Page[*domain.AdminUser], error)
	CreateAdmin(ctx context.Context, actor *domain.AdminUser, in CreateAdminInput) (*domain.AdminUser, error)
	ChangeRole(ctx context.Context, actor *domain.AdminUser, userID, roleID int64) error

	ListPermissions(ctx context.Context, actor *domain.AdminUser, page PageQuery) (*Page[*domain.Permission], error)
	EditPermission(ctx context.Context, actor *domain.AdminUser, id int64, name, description string) error
	AllPermissions(ctx context.Context) ([]*domain.Permission, error)

	ListRoles(ctx context.Context, actor *domain.AdminUser, page PageQuery) (*Page[*domain.Role], error)
	AddRole(ctx context.Context, actor *domain.AdminUser, name, description string) (*domain.Role, error)
	EditRole(ctx context.Context, actor *domain.AdminUser, id int64, name, description string) error
	DeleteRole(ctx context.Context, actor *domain.AdminUser, id int64) error
	AllRoles(ctx context.Context) ([]*domain.Role, error)
	RolePermissionList(ctx context.Context, actor *domain.AdminUser, roleID int64) (*RolePermissions, error)
	AddRolePermission(ctx context.Context, actor *domain.AdminUser, roleID, permissionID int64) error
	RemoveRolePermission(ctx context.Context, actor *domain.AdminUser, roleID, permissionID int64) error

	PermissionChecker
}

// PermissionChecker reads the role graph live instead of trusting the role
// loaded with the user. Superadmins hold every permission.
type PermissionChecker interface {
	HasPermission(ctx context.Context, user *domain.AdminUser, key domain.PermissionKey) (bool, error)
}

// UserAuthService covers login for end users.
type UserAuthService interface {
	Login(ctx context.Context, username, password, ip string) (string, *domain.User, error)
}

// UploadService issues upload tickets.
type UploadService interface {
	Params(ctx context.Context, ext string) (*UploadTicket, error)
}
