package domain

import "time"

// DefaultAvatar is assigned to admin users created without one.
const DefaultAvatar = "/static/avatar/default.png"

// AdminUser models a back-office operator.
type AdminUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Nickname     string    `json:"nickname"`
	Avatar       string    `json:"avatar"`
	Summary      string    `json:"summary"`
	IsSuperadmin bool      `json:"is_superadmin"`
	RoleID       *int64    `json:"role_id,omitempty"`
	Role         *Role     `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleName is empty when no role is assigned.
func (u *AdminUser) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// RoleIDOrZero returns 0 for users without a role.
func (u *AdminUser) RoleIDOrZero() int64 {
	if u.RoleID == nil {
		return 0
	}
	return *u.RoleID
}

// Permissions is the effective permission set, derived from the role loaded
// with the user. It is recomputed on every call.
func (u *AdminUser) Permissions() []PermissionKey {
	return EffectivePermissions(u.IsSuperadmin, u.Role.PermissionKeys())
}

// HasPermission reports whether the effective set contains key.
func (u *AdminUser) HasPermission(key PermissionKey) bool {
	return ContainsPermission(u.Permissions(), key)
}

// IsAdmin reports whether the user holds the Admin capability.
func (u *AdminUser) IsAdmin() bool {
	return u.HasPermission(PermissionAdmin)
}

// User models an end user of the public API.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasPassword is false for accounts created without a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
