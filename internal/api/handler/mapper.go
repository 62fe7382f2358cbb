package handler

import (
	"time"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

func toAdminInfo(u *domain.AdminUser, isAdmin bool) adminInfoResponse {
	perms := u.Permissions()
	roles := make([]string, 0, len(perms))
	for _, k := range perms {
		roles = append(roles, string(k))
	}
	return adminInfoResponse{
		ID:           u.ID,
		Introduction: u.Summary,
		RoleName:     u.RoleName(),
		Roles:        roles,
		Avatar:       u.Avatar,
		Nickname:     u.Nickname,
		IsAdmin:      isAdmin,
	}
}

func toAdminDetail(u *domain.AdminUser) adminDetailResponse {
	return adminDetailResponse{
		ID:       u.ID,
		Nickname: u.Nickname,
		Avatar:   u.Avatar,
		Summary:  u.Summary,
		RoleID:   u.RoleIDOrZero(),
		RoleName: u.RoleName(),
	}
}

func toAdminList(users []*domain.AdminUser) []adminListItem {
	out := make([]adminListItem, 0, len(users))
	for _, u := range users {
		out = append(out, adminListItem{
			ID:       u.ID,
			Avatar:   u.Avatar,
			Nickname: u.Nickname,
			Summary:  u.Summary,
			Username: u.Username,
			RoleID:   u.RoleIDOrZero(),
			RoleName: u.RoleName(),
		})
	}
	return out
}

func toPermissionItem(p *domain.Permission) permissionItem {
	return permissionItem{ID: p.ID, Key: string(p.Key), Name: p.Name, Description: p.Description}
}

func toPermissionItems(perms []*domain.Permission) []permissionItem {
	out := make([]permissionItem, 0, len(perms))
	for _, p := range perms {
		out = append(out, toPermissionItem(p))
	}
	return out
}

func toRoleItems(roles []*domain.Role) []roleItem {
	out := make([]roleItem, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleItem{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return out
}

func toRolePermissions(rp *ports.RolePermissions) rolePermissionsResponse {
	perms := make([]permissionItem, 0, len(rp.Permissions))
	for i := range rp.Permissions {
		perms = append(perms, toPermissionItem(&rp.Permissions[i]))
	}
	return rolePermissionsResponse{
		Role:        roleRef{ID: rp.Role.ID, Name: rp.Role.Name},
		Permissions: perms,
	}
}

func toRoleOptions(roles []*domain.Role) []roleRef {
	out := make([]roleRef, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleRef{ID: r.ID, Name: r.Name})
	}
	return out
}

func toPermissionOptions(perms []*domain.Permission) []permissionOption {
	out := make([]permissionOption, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionOption{ID: p.ID, Name: p.Name, Key: string(p.Key)})
	}
	return out
}

func toUploadParams(t *ports.UploadTicket) uploadParamsResponse {
	return uploadParamsResponse{
		Method:      t.Method,
		URL:         t.URL,
		Key:         t.Key,
		PublicURL:   t.PublicURL,
		Fields:      t.Fields,
		ExpiresAt:   t.ExpiresAt.UTC().Format(time.RFC3339),
		MaxFileSize: t.MaxFileSize,
	}
}
