package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

type adminService struct {
	users       ports.AdminUserRepository
	roles       ports.RoleRepository
	permissions ports.PermissionRepository
	log         zerolog.Logger
}

// NewAdminService returns an AdminService implementation.
func NewAdminService(
	users ports.AdminUserRepository,
	roles ports.RoleRepository,
	permissions ports.PermissionRepository,
	log zerolog.Logger,
) ports.AdminService {
	return &adminService{users: users, roles: roles, permissions: permissions, log: log}
}

// HasPermission unions the role's stored keys with the superadmin flag.
func (s *adminService) HasPermission(ctx context.Context, user *domain.AdminUser, key domain.PermissionKey) (bool, error) {
	if user == nil {
		return false, nil
	}
	var roleKeys []domain.PermissionKey
	if user.RoleID != nil {
		keys, err := s.roles.RolePermissions(ctx, *user.RoleID)
		if err != nil && !errors.Is(err, domain.ErrRoleNotFound) {
			return false, fmt.Errorf("role permissions: %w", err)
		}
		roleKeys = keys
	}
	return domain.ContainsPermission(domain.EffectivePermissions(user.IsSuperadmin, roleKeys), key), nil
}

func (s *adminService) requireAdmin(ctx context.Context, actor *domain.AdminUser) error {
	ok, err := s.HasPermission(ctx, actor, domain.PermissionAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrPermissionDenied
	}
	return nil
}

// target resolves the user an actor operates on. Non-admins, and admins
// passing no id, always operate on themselves.
func (s *adminService) target(ctx context.Context, actor *domain.AdminUser, targetID int64) (*domain.AdminUser, error) {
	if targetID == 0 || targetID == actor.ID {
		return actor, nil
	}
	ok, err := s.HasPermission(ctx, actor, domain.PermissionAdmin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return actor, nil
	}
	return s.users.FindByID(ctx, targetID)
}

func (s *adminService) Profile(ctx context.Context, actor *domain.AdminUser, targetID int64) (*domain.AdminUser, error) {
	return s.target(ctx, actor, targetID)
}

func (s *adminService) EditProfile(ctx context.Context, actor *domain.AdminUser, in ports.EditProfileInput) error {
	user, err := s.target(ctx, actor, in.TargetID)
	if err != nil {
		return err
	}
	user.Summary = in.Summary
	user.Nickname = in.Nickname
	user.Avatar = in.Avatar
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return fmt.Errorf("edit profile: %w", err)
	}
	return nil
}

func (s *adminService) ListAdmins(ctx context.Context, actor *domain.AdminUser, filter ports.AdminUserFilter) (*ports.Page[*domain.AdminUser], error) {
	admin, err := s.HasPermission(ctx, actor, domain.PermissionAdmin)
	if err != nil {
		return nil, err
	}
	if !admin {
		filter.OnlyID = actor.ID
	}
	filter.Nickname = strings.TrimSpace(filter.Nickname)
	filter.Username = strings.TrimSpace(filter.Username)
	filter.Page = filter.Page.Normalize()

	items, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return paginate(items, total, filter.Page)
}

func (s *adminService) CreateAdmin(ctx context.Context, actor *domain.AdminUser, in ports.CreateAdminInput) (*domain.AdminUser, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.AdminUser{
		Username:     in.Username,
		PasswordHash: hash,
		Nickname:     in.Nickname,
		Avatar:       domain.DefaultAvatar,
		RoleID:       &role.ID,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Int64("actor_id", actor.ID).Int64("user_id", user.ID).Str("username", user.Username).Msg("admin user created")
	return user, nil
}

func (s *adminService) ChangeRole(ctx context.Context, actor *domain.AdminUser, userID, roleID int64) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.users.UpdateRole(ctx, userID, roleID)
}

func (s *adminService) ListPermissions(ctx context.Context, actor *domain.AdminUser, page ports.PageQuery) (*ports.Page[*domain.Permission], error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	page = page.Normalize()
	items, total, err := s.permissions.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return paginate(items, total, page)
}

// EditPermission never touches the key; keys are fixed once seeded.
func (s *adminService) EditPermission(ctx context.Context, actor *domain.AdminUser, id int64, name, description string) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	p, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	return s.permissions.Update(ctx, p)
}

func (s *adminService) AllPermissions(ctx context.Context) ([]*domain.Permission, error) {
	return s.permissions.All(ctx)
}

func (s *adminService) ListRoles(ctx context.Context, actor *domain.AdminUser, page ports.PageQuery) (*ports.Page[*domain.Role], error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	page = page.Normalize()
	items, total, err := s.roles.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return paginate(items, total, page)
}

func (s *adminService) AddRole(ctx context.Context, actor *domain.AdminUser, name, description string) (*domain.Role, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.ensureRoleNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	role := &domain.Role{Name: name, Description: description}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *adminService) EditRole(ctx context.Context, actor *domain.AdminUser, id int64, name, description string) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureRoleNameFree(ctx, name, role.ID); err != nil {
		return err
	}
	role.Name = name
	role.Description = description
	return s.roles.Update(ctx, role)
}

// ensureRoleNameFree enforces name uniqueness, ignoring the role being edited.
func (s *adminService) ensureRoleNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.roles.FindByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrRoleNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("lookup role: %w", err)
	case existing.ID != selfID:
		return domain.ErrRoleExists
	}
	return nil
}

func (s *adminService) DeleteRole(ctx context.Context, actor *domain.AdminUser, id int64) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	s.log.Info().Int64("actor_id", actor.ID).Int64("role_id", id).Msg("role deleted")
	return nil
}

func (s *adminService) AllRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.All(ctx)
}

func (s *adminService) RolePermissionList(ctx context.Context, actor *domain.AdminUser, roleID int64) (*ports.RolePermissions, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	perms := role.Permissions
	if perms == nil {
		perms = []domain.Permission{}
	}
	return &ports.RolePermissions{Role: role, Permissions: perms}, nil
}

func (s *adminService) AddRolePermission(ctx context.Context, actor *domain.AdminUser, roleID, permissionID int64) error {
	if err := s.checkRolePermission(ctx, actor, roleID, permissionID); err != nil {
		return err
	}
	return s.roles.AddPermission(ctx, roleID, permissionID)
}

func (s *adminService) RemoveRolePermission(ctx context.Context, actor *domain.AdminUser, roleID, permissionID int64) error {
	if err := s.checkRolePermission(ctx, actor, roleID, permissionID); err != nil {
		return err
	}
	return s.roles.RemovePermission(ctx, roleID, permissionID)
}

func (s *adminService) checkRolePermission(ctx context.Context, actor *domain.AdminUser, roleID, permissionID int64) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.permissions.FindByID(ctx, permissionID); err != nil {
		return err
	}
	return nil
}

// paginate rejects pages outside [1, total_page]. Page 1 of an empty set is valid.
func paginate[T any](items []T, total int64, q ports.PageQuery) (*ports.Page[T], error) {
	pages := ports.TotalPages(total, q.Size)
	if q.Page < 1 || q.Page > pages {
		return nil, domain.ErrInvalidPage
	}
	if items == nil {
		items = []T{}
	}
	return &ports.Page[T]{Items: items, Total: total, TotalPage: pages}, nil
}
