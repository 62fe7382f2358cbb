package ports

import (
	"context"

	"github.com/gmeta/backoffice/internal/core/domain"
)

// RoleRepository persists roles and their permission membership.
type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	// Delete removes the role, detaches its permissions and sets the role
	// reference of every user holding it to NULL.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page PageQuery) ([]*domain.Role, int64, error)
	All(ctx context.Context) ([]*domain.Role, error)
	// RolePermissions reads the role's permission keys from the store.
	RolePermissions(ctx context.Context, roleID int64) ([]domain.PermissionKey, error)
	AddPermission(ctx context.Context, roleID, permissionID int64) error
	RemovePermission(ctx context.Context, roleID, permissionID int64) error
}

// PermissionRepository persists permission rows.
type PermissionRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Permission, error)
	Update(ctx context.Context, p *domain.Permission) error
	// Upsert inserts the key when missing; existing rows are left untouched.
	Upsert(ctx context.Context, p *domain.Permission) error
	List(ctx context.Context, page PageQuery) ([]*domain.Permission, int64, error)
	All(ctx context.Context) ([]*domain.Permission, error)
}
