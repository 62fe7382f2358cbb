package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// RoleRepository persists roles and the t_role_permission join rows.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	var m roleModel
	if err := r.db.WithContext(ctx).Preload("Permissions", orderByID).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrRoleNotFound, "find role")
	}
	return m.toDomain(), nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var m roleModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, notFound(err, domain.ErrRoleNotFound, "find role")
	}
	return m.toDomain(), nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	m := roleModel{Name: role.Name, Description: role.Description}
	if err := r.db.WithContext(ctx).Omit("Permissions").Create(&m).Error; err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	role.ID = m.ID
	return nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	res := r.db.WithContext(ctx).Model(&roleModel{ID: role.ID}).Updates(map[string]any{
		"name":        role.Name,
		"description": role.Description,
	})
	if res.Error != nil {
		return fmt.Errorf("update role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// Delete detaches users and permissions before removing the role, all in
// one transaction.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&adminUserModel{}).Where("role_id = ?", id).Update("role_id", nil).Error; err != nil {
			return fmt.Errorf("detach users: %w", err)
		}
		if err := tx.Where("role_id = ?", id).Delete(&rolePermissionModel{}).Error; err != nil {
			return fmt.Errorf("detach permissions: %w", err)
		}
		if err := tx.Delete(&roleModel{}, id).Error; err != nil {
			return fmt.Errorf("delete role: %w", err)
		}
		return nil
	})
}

func (r *RoleRepository) List(ctx context.Context, page ports.PageQuery) ([]*domain.Role, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&roleModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count roles: %w", err)
	}

	page = page.Normalize()
	var rows []roleModel
	if err := r.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.Size).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list roles: %w", err)
	}
	return rolesToDomain(rows), total, nil
}

func (r *RoleRepository) All(ctx context.Context) ([]*domain.Role, error) {
	var rows []roleModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return rolesToDomain(rows), nil
}

// RolePermissions reads the join table on every call; nothing is cached.
func (r *RoleRepository) RolePermissions(ctx context.Context, roleID int64) ([]domain.PermissionKey, error) {
	var rows []permissionModel
	err := r.db.WithContext(ctx).
		Joins("JOIN t_role_permission rp ON rp.permission_id = t_permission.id").
		Where("rp.role_id = ?", roleID).
		Order("t_permission.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("role permissions: %w", err)
	}
	keys := make([]domain.PermissionKey, 0, len(rows))
	for _, p := range rows {
		keys = append(keys, domain.PermissionKey(p.Key))
	}
	return keys, nil
}

// AddPermission is idempotent.
func (r *RoleRepository) AddPermission(ctx context.Context, roleID, permissionID int64) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rolePermissionModel{RoleID: roleID, PermissionID: permissionID}).Error
	if err != nil {
		return fmt.Errorf("add role permission: %w", err)
	}
	return nil
}

func (r *RoleRepository) RemovePermission(ctx context.Context, roleID, permissionID int64) error {
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&rolePermissionModel{}).Error
	if err != nil {
		return fmt.Errorf("remove role permission: %w", err)
	}
	return nil
}

func rolesToDomain(rows []roleModel) []*domain.Role {
	out := make([]*domain.Role, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
