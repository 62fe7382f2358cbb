package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) FindByID(ctx context.Context, id int64) (*domain.Permission, error) {
	var m permissionModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrPermissionNotFound, "find permission")
	}
	p := m.toDomain()
	return &p, nil
}

// Update writes name and description only.
func (r *PermissionRepository) Update(ctx context.Context, p *domain.Permission) error {
	res := r.db.WithContext(ctx).Model(&permissionModel{ID: p.ID}).Updates(map[string]any{
		"name":        p.Name,
		"description": p.Description,
	})
	if res.Error != nil {
		return fmt.Errorf("update permission: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

// Upsert inserts p when its key is new and otherwise loads the stored row
// into p unchanged.
func (r *PermissionRepository) Upsert(ctx context.Context, p *domain.Permission) error {
	m := permissionModel{Key: string(p.Key), Name: p.Name, Description: p.Description}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("upsert permission: %w", err)
	}

	var stored permissionModel
	if err := r.db.WithContext(ctx).Where(&permissionModel{Key: string(p.Key)}).First(&stored).Error; err != nil {
		return fmt.Errorf("reload permission: %w", err)
	}
	*p = stored.toDomain()
	return nil
}

func (r *PermissionRepository) List(ctx context.Context, page ports.PageQuery) ([]*domain.Permission, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&permissionModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count permissions: %w", err)
	}

	page = page.Normalize()
	var rows []permissionModel
	if err := r.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.Size).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list permissions: %w", err)
	}
	return permissionsToDomain(rows), total, nil
}

func (r *PermissionRepository) All(ctx context.Context) ([]*domain.Permission, error) {
	var rows []permissionModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissionsToDomain(rows), nil
}

func permissionsToDomain(rows []permissionModel) []*domain.Permission {
	out := make([]*domain.Permission, 0, len(rows))
	for _, m := range rows {
		p := m.toDomain()
		out = append(out, &p)
	}
	return out
}
