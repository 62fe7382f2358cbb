package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// AdminUserRepository is the GORM-backed credential store for operators.
type AdminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// withRole loads the role and its permissions so that the returned user can
// answer permission checks on its own.
func (r *AdminUserRepository) withRole(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Role.Permissions")
}

func (r *AdminUserRepository) FindByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	var m adminUserModel
	if err := r.withRole(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "find admin user")
	}
	return m.toDomain(), nil
}

func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	var m adminUserModel
	if err := r.withRole(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "find admin user")
	}
	return m.toDomain(), nil
}

func (r *AdminUserRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	m := adminUserModel{
		Username:     user.Username,
		Password:     user.PasswordHash,
		Nickname:     user.Nickname,
		Avatar:       user.Avatar,
		Summary:      user.Summary,
		IsSuperadmin: user.IsSuperadmin,
		RoleID:       user.RoleID,
	}
	if err := r.db.WithContext(ctx).Omit("Role").Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert admin user: %w", err)
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AdminUserRepository) UpdateProfile(ctx context.Context, user *domain.AdminUser) error {
	return r.update(ctx, user.ID, map[string]any{
		"nickname": user.Nickname,
		"summary":  user.Summary,
		"avatar":   user.Avatar,
	})
}

func (r *AdminUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.update(ctx, id, map[string]any{"password": passwordHash})
}

func (r *AdminUserRepository) UpdateRole(ctx context.Context, id int64, roleID int64) error {
	return r.update(ctx, id, map[string]any{"role_id": roleID})
}

func (r *AdminUserRepository) update(ctx context.Context, id int64, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&adminUserModel{ID: id}).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update admin user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AdminUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&adminUserModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count admin users: %w", err)
	}
	return n, nil
}

// List filters case-insensitively on nickname and username, newest first.
func (r *AdminUserRepository) List(ctx context.Context, filter ports.AdminUserFilter) ([]*domain.AdminUser, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.OnlyID != 0 {
			db = db.Where("id = ?", filter.OnlyID)
		}
		if filter.Nickname != "" {
			db = db.Where("LOWER(nickname) LIKE ?", containsPattern(filter.Nickname))
		}
		if filter.Username != "" {
			db = db.Where("LOWER(username) LIKE ?", containsPattern(filter.Username))
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&adminUserModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count admin users: %w", err)
	}

	page := filter.Page.Normalize()
	var rows []adminUserModel
	err := r.withRole(ctx).
		Scopes(scope).
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list admin users: %w", err)
	}

	out := make([]*domain.AdminUser, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, total, nil
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// notFound maps gorm's miss onto the domain sentinel and wraps anything else.
func notFound(err, sentinel error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}
