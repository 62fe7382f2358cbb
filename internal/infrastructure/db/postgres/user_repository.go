package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gmeta/backoffice/internal/core/domain"
)

// UserRepository stores end users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "find user")
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "find user")
	}
	return m.toDomain(), nil
}

// Create stores a NULL password when PasswordHash is empty.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	m := userModel{Username: user.Username}
	if user.PasswordHash != "" {
		m.Password = &user.PasswordHash
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	return nil
}
