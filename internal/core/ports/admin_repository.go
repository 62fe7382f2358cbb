package ports

import (
	"context"

	"github.com/gmeta/backoffice/internal/core/domain"
)

// AdminUserFilter narrows List. Empty fields are ignored.
type AdminUserFilter struct {
	OnlyID   int64 // non-zero restricts the result to a single user
	Nickname string
	Username string
	Page     PageQuery
}

// AdminUserRepository is the credential store for back-office operators.
// Lookups return domain.ErrUserNotFound on a miss. Returned users carry their
// role and the role's permissions as stored at read time.
type AdminUserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	Create(ctx context.Context, user *domain.AdminUser) error
	UpdateProfile(ctx context.Context, user *domain.AdminUser) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, roleID int64) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, filter AdminUserFilter) ([]*domain.AdminUser, int64, error)
}

// UserRepository is the credential store for end users.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
