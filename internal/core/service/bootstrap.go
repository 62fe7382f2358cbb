package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// Bootstrap seeds the rows the system cannot run without.
type Bootstrap struct {
	users       ports.AdminUserRepository
	permissions ports.PermissionRepository
	log         zerolog.Logger
}

func NewBootstrap(users ports.AdminUserRepository, permissions ports.PermissionRepository, log zerolog.Logger) *Bootstrap {
	return &Bootstrap{users: users, permissions: permissions, log: log}
}

// SyncPermissions upserts one row per known key. Existing rows keep their
// edited name and description.
func (b *Bootstrap) SyncPermissions(ctx context.Context) error {
	for _, key := range domain.KnownPermissionKeys() {
		p := &domain.Permission{Key: key, Name: key.DefaultName()}
		if err := b.permissions.Upsert(ctx, p); err != nil {
			return fmt.Errorf("sync permission %s: %w", key, err)
		}
	}
	return nil
}

// EnsureSuperadmin creates the first operator when the admin table is empty.
// It returns true when a user was created.
func (b *Bootstrap) EnsureSuperadmin(ctx context.Context, username, password string) (bool, error) {
	n, err := b.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	user := &domain.AdminUser{
		Username:     username,
		PasswordHash: hash,
		Nickname:     username,
		Avatar:       domain.DefaultAvatar,
		IsSuperadmin: true,
	}
	if err := b.users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create superadmin: %w", err)
	}
	b.log.Info().Str("username", username).Msg("bootstrap superadmin created")
	return true, nil
}

// Run performs every bootstrap step in order.
func (b *Bootstrap) Run(ctx context.Context, username, password string) error {
	if err := b.SyncPermissions(ctx); err != nil {
		return err
	}
	_, err := b.EnsureSuperadmin(ctx, username, password)
	return err
}
