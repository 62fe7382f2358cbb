package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gmeta/backoffice/internal/core/domain"
)

func TestBootstrap_Idempotent(t *testing.T) {
	f := newFixture()
	boot := NewBootstrap(f.users, f.perms, zerolog.Nop())
	ctx := context.Background()

	if err := boot.Run(ctx, "root", "root"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	id := adminPermissionID(t, f)
	_ = f.perms.Update(ctx, &domain.Permission{ID: id, Name: "edited"})

	created, err := boot.EnsureSuperadmin(ctx, "other", "other")
	if err != nil || created {
		t.Fatalf("second superadmin must not be created: %v", err)
	}
	if err := boot.SyncPermissions(ctx); err != nil {
		t.Fatalf("resync: %v", err)
	}

	all, _ := f.perms.All(ctx)
	if len(all) != len(domain.KnownPermissionKeys()) {
		t.Fatalf("expected %d permissions, got %d", len(domain.KnownPermissionKeys()), len(all))
	}
	if p, _ := f.perms.FindByID(ctx, id); p.Name != "edited" {
		t.Fatalf("sync overwrote edited name: %q", p.Name)
	}

	root, err := f.users.FindByUsername(ctx, "root")
	if err != nil {
		t.Fatalf("root missing: %v", err)
	}
	if !root.IsSuperadmin || root.Nickname != "root" || !checkPassword(root.PasswordHash, "root") {
		t.Fatalf("unexpected bootstrap user: %+v", root)
	}
}
