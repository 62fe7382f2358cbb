package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&roleModel{}, "Permissions", &rolePermissionModel{}); err != nil {
		return fmt.Errorf("setup join table: %w", err)
	}
	if err := db.AutoMigrate(
		&permissionModel{},
		&roleModel{},
		&rolePermissionModel{},
		&adminUserModel{},
		&userModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SchemaReady reports whether every owned table exists.
func SchemaReady(db *gorm.DB) bool {
	m := db.Migrator()
	for _, model := range []any{
		&permissionModel{},
		&roleModel{},
		&rolePermissionModel{},
		&adminUserModel{},
		&userModel{},
	} {
		if !m.HasTable(model) {
			return false
		}
	}
	return true
}
