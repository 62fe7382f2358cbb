package postgres

import (
	"time"

	"github.com/gmeta/backoffice/internal/core/domain"
)

type permissionModel struct {
	ID          int64  `gorm:"primaryKey"`
	Key         string `gorm:"size:255;uniqueIndex;not null"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"size:255;not null"`
}

func (permissionModel) TableName() string { return "t_permission" }

type roleModel struct {
	ID          int64             `gorm:"primaryKey"`
	Name        string            `gorm:"size:255;not null"`
	Description string            `gorm:"size:255;not null"`
	Permissions []permissionModel `gorm:"many2many:t_role_permission;joinForeignKey:RoleID;joinReferences:PermissionID"`
}

func (roleModel) TableName() string { return "t_role" }

type rolePermissionModel struct {
	RoleID       int64 `gorm:"primaryKey"`
	PermissionID int64 `gorm:"primaryKey"`
}

func (rolePermissionModel) TableName() string { return "t_role_permission" }

type adminUserModel struct {
	ID           int64 `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Nickname     string     `gorm:"size:20;not null"`
	Username     string     `gorm:"size:255;uniqueIndex;not null"`
	Password     string     `gorm:"size:255;not null"`
	Avatar       string     `gorm:"size:255;not null"`
	Summary      string     `gorm:"size:512;not null"`
	IsSuperadmin bool       `gorm:"not null"`
	RoleID       *int64     `gorm:"index"`
	Role         *roleModel `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL"`
}

func (adminUserModel) TableName() string { return "t_admin_user" }

type userModel struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time
	Username  string  `gorm:"size:64;uniqueIndex;not null"`
	Password  *string `gorm:"size:255"`
}

func (userModel) TableName() string { return "t_user" }

func (m permissionModel) toDomain() domain.Permission {
	return domain.Permission{
		ID:          m.ID,
		Key:         domain.PermissionKey(m.Key),
		Name:        m.Name,
		Description: m.Description,
	}
}

func (m *roleModel) toDomain() *domain.Role {
	if m == nil {
		return nil
	}
	r := &domain.Role{ID: m.ID, Name: m.Name, Description: m.Description}
	for _, p := range m.Permissions {
		r.Permissions = append(r.Permissions, p.toDomain())
	}
	return r
}

func (m *adminUserModel) toDomain() *domain.AdminUser {
	return &domain.AdminUser{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.Password,
		Nickname:     m.Nickname,
		Avatar:       m.Avatar,
		Summary:      m.Summary,
		IsSuperadmin: m.IsSuperadmin,
		RoleID:       m.RoleID,
		Role:         m.Role.toDomain(),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (m *userModel) toDomain() *domain.User {
	u := &domain.User{ID: m.ID, Username: m.Username, CreatedAt: m.CreatedAt}
	if m.Password != nil {
		u.PasswordHash = *m.Password
	}
	return u
}
