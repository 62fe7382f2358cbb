package domain

// PermissionKey identifies a capability. System-known keys are enumerated
// below; rows with other keys may exist but never elevate a user.
type PermissionKey string

const (
	PermissionAdmin PermissionKey = "Admin"
)

var knownPermissions = map[PermissionKey]string{
	PermissionAdmin: "Administrator",
}

// KnownPermissionKeys returns every key the system recognises, in a stable order.
func KnownPermissionKeys() []PermissionKey {
	return []PermissionKey{PermissionAdmin}
}

// Known reports whether k belongs to the system-defined key set.
func (k PermissionKey) Known() bool {
	_, ok := knownPermissions[k]
	return ok
}

// DefaultName is the display name used when the key is first seeded.
func (k PermissionKey) DefaultName() string {
	if name, ok := knownPermissions[k]; ok {
		return name
	}
	return string(k)
}

// Permission is an atomic capability row.
type Permission struct {
	ID          int64         `json:"id"`
	Key         PermissionKey `json:"key"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
}

// Role groups permissions. Users reference a role; they do not own it.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// PermissionKeys returns the keys held by the role.
func (r *Role) PermissionKeys() []PermissionKey {
	if r == nil {
		return nil
	}
	keys := make([]PermissionKey, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		keys = append(keys, p.Key)
	}
	return keys
}

// EffectivePermissions unions role-derived keys with the flag-derived Admin key.
// The result never aliases roleKeys.
func EffectivePermissions(superadmin bool, roleKeys []PermissionKey) []PermissionKey {
	out := make([]PermissionKey, 0, len(roleKeys)+1)
	hasAdmin := false
	for _, k := range roleKeys {
		if k == PermissionAdmin {
			hasAdmin = true
		}
		out = append(out, k)
	}
	if superadmin && !hasAdmin {
		out = append(out, PermissionAdmin)
	}
	return out
}

// ContainsPermission is a membership test over a key set.
func ContainsPermission(keys []PermissionKey, key PermissionKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
