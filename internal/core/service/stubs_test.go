package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

type cacheEntry struct {
	token string
	ttl   time.Duration
}

// memCache is a SessionCache over a map. sets counts Set calls.
type memCache struct {
	mu      sync.Mutex
	entries map[int64]cacheEntry
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[int64]cacheEntry)}
}

func (c *memCache) Get(_ context.Context, userID int64) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	return e.token, ok, nil
}

func (c *memCache) Set(_ context.Context, userID int64, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{token: token, ttl: ttl}
	c.sets++
	return nil
}

func (c *memCache) expire(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

type stubAdminRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.AdminUser
	roles  *stubRoleRepo
}

func newStubAdminRepo(roles *stubRoleRepo) *stubAdminRepo {
	return &stubAdminRepo{users: make(map[int64]*domain.AdminUser), roles: roles}
}

// hydrate attaches the role as currently stored, like a join would.
func (r *stubAdminRepo) hydrate(u *domain.AdminUser) *domain.AdminUser {
	clone := *u
	clone.Role = nil
	if clone.RoleID != nil && r.roles != nil {
		if role, err := r.roles.FindByID(context.Background(), *clone.RoleID); err == nil {
			clone.Role = role
		} else {
			clone.RoleID = nil
		}
	}
	return &clone
}

func (r *stubAdminRepo) FindByID(_ context.Context, id int64) (*domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.hydrate(u), nil
}

func (r *stubAdminRepo) FindByUsername(_ context.Context, username string) (*domain.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return r.hydrate(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAdminRepo) Create(_ context.Context, user *domain.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubAdminRepo) UpdateProfile(_ context.Context, user *domain.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Nickname, u.Summary, u.Avatar = user.Nickname, user.Summary, user.Avatar
	return nil
}

func (r *stubAdminRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubAdminRepo) UpdateRole(_ context.Context, id int64, roleID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RoleID = &roleID
	return nil
}

func (r *stubAdminRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *stubAdminRepo) List(_ context.Context, f ports.AdminUserFilter) ([]*domain.AdminUser, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.AdminUser
	for _, u := range r.users {
		if f.OnlyID != 0 && u.ID != f.OnlyID {
			continue
		}
		if f.Nickname != "" && !strings.Contains(strings.ToLower(u.Nickname), strings.ToLower(f.Nickname)) {
			continue
		}
		if f.Username != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(f.Username)) {
			continue
		}
		all = append(all, r.hydrate(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, f.Page), int64(len(all)), nil
}

func window[T any](all []T, q ports.PageQuery) []T {
	start := q.Offset()
	if start >= len(all) {
		return nil
	}
	end := start + q.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

type stubRoleRepo struct {
	mu     sync.Mutex
	nextID int64
	roles  map[int64]*domain.Role
	perms  *stubPermRepo
	links  map[int64]map[int64]struct{}
	users  *stubAdminRepo
}

func newStubRoleRepo(perms *stubPermRepo) *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[int64]*domain.Role), perms: perms, links: make(map[int64]map[int64]struct{})}
}

func (r *stubRoleRepo) withPermissions(role *domain.Role) *domain.Role {
	clone := *role
	clone.Permissions = nil
	ids := make([]int64, 0, len(r.links[role.ID]))
	for pid := range r.links[role.ID] {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, pid := range ids {
		if p, err := r.perms.FindByID(context.Background(), pid); err == nil {
			clone.Permissions = append(clone.Permissions, *p)
		}
	}
	return &clone
}

func (r *stubRoleRepo) FindByID(_ context.Context, id int64) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return r.withPermissions(role), nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.Name == name {
			return r.withPermissions(role), nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	role.ID = r.nextID
	clone := *role
	r.roles[role.ID] = &clone
	return nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.roles[role.ID]
	if !ok {
		return domain.ErrRoleNotFound
	}
	existing.Name, existing.Description = role.Name, role.Description
	return nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	delete(r.roles, id)
	delete(r.links, id)
	r.mu.Unlock()
	if r.users != nil {
		r.users.mu.Lock()
		for _, u := range r.users.users {
			if u.RoleID != nil && *u.RoleID == id {
				u.RoleID = nil
			}
		}
		r.users.mu.Unlock()
	}
	return nil
}

func (r *stubRoleRepo) List(_ context.Context, q ports.PageQuery) ([]*domain.Role, int64, error) {
	all, _ := r.All(context.Background())
	return window(all, q), int64(len(all)), nil
}

func (r *stubRoleRepo) All(context.Context) ([]*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, r.withPermissions(role))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRoleRepo) RolePermissions(ctx context.Context, roleID int64) ([]domain.PermissionKey, error) {
	role, err := r.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return role.PermissionKeys(), nil
}

func (r *stubRoleRepo) AddPermission(_ context.Context, roleID, permissionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.links[roleID] == nil {
		r.links[roleID] = make(map[int64]struct{})
	}
	r.links[roleID][permissionID] = struct{}{}
	return nil
}

func (r *stubRoleRepo) RemovePermission(_ context.Context, roleID, permissionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.links[roleID], permissionID)
	return nil
}

type stubPermRepo struct {
	mu     sync.Mutex
	nextID int64
	perms  map[int64]*domain.Permission
}

func newStubPermRepo() *stubPermRepo {
	return &stubPermRepo{perms: make(map[int64]*domain.Permission)}
}

func (r *stubPermRepo) FindByID(_ context.Context, id int64) (*domain.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.perms[id]
	if !ok {
		return nil, domain.ErrPermissionNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPermRepo) Update(_ context.Context, p *domain.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.perms[p.ID]
	if !ok {
		return domain.ErrPermissionNotFound
	}
	existing.Name, existing.Description = p.Name, p.Description
	return nil
}

func (r *stubPermRepo) Upsert(_ context.Context, p *domain.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.perms {
		if existing.Key == p.Key {
			*p = *existing
			return nil
		}
	}
	r.nextID++
	p.ID = r.nextID
	clone := *p
	r.perms[p.ID] = &clone
	return nil
}

func (r *stubPermRepo) List(_ context.Context, q ports.PageQuery) ([]*domain.Permission, int64, error) {
	all, _ := r.All(context.Background())
	return window(all, q), int64(len(all)), nil
}

func (r *stubPermRepo) All(context.Context) ([]*domain.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Permission, 0, len(r.perms))
	for _, p := range r.perms {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *stubAudit) Record(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *stubAudit) last() domain.AuthEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events[len(a.events)-1]
}

// fixture wires the stubs the way the server wires the real repositories.
type fixture struct {
	cache *memCache
	perms *stubPermRepo
	roles *stubRoleRepo
	users *stubAdminRepo
	audit *stubAudit
}

func newFixture() *fixture {
	perms := newStubPermRepo()
	roles := newStubRoleRepo(perms)
	users := newStubAdminRepo(roles)
	roles.users = users
	return &fixture{cache: newMemCache(), perms: perms, roles: roles, users: users, audit: &stubAudit{}}
}

func (f *fixture) addAdmin(username, password string, superadmin bool) *domain.AdminUser {
	hash, err := hashPassword(password)
	if err != nil {
		panic(err)
	}
	u := &domain.AdminUser{Username: username, PasswordHash: hash, Nickname: username, IsSuperadmin: superadmin}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}
