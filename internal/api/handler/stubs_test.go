package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

type stubAdminAuth struct {
	loginFn  func(ctx context.Context, username, password, ip string) (string, *domain.AdminUser, error)
	changeFn func(ctx context.Context, user *domain.AdminUser, oldPassword, newPassword, ip string) error
	resetFn  func(ctx context.Context, actor *domain.AdminUser, username, ip string) error
}

func (s *stubAdminAuth) Login(ctx context.Context, username, password, ip string) (string, *domain.AdminUser, error) {
	return s.loginFn(ctx, username, password, ip)
}

func (s *stubAdminAuth) ChangePassword(ctx context.Context, user *domain.AdminUser, oldPassword, newPassword, ip string) error {
	return s.changeFn(ctx, user, oldPassword, newPassword, ip)
}

func (s *stubAdminAuth) ResetPassword(ctx context.Context, actor *domain.AdminUser, username, ip string) error {
	return s.resetFn(ctx, actor, username, ip)
}

// stubAdminService implements the calls a test sets; any other call panics
// on the nil embedded interface.
type stubAdminService struct {
	ports.AdminService

	hasPermissionFn func(ctx context.Context, user *domain.AdminUser, key domain.PermissionKey) (bool, error)
	profileFn       func(ctx context.Context, actor *domain.AdminUser, targetID int64) (*domain.AdminUser, error)
	editProfileFn   func(ctx context.Context, actor *domain.AdminUser, in ports.EditProfileInput) error
	listAdminsFn    func(ctx context.Context, actor *domain.AdminUser, filter ports.AdminUserFilter) (*ports.Page[*domain.AdminUser], error)
	createAdminFn   func(ctx context.Context, actor *domain.AdminUser, in ports.CreateAdminInput) (*domain.AdminUser, error)
	listRolesFn     func(ctx context.Context, actor *domain.AdminUser, page ports.PageQuery) (*ports.Page[*domain.Role], error)
	addRoleFn       func(ctx context.Context, actor *domain.AdminUser, name, description string) (*domain.Role, error)
	rolePermsFn     func(ctx context.Context, actor *domain.AdminUser, roleID int64) (*ports.RolePermissions, error)
	addRolePermFn   func(ctx context.Context, actor *domain.AdminUser, roleID, permissionID int64) error
	allRolesFn      func(ctx context.Context) ([]*domain.Role, error)
	allPermsFn      func(ctx context.Context) ([]*domain.Permission, error)
}

func (s *stubAdminService) HasPermission(ctx context.Context, user *domain.AdminUser, key domain.PermissionKey) (bool, error) {
	return s.hasPermissionFn(ctx, user, key)
}

func (s *stubAdminService) Profile(ctx context.Context, actor *domain.AdminUser, targetID int64) (*domain.AdminUser, error) {
	return s.profileFn(ctx, actor, targetID)
}

func (s *stubAdminService) EditProfile(ctx context.Context, actor *domain.AdminUser, in ports.EditProfileInput) error {
	return s.editProfileFn(ctx, actor, in)
}

func (s *stubAdminService) ListAdmins(ctx context.Context, actor *domain.AdminUser, filter ports.AdminUserFilter) (*ports.Page[*domain.AdminUser], error) {
	return s.listAdminsFn(ctx, actor, filter)
}

func (s *stubAdminService) CreateAdmin(ctx context.Context, actor *domain.AdminUser, in ports.CreateAdminInput) (*domain.AdminUser, error) {
	return s.createAdminFn(ctx, actor, in)
}

func (s *stubAdminService) ListRoles(ctx context.Context, actor *domain.AdminUser, page ports.PageQuery) (*ports.Page[*domain.Role], error) {
	return s.listRolesFn(ctx, actor, page)
}

func (s *stubAdminService) AddRole(ctx context.Context, actor *domain.AdminUser, name, description string) (*domain.Role, error) {
	return s.addRoleFn(ctx, actor, name, description)
}

func (s *stubAdminService) RolePermissionList(ctx context.Context, actor *domain.AdminUser, roleID int64) (*ports.RolePermissions, error) {
	return s.rolePermsFn(ctx, actor, roleID)
}

func (s *stubAdminService) AddRolePermission(ctx context.Context, actor *domain.AdminUser, roleID, permissionID int64) error {
	return s.addRolePermFn(ctx, actor, roleID, permissionID)
}

func (s *stubAdminService) AllRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.allRolesFn(ctx)
}

func (s *stubAdminService) AllPermissions(ctx context.Context) ([]*domain.Permission, error) {
	return s.allPermsFn(ctx)
}

type stubUserAuth struct {
	loginFn func(ctx context.Context, username, password, ip string) (string, *domain.User, error)
}

func (s *stubUserAuth) Login(ctx context.Context, username, password, ip string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password, ip)
}

type stubUpload struct {
	gotExt string
	ticket *ports.UploadTicket
	err    error
}

func (s *stubUpload) Params(_ context.Context, ext string) (*ports.UploadTicket, error) {
	s.gotExt = ext
	return s.ticket, s.err
}

// newContext builds an echo context with the validator installed. A non-empty
// body is sent as JSON.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withAdmin stands in for the admin gate.
func withAdmin(c echo.Context, u *domain.AdminUser) echo.Context {
	c.Set("auth_user", u)
	return c
}

func superadmin() *domain.AdminUser {
	return &domain.AdminUser{ID: 1, Username: "root", Nickname: "root", Avatar: domain.DefaultAvatar, IsSuperadmin: true}
}

func getRequest(target string) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(http.MethodGet, target, "")
}

func newFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
