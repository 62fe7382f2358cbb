package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"

	"github.com/gmeta/backoffice/internal/api/handler"
	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
	"github.com/gmeta/backoffice/internal/core/service"
	"github.com/gmeta/backoffice/internal/infrastructure/db/postgres"
	redisdb "github.com/gmeta/backoffice/internal/infrastructure/db/redis"
)

type memAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (m *memAudit) Record(e domain.AuthEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

type uploadStub struct{}

func (uploadStub) PresignPost(_ context.Context, key, contentType string, maxSize int64, expires time.Duration) (*ports.UploadTicket, error) {
	return &ports.UploadTicket{
		Method:    http.MethodPost,
		URL:       "https://bucket.example.com",
		Key:       key,
		Fields:    map[string]string{"key": key, "Content-Type": contentType, "max": fmt.Sprint(maxSize)},
		ExpiresAt: time.Now().Add(expires),
	}, nil
}

type testServer struct {
	e     *echo.Echo
	mr    *miniredis.Miniredis
	audit *memAudit
	users *postgres.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	db, err := postgres.Open(sqlite.Open("file::memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	admins := postgres.NewAdminUserRepository(db)
	users := postgres.NewUserRepository(db)
	roles := postgres.NewRoleRepository(db)
	permissions := postgres.NewPermissionRepository(db)
	require.NoError(t, service.NewBootstrap(admins, permissions, log).Run(ctx, "root", "root"))

	adminCache := redisdb.NewSessionCache(rdb, "r", domain.PrincipalAdmin)
	userCache := redisdb.NewSessionCache(rdb, "r", domain.PrincipalUser)
	adminIssuer := service.NewTokenIssuer("test-secret", adminCache, time.Hour)
	userIssuer := service.NewTokenIssuer("test-secret", userCache, time.Hour)
	audit := &memAudit{}
	adminService := service.NewAdminService(admins, roles, permissions, log)

	e := NewRouter(Deps{
		Log:       log,
		AdminGate: service.NewAuthenticator[*domain.AdminUser](domain.PrincipalAdmin, adminIssuer, adminCache, admins, log),
		UserGate:  service.NewAuthenticator[*domain.User](domain.PrincipalUser, userIssuer, userCache, users, log),
		AdminAuth: service.NewAuthService(admins, adminIssuer, adminService, audit, log),
		UserAuth:  service.NewUserAuthService(users, userIssuer, audit),
		Admin:     adminService,
		Upload:    service.NewUploadService(uploadStub{}, 0),
		Common:    handler.NewCommonHandler(db, rdb, nil, log),
		Registry:  prometheus.NewRegistry(),
	})
	return &testServer{e: e, mr: mr, audit: audit, users: users}
}

type envelope struct {
	Code      int             `json:"code"`
	Msg       string          `json:"msg"`
	Data      json.RawMessage `json:"data"`
	Total     int64           `json:"total"`
	TotalPage int             `json:"total_page"`
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *testServer) login(t *testing.T, path, username, password string) string {
	t.Helper()
	status, env := s.do(t, http.MethodPost, path, "", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	require.NotEmpty(t, tok.Token)
	return tok.Token
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestRouter_BootstrapSuperadmin(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "/api/back/admin/login", "root", "root")

	status, env := s.do(t, http.MethodGet, "/api/back/admin/user/info", token, "")
	require.Equal(t, http.StatusOK, status)

	info := decodeData[map[string]any](t, env)
	assert.Equal(t, "", info["role_name"])
	assert.Equal(t, true, info["is_admin"])
	assert.Equal(t, []any{"Admin"}, info["roles"])
	assert.Equal(t, "root", info["nickname"])

	require.NotEmpty(t, s.audit.events)
	assert.Equal(t, domain.ActionLogin, s.audit.events[0].Action)
	assert.True(t, s.audit.events[0].Success)
}

func TestRouter_Unauthenticated(t *testing.T) {
	s := newTestServer(t)

	for _, token := range []string{"", "garbage"} {
		status, env := s.do(t, http.MethodGet, "/api/back/admin/user/info", token, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, 401, env.Code)
		assert.Equal(t, "login expired", env.Msg)
	}
}

func TestRouter_UnknownPathIsNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/back/admin/nope", "/api/back/admin", "/api/back/nope", "/api/nope"} {
		status, env := s.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, 404, env.Code, path)
	}

	status, _ := s.do(t, http.MethodPost, "/api/back/admin/role/add", "", `{"name":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, status, "known admin routes still require a session")
}

func TestRouter_BadCredentialsIsBusinessError(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/api/back/admin/login", "", `{"username":"root","password":"nope"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, handler.CodeBusinessError, env.Code)
	assert.Equal(t, "invalid username or password", env.Msg)
}

func TestRouter_ValidationError(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/api/back/admin/login", "", `{"username":"root"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, 422, env.Code)
	assert.Equal(t, "invalid parameters", env.Msg)
	assert.Equal(t, `"password is required"`, string(env.Data))
}

func TestRouter_SingleSession(t *testing.T) {
	s := newTestServer(t)
	first := s.login(t, "/api/back/admin/login", "root", "root")
	second := s.login(t, "/api/back/admin/login", "root", "root")
	require.NotEqual(t, first, second)

	status, _ := s.do(t, http.MethodGet, "/api/back/admin/user/info", first, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/api/back/admin/user/info", second, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_SessionExpires(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "/api/back/admin/login", "root", "root")

	s.mr.FastForward(59 * time.Minute)
	status, _ := s.do(t, http.MethodGet, "/api/back/admin/user/info", token, "")
	require.Equal(t, http.StatusOK, status, "renewed by use")

	s.mr.FastForward(59 * time.Minute)
	status, _ = s.do(t, http.MethodGet, "/api/back/admin/user/info", token, "")
	require.Equal(t, http.StatusOK, status, "sliding window")

	s.mr.FastForward(61 * time.Minute)
	status, _ = s.do(t, http.MethodGet, "/api/back/admin/user/info", token, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_RolePermissionGrantsAdmin(t *testing.T) {
	s := newTestServer(t)
	root := s.login(t, "/api/back/admin/login", "root", "root")

	_, env := s.do(t, http.MethodPost, "/api/back/admin/role/add", root, `{"name":"Ops","description":"operations"}`)
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)

	_, env = s.do(t, http.MethodGet, "/api/back/admin/dropdown/role", "", "")
	roles := decodeData[[]struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}](t, env)
	require.Len(t, roles, 1)
	roleID := roles[0].ID

	_, env = s.do(t, http.MethodGet, "/api/back/admin/dropdown/permission", "", "")
	perms := decodeData[[]struct {
		ID  int64  `json:"id"`
		Key string `json:"key"`
	}](t, env)
	require.Len(t, perms, 1)
	require.Equal(t, "Admin", perms[0].Key)
	permID := perms[0].ID

	_, env = s.do(t, http.MethodPost, "/api/back/admin/user/add", root,
		fmt.Sprintf(`{"nickname":"Alice","username":"alice","password":"pw","role_id":%d}`, roleID))
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)

	alice := s.login(t, "/api/back/admin/login", "alice", "pw")

	status, env := s.do(t, http.MethodGet, "/api/back/admin/role/list", alice, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, handler.CodeBusinessError, env.Code)
	assert.Equal(t, "permission denied", env.Msg)

	_, env = s.do(t, http.MethodPost, "/api/back/admin/role/permission/add", root,
		fmt.Sprintf(`{"role_id":%d,"permission_id":%d}`, roleID, permID))
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)

	_, env = s.do(t, http.MethodGet, "/api/back/admin/user/info", alice, "")
	info := decodeData[map[string]any](t, env)
	assert.Equal(t, "Ops", info["role_name"])
	assert.Equal(t, true, info["is_admin"])

	_, env = s.do(t, http.MethodGet, "/api/back/admin/role/list", alice, "")
	assert.Equal(t, handler.CodeOK, env.Code)
	assert.Equal(t, int64(1), env.Total)

	_, env = s.do(t, http.MethodPost, "/api/back/admin/role/permission/remove", root,
		fmt.Sprintf(`{"role_id":%d,"permission_id":%d}`, roleID, permID))
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)

	_, env = s.do(t, http.MethodGet, "/api/back/admin/role/list", alice, "")
	assert.Equal(t, handler.CodeBusinessError, env.Code)
}

func TestRouter_NonAdminSeesOnlySelf(t *testing.T) {
	s := newTestServer(t)
	root := s.login(t, "/api/back/admin/login", "root", "root")

	_, env := s.do(t, http.MethodPost, "/api/back/admin/role/add", root, `{"name":"Viewer"}`)
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)
	_, env = s.do(t, http.MethodGet, "/api/back/admin/role/list", root, "")
	roles := decodeData[[]struct {
		ID int64 `json:"id"`
	}](t, env)
	require.Len(t, roles, 1)

	_, env = s.do(t, http.MethodPost, "/api/back/admin/user/add", root,
		fmt.Sprintf(`{"nickname":"Bob","username":"bob","password":"pw","role_id":%d}`, roles[0].ID))
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)

	_, env = s.do(t, http.MethodGet, "/api/back/admin/user/info/list", root, "")
	assert.Equal(t, int64(2), env.Total)

	bob := s.login(t, "/api/back/admin/login", "bob", "pw")
	_, env = s.do(t, http.MethodGet, "/api/back/admin/user/info/list", bob, "")
	items := decodeData[[]map[string]any](t, env)
	require.Len(t, items, 1)
	assert.Equal(t, "bob", items[0]["username"])
	assert.Equal(t, "Viewer", items[0]["role_name"])
}

func TestRouter_PageOutOfRange(t *testing.T) {
	s := newTestServer(t)
	root := s.login(t, "/api/back/admin/login", "root", "root")

	for _, path := range []string{
		"/api/back/admin/user/info/list?page=5",
		"/api/back/admin/permission/list?page=9",
		"/api/back/admin/role/list?page=9",
	} {
		status, env := s.do(t, http.MethodGet, path, root, "")
		assert.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, handler.CodeBusinessError, env.Code, path)
		assert.Equal(t, "invalid page", env.Msg, path)
	}
}

func TestRouter_PasswordChangeAndReset(t *testing.T) {
	s := newTestServer(t)
	root := s.login(t, "/api/back/admin/login", "root", "root")

	_, env := s.do(t, http.MethodPost, "/api/back/admin/password", root, `{"old_password":"wrong","new_password":"x"}`)
	assert.Equal(t, handler.CodeBusinessError, env.Code)

	_, env = s.do(t, http.MethodPost, "/api/back/admin/password", root, `{"old_password":"root","new_password":"n3w"}`)
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)

	status, _ := s.do(t, http.MethodGet, "/api/back/admin/user/info", root, "")
	assert.Equal(t, http.StatusOK, status, "session survives a password change")

	root = s.login(t, "/api/back/admin/login", "root", "n3w")
	_, env = s.do(t, http.MethodPost, "/api/back/admin/password/reset", root, `{"username":"root"}`)
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)
	s.login(t, "/api/back/admin/login", "root", "root")
}

func TestRouter_EndUserPopulation(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), &domain.User{Username: "carol", PasswordHash: string(hash)}))

	userToken := s.login(t, "/api/login", "carol", "pw")

	_, env := s.do(t, http.MethodGet, "/api/user/info", userToken, "")
	info := decodeData[map[string]any](t, env)
	assert.Equal(t, "carol", info["username"])

	status, _ := s.do(t, http.MethodGet, "/api/back/admin/user/info", userToken, "")
	assert.Equal(t, http.StatusUnauthorized, status, "end-user token must not open the back office")

	adminToken := s.login(t, "/api/back/admin/login", "root", "root")
	status, _ = s.do(t, http.MethodGet, "/api/user/info", adminToken, "")
	assert.Equal(t, http.StatusUnauthorized, status, "operator token must not open the end-user API")

	_, env = s.do(t, http.MethodGet, "/api/user/me", "", "")
	assert.Equal(t, "null", string(env.Data))

	_, env = s.do(t, http.MethodGet, "/api/user/me", userToken, "")
	assert.Equal(t, "carol", decodeData[map[string]any](t, env)["username"])

	status, _ = s.do(t, http.MethodGet, "/api/user/me", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_UploadParams(t *testing.T) {
	s := newTestServer(t)
	root := s.login(t, "/api/back/admin/login", "root", "root")

	_, env := s.do(t, http.MethodPost, "/api/back/upload/params", root, `{"ext":"PNG"}`)
	require.Equal(t, handler.CodeOK, env.Code, env.Msg)
	params := decodeData[map[string]any](t, env)
	assert.Regexp(t, `^upload/\d{8}/[0-9a-f]{32}\.png$`, params["key"])
	assert.Equal(t, http.MethodPost, params["method"])
	assert.Equal(t, map[string]any{"key": params["key"], "Content-Type": "image/png", "max": "10485760"}, params["fields"])

	status, _ := s.do(t, http.MethodPost, "/api/back/upload/params", "", `{"ext":"png"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_Probes(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/ping", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", env.Msg)

	status, env = s.do(t, http.MethodGet, "/api/status", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"db":true,"redis":true,"mongo":false,"migrations":true}`, string(env.Data))
}
