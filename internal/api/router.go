package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/gmeta/backoffice/docs"
	"github.com/gmeta/backoffice/internal/api/handler"
	"github.com/gmeta/backoffice/internal/api/middleware"
	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log       zerolog.Logger
	AdminGate middleware.Gate[*domain.AdminUser]
	UserGate  middleware.Gate[*domain.User]
	AdminAuth ports.AdminAuthService
	UserAuth  ports.UserAuthService
	Admin     ports.AdminService
	Upload    ports.UploadService
	Common    *handler.CommonHandler

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(d.Registry)))

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(handlerConfig(d.Registry)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.AdminAuth)
	adminHandler := handler.NewAdminHandler(d.Admin)
	roleHandler := handler.NewRoleHandler(d.Admin)
	uploadHandler := handler.NewUploadHandler(d.Upload)
	userHandler := handler.NewUserHandler(d.UserAuth)

	adminAuth := middleware.Auth(d.AdminGate)
	requireAdmin := middleware.RequirePermission(d.Admin, domain.PermissionAdmin)

	// --- Back office ---
	back := e.Group("/api/back")
	back.POST("/admin/login", authHandler.Login)
	back.GET("/admin/dropdown/role", roleHandler.RoleDropdown)
	back.GET("/admin/dropdown/permission", roleHandler.PermissionDropdown)

	back.POST("/admin/password", authHandler.ChangePassword, adminAuth)
	back.GET("/admin/user/info", adminHandler.UserInfo, adminAuth)
	back.POST("/admin/user/info/edit", adminHandler.EditInfo, adminAuth)
	back.GET("/admin/user/info/detail", adminHandler.InfoDetail, adminAuth)
	back.GET("/admin/user/info/list", adminHandler.InfoList, adminAuth)
	back.POST("/upload/params", uploadHandler.Params, adminAuth)

	// Admin-only routes, registered one by one so unknown paths under
	// /admin stay 404. The services check the capability again.
	adminOnly := []echo.MiddlewareFunc{adminAuth, requireAdmin}
	back.POST("/admin/password/reset", authHandler.ResetPassword, adminOnly...)
	back.GET("/admin/permission/list", roleHandler.PermissionList, adminOnly...)
	back.POST("/admin/permission/edit", roleHandler.PermissionEdit, adminOnly...)
	back.GET("/admin/role/list", roleHandler.RoleList, adminOnly...)
	back.POST("/admin/role/edit", roleHandler.RoleEdit, adminOnly...)
	back.POST("/admin/role/add", roleHandler.RoleAdd, adminOnly...)
	back.POST("/admin/role/delete", roleHandler.RoleDelete, adminOnly...)
	back.GET("/admin/role/permission/list", roleHandler.RolePermissionList, adminOnly...)
	back.POST("/admin/role/permission/add", roleHandler.RolePermissionAdd, adminOnly...)
	back.POST("/admin/role/permission/remove", roleHandler.RolePermissionRemove, adminOnly...)
	back.POST("/admin/user/add", adminHandler.AddUser, adminOnly...)
	back.POST("/admin/user/role/edit", adminHandler.EditUserRole, adminOnly...)

	// --- End users ---
	public := e.Group("/api")
	public.POST("/login", userHandler.Login)
	public.GET("/user/info", userHandler.Info, middleware.Auth(d.UserGate))
	public.GET("/user/me", userHandler.Me, middleware.OptionalAuth(d.UserGate))

	// --- Probes (no auth required) ---
	if d.Common != nil {
		public.GET("/ping", d.Common.Ping)
		public.GET("/ip", d.Common.IP)
		public.GET("/status", d.Common.Status)
	}

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: "backoffice"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func handlerConfig(reg *prometheus.Registry) echoprometheus.HandlerConfig {
	var cfg echoprometheus.HandlerConfig
	if reg != nil {
		cfg.Gatherer = reg
	}
	return cfg
}
