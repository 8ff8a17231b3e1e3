package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/absensi-pegawai/portal/docs"
	"github.com/absensi-pegawai/portal/internal/api/handler"
	"github.com/absensi-pegawai/portal/internal/api/middleware"
	"github.com/absensi-pegawai/portal/internal/api/paths"
	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Sessions ports.SessionStore
	Attempts handler.AttemptRecorder
	Health   map[string]handler.Pinger
	Session  middleware.SessionConfig
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Attempts, deps.Log)
	dashboardHandler := handler.NewDashboardHandler()
	sessions := middleware.Session(deps.Sessions, deps.Session, deps.Log)

	// --- Auth routes ---
	web := e.Group("", sessions)
	web.GET(paths.Login, authHandler.LoginPage)
	web.GET(paths.LoginPage, authHandler.LoginPage)
	web.POST(paths.Login, authHandler.Login)
	web.GET(paths.Logout, authHandler.Logout)
	web.POST(paths.Logout, authHandler.Logout)

	// --- Role-guarded dashboards ---
	web.GET(paths.AdminDashboard, dashboardHandler.Admin, middleware.RequireRole(domain.RoleAdmin))
	web.GET(paths.KaryawanDashboard, dashboardHandler.Karyawan, middleware.RequireRole(domain.RoleKaryawan))

	// --- Health probes (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health, deps.Log)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
