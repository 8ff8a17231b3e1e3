package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/absensi-pegawai/portal/internal/api/paths"
	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/pkg/metrics"
)

// RequireRole lets the request through only when the session principal has
// role. Anything else, including a missing session or principal, is
// redirected to the login page.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !SessionFrom(c).HasRole(role) {
				metrics.GuardDenialsTotal.WithLabelValues(string(role)).Inc()
				return c.Redirect(http.StatusFound, paths.Login)
			}
			return next(c)
		}
	}
}
