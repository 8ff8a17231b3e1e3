package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/absensi-pegawai/portal/internal/api/middleware"
	"github.com/absensi-pegawai/portal/internal/core/domain"
)

// DashboardHandler serves the role dashboards. Rendering is out of scope; the
// dashboards return the session principal so the front end can draw itself.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

type dashboardResponse struct {
	Dashboard domain.Role       `json:"dashboard"`
	User      *domain.Principal `json:"user"`
}

// Admin handles GET /admin/dashboard.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Success      302  "Redirect to /login when the session is not an admin"
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardResponse{Dashboard: domain.RoleAdmin, User: middleware.SessionFrom(c).User})
}

// Karyawan handles GET /karyawan/dashboard.
//
// @Summary      Karyawan dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Success      302  "Redirect to /login when the session is not a karyawan"
// @Router       /karyawan/dashboard [get]
func (h *DashboardHandler) Karyawan(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardResponse{Dashboard: domain.RoleKaryawan, User: middleware.SessionFrom(c).User})
}
