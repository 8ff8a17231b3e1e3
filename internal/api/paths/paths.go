// Package paths holds the fixed URLs of the portal's login surface and
// dashboards.
package paths

const (
	Login             = "/login"
	LoginPage         = "/loginpage"
	Logout            = "/logout"
	AdminDashboard    = "/admin/dashboard"
	KaryawanDashboard = "/karyawan/dashboard"
)
