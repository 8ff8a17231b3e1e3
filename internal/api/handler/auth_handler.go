package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/absensi-pegawai/portal/internal/api/middleware"
	"github.com/absensi-pegawai/portal/internal/api/paths"
	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/core/ports"
	"github.com/absensi-pegawai/portal/internal/pkg/metrics"
)

var errNoSession = errors.New("session middleware not installed")

// AttemptRecorder receives every login outcome for the audit trail.
type AttemptRecorder interface {
	Record(attempt domain.LoginAttempt)
}

type AuthHandler struct {
	authService ports.AuthService
	attempts    AttemptRecorder
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, attempts AttemptRecorder, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, attempts: attempts, log: log}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// loginRejection is the body of a refused login.
type loginRejection struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirectUrl"`
}

// Login checks the submitted credentials and attaches the principal to the
// session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      302   "Redirect to /admin/dashboard, /karyawan/dashboard, or /loginpage when a field is empty"
// @Failure      401   {object}  loginRejection
// @Failure      503   {object}  loginRejection
// @Failure      500   "Session could not be saved"
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		h.record(c, req.Username, domain.OutcomeMissingCredentials, "")
		return c.Redirect(http.StatusFound, paths.LoginPage)
	}
	if err := c.Validate(&req); err != nil {
		h.record(c, req.Username, domain.OutcomeMissingCredentials, "")
		return c.Redirect(http.StatusFound, paths.LoginPage)
	}

	sess := middleware.SessionFrom(c)
	if sess == nil {
		return errNoSession
	}

	creds := domain.Credentials{Username: req.Username, Password: req.Password}
	principal, err := h.authService.Resolve(c.Request().Context(), creds)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.record(c, req.Username, domain.OutcomeInvalidCredentials, "")
		return c.JSON(http.StatusUnauthorized, loginRejection{
			Success:     false,
			Message:     "Invalid credentials",
			RedirectURL: paths.Login,
		})
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.record(c, req.Username, domain.OutcomeStoreUnavailable, "")
		h.log.Error().Err(err).Str("username", req.Username).Msg("login failed: credential store unavailable")
		return c.JSON(http.StatusServiceUnavailable, loginRejection{
			Success:     false,
			Message:     "Service unavailable",
			RedirectURL: paths.Login,
		})
	default:
		return err
	}

	sess.SetUser(principal)
	if err := middleware.Commit(c); err != nil {
		return fmt.Errorf("login %s: %w", principal.Username, err)
	}
	h.record(c, principal.Username, domain.OutcomeSuccess, principal.Role)
	metrics.LoginSuccessTotal.WithLabelValues(string(principal.Role)).Inc()
	h.log.Info().Str("username", principal.Username).Str("role", string(principal.Role)).Msg("login")

	if principal.Role == domain.RoleAdmin {
		return c.Redirect(http.StatusFound, paths.AdminDashboard)
	}
	return c.Redirect(http.StatusFound, paths.KaryawanDashboard)
}

// Logout clears the session principal and sends the browser back to login.
//
// @Summary      Logout
// @Tags         auth
// @Success      302  "Redirect to /login"
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := middleware.SessionFrom(c); sess != nil {
		if sess.User != nil {
			h.log.Info().Str("username", sess.User.Username).Msg("logout")
		}
		sess.Clear()
	}
	if err := middleware.Commit(c); err != nil {
		h.log.Error().Err(err).Msg("logout: session delete failed")
	}
	return c.Redirect(http.StatusFound, paths.Login)
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.HTML(http.StatusOK, loginForm)
}

func (h *AuthHandler) record(c echo.Context, username string, outcome domain.LoginOutcome, role domain.Role) {
	metrics.LoginAttemptsTotal.WithLabelValues(string(outcome)).Inc()
	if h.attempts == nil {
		return
	}
	h.attempts.Record(domain.LoginAttempt{
		Username: username,
		Outcome:  outcome,
		Role:     role,
		RemoteIP: c.RealIP(),
		At:       time.Now().UTC(),
	})
}

const loginForm = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Login</title></head>
<body>
<form method="post" action="/login">
<label>Username <input name="username" autocomplete="username"></label>
<label>Password <input name="password" type="password" autocomplete="current-password"></label>
<button type="submit">Login</button>
</form>
</body>
</html>
`
