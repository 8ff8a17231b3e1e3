package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/core/ports"
)

const (
	sessionKey      = "session"
	sessionStateKey = "session_state"
)

// SessionConfig controls the session cookie.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Domain     string
}

// sessionState tracks what the request started with so the change can be
// written back exactly once.
type sessionState struct {
	sess       *domain.Session
	initial    *domain.Principal
	stored     bool
	hadCookie  bool
	loadFailed bool
	done       bool

	store ports.SessionStore
	cfg   SessionConfig
	log   zerolog.Logger
}

// SessionFrom returns the session attached to the request, or nil when the
// Session middleware did not run.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionKey).(*domain.Session)
	return sess
}

// SetSession attaches sess to the request.
func SetSession(c echo.Context, sess *domain.Session) {
	c.Set(sessionKey, sess)
}

// Commit writes the session change to the store and sets or expires the
// cookie. Handlers call it before writing a response so a failed save can
// still become an error response. It is a no-op without the Session
// middleware and when the session was already committed.
func Commit(c echo.Context) error {
	st, _ := c.Get(sessionStateKey).(*sessionState)
	if st == nil {
		return nil
	}
	return st.commit(c, true)
}

// Session loads the request's session from store and attaches it to the echo
// context. Changes to the principal not committed by the handler are written
// back just before the response header goes out:
//   - a newly set principal gets a fresh session ID, is saved, and the cookie is set;
//   - a cleared principal deletes the stored session and expires the cookie.
//
// An unknown or expired session is treated as empty and its cookie expired.
// A session that cannot be loaded because the store failed is treated as
// empty for this request only; its cookie is left alone.
func Session(store ports.SessionStore, cfg SessionConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := loadSession(c, store, cfg, log)

			SetSession(c, st.sess)
			c.Set(sessionStateKey, st)
			c.Response().Before(func() {
				if err := st.commit(c, false); err != nil {
					log.Error().Err(err).Str("session_id", st.sess.ID).Msg("session write failed")
				}
			})

			return next(c)
		}
	}
}

func (st *sessionState) commit(c echo.Context, explicit bool) error {
	if st.done {
		return nil
	}
	st.done = true

	ctx := c.Request().Context()
	sess := st.sess
	switch {
	case sess.User == nil:
		// A store outage must not log the user out, unless they asked to.
		if st.hadCookie && (explicit || !st.loadFailed) {
			clearCookie(c, st.cfg)
		}
		if st.stored {
			if err := st.store.Delete(ctx, sess.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
	case sess.User != st.initial:
		oldID := sess.ID
		now := time.Now().UTC()
		sess.ID = uuid.NewString()
		sess.CreatedAt = now
		sess.ExpiresAt = now.Add(st.cfg.TTL)
		if err := st.store.Save(ctx, *sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		setCookie(c, st.cfg, sess)
		if st.stored {
			if err := st.store.Delete(ctx, oldID); err != nil {
				st.log.Warn().Err(err).Str("session_id", oldID).Msg("old session delete failed")
			}
		}
	}
	return nil
}

func loadSession(c echo.Context, store ports.SessionStore, cfg SessionConfig, log zerolog.Logger) *sessionState {
	st := &sessionState{sess: &domain.Session{}, store: store, cfg: cfg, log: log}

	id, ok := sessionCookie(c, cfg)
	if !ok {
		return st
	}
	st.hadCookie = true

	sess, err := store.Get(c.Request().Context(), id)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return st
	case err != nil:
		log.Warn().Err(err).Msg("session load failed, continuing without session")
		st.loadFailed = true
		return st
	}

	st.sess = &sess
	st.initial = sess.User
	st.stored = true
	return st
}

func sessionCookie(c echo.Context, cfg SessionConfig) (string, bool) {
	ck, err := c.Cookie(cfg.CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func setCookie(c echo.Context, cfg SessionConfig, sess *domain.Session) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cfg.TTL.Seconds()),
	})
}

func clearCookie(c echo.Context, cfg SessionConfig) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}
