package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/absensi-pegawai/portal/internal/core/domain"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	getErr   error
	saveErr  error
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]domain.Session)}
}

func (m *memorySessionStore) Save(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memorySessionStore) Get(_ context.Context, id string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.Session{}, m.getErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m *memorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

var testSessionConfig = SessionConfig{CookieName: "portal_session", TTL: time.Hour}

func serveWithSession(t *testing.T, store *memorySessionStore, cookie string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testSessionConfig.CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Session(store, testSessionConfig, zerolog.Nop())(h)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestSession_LoginSavesAndSetsCookie(t *testing.T) {
	store := newMemorySessionStore()
	p := domain.Principal{ID: 1, Username: "adminUser", Name: "Admin Name", Role: domain.RoleAdmin}

	rec := serveWithSession(t, store, "", func(c echo.Context) error {
		SessionFrom(c).SetUser(p)
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	ck := responseCookie(rec, "portal_session")
	if ck == nil || ck.Value == "" {
		t.Fatalf("expected session cookie to be set")
	}
	if !ck.HttpOnly || ck.MaxAge != 3600 {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}
	saved, ok := store.sessions[ck.Value]
	if !ok || saved.User == nil || *saved.User != p {
		t.Fatalf("expected principal to be saved under cookie id, got %+v", saved)
	}
}

func TestSession_LoadsStoredSession(t *testing.T) {
	store := newMemorySessionStore()
	p := domain.Principal{ID: 2, Role: domain.RoleKaryawan}
	store.sessions["abc"] = domain.Session{ID: "abc", User: &p, ExpiresAt: time.Now().Add(time.Hour)}

	rec := serveWithSession(t, store, "abc", func(c echo.Context) error {
		if !SessionFrom(c).HasRole(domain.RoleKaryawan) {
			t.Fatalf("expected stored principal to be loaded")
		}
		return c.NoContent(http.StatusOK)
	})

	if responseCookie(rec, "portal_session") != nil {
		t.Fatalf("unchanged session must not rewrite the cookie")
	}
	if _, ok := store.sessions["abc"]; !ok {
		t.Fatalf("unchanged session must stay stored")
	}
}

func TestSession_ClearDeletesAndExpiresCookie(t *testing.T) {
	store := newMemorySessionStore()
	store.sessions["abc"] = domain.Session{ID: "abc", User: &domain.Principal{Role: domain.RoleAdmin}}

	rec := serveWithSession(t, store, "abc", func(c echo.Context) error {
		SessionFrom(c).Clear()
		return c.Redirect(http.StatusFound, "/login")
	})

	if _, ok := store.sessions["abc"]; ok {
		t.Fatalf("expected stored session to be deleted")
	}
	ck := responseCookie(rec, "portal_session")
	if ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("expected cookie to be expired, got %+v", ck)
	}
}

func TestSession_RotatesIDOnLogin(t *testing.T) {
	store := newMemorySessionStore()
	store.sessions["old"] = domain.Session{ID: "old", User: &domain.Principal{ID: 9, Role: domain.RoleKaryawan}}

	rec := serveWithSession(t, store, "old", func(c echo.Context) error {
		SessionFrom(c).SetUser(domain.Principal{ID: 1, Role: domain.RoleAdmin})
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	ck := responseCookie(rec, "portal_session")
	if ck == nil || ck.Value == "old" {
		t.Fatalf("expected a new session id, got %+v", ck)
	}
	if _, ok := store.sessions["old"]; ok {
		t.Fatalf("expected old session to be removed")
	}
}

func TestSession_UnknownOrBrokenStoreMeansEmpty(t *testing.T) {
	store := newMemorySessionStore()
	rec := serveWithSession(t, store, "stale", func(c echo.Context) error {
		if SessionFrom(c).User != nil {
			t.Fatalf("expected empty session for unknown id")
		}
		return c.NoContent(http.StatusOK)
	})
	if ck := responseCookie(rec, "portal_session"); ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("expected stale cookie to be expired, got %+v", ck)
	}

	store.getErr = errors.New("redis: i/o timeout")
	p := domain.Principal{ID: 2, Role: domain.RoleKaryawan}
	store.sessions["live"] = domain.Session{ID: "live", User: &p, ExpiresAt: time.Now().Add(time.Hour)}
	rec = serveWithSession(t, store, "live", func(c echo.Context) error {
		if SessionFrom(c).User != nil {
			t.Fatalf("expected empty session when the store fails")
		}
		return c.Redirect(http.StatusFound, "/login")
	})
	if ck := responseCookie(rec, "portal_session"); ck != nil {
		t.Fatalf("store failure must keep the cookie, got %+v", ck)
	}
	if _, ok := store.sessions["live"]; !ok {
		t.Fatalf("store failure must keep the stored session")
	}
}

func TestSession_ExplicitLogoutDuringOutageExpiresCookie(t *testing.T) {
	store := newMemorySessionStore()
	store.getErr = errors.New("redis: i/o timeout")

	rec := serveWithSession(t, store, "live", func(c echo.Context) error {
		SessionFrom(c).Clear()
		if err := Commit(c); err != nil {
			t.Fatalf("commit: %v", err)
		}
		return c.Redirect(http.StatusFound, "/login")
	})
	if ck := responseCookie(rec, "portal_session"); ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("expected cookie to be expired on logout, got %+v", ck)
	}
}

func TestSession_CommitReportsSaveFailure(t *testing.T) {
	store := newMemorySessionStore()
	store.saveErr = errors.New("redis: connection refused")

	rec := serveWithSession(t, store, "", func(c echo.Context) error {
		SessionFrom(c).SetUser(domain.Principal{ID: 1, Role: domain.RoleAdmin})
		if err := Commit(c); err == nil {
			t.Fatalf("expected save failure to be returned")
		}
		return c.NoContent(http.StatusInternalServerError)
	})

	if ck := responseCookie(rec, "portal_session"); ck != nil {
		t.Fatalf("no cookie may be set when the save failed, got %+v", ck)
	}
	if len(store.sessions) != 0 {
		t.Fatalf("expected nothing stored, got %+v", store.sessions)
	}
}

func TestSession_CommitWritesOnce(t *testing.T) {
	store := newMemorySessionStore()

	rec := serveWithSession(t, store, "", func(c echo.Context) error {
		SessionFrom(c).SetUser(domain.Principal{ID: 1, Role: domain.RoleAdmin})
		if err := Commit(c); err != nil {
			t.Fatalf("commit: %v", err)
		}
		if err := Commit(c); err != nil {
			t.Fatalf("second commit: %v", err)
		}
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	ck := responseCookie(rec, "portal_session")
	if ck == nil || ck.Value == "" {
		t.Fatalf("expected session cookie to be set")
	}
	if len(store.sessions) != 1 {
		t.Fatalf("expected exactly one stored session, got %d", len(store.sessions))
	}
}

func TestCommit_WithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if err := Commit(c); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
