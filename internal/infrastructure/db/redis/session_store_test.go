package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absensi-pegawai/portal/internal/core/domain"
)

// setupTestRedis connects to TEST_REDIS_ADDR (default localhost:6379) and
// skips the test when Redis is not reachable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15, Timeout: time.Second})
	if err != nil {
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStoreWithPrefix(setupTestRedis(t), "test-session:"+uuid.NewString()+":")
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := domain.Session{
		ID:        "s-1",
		User:      &domain.Principal{ID: 1, Username: "adminUser", Name: "Admin Name", Role: domain.RoleAdmin},
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	require.NotNil(t, got.User)
	assert.Equal(t, *sess.User, *got.User)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{ID: "s-del", ExpiresAt: time.Now().Add(time.Minute)}))
	require.NoError(t, store.Delete(ctx, "s-del"))
	require.NoError(t, store.Delete(ctx, "s-del"))
	require.NoError(t, store.Delete(ctx, ""))

	_, err := store.Get(ctx, "s-del")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, domain.Session{ExpiresAt: time.Now().Add(time.Minute)}))
	assert.Error(t, store.Save(ctx, domain.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{ID: "s-ttl", ExpiresAt: time.Now().Add(100 * time.Millisecond)}))
	time.Sleep(250 * time.Millisecond)

	_, err := store.Get(ctx, "s-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
