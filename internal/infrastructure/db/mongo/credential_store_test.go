package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/pkg/password"
)

// setupTestStore connects to TEST_MONGO_URI (default mongodb://localhost:27017)
// using a throwaway database, skipping the test when MongoDB is unreachable.
func setupTestStore(t *testing.T) *CredentialStore {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx := context.Background()
	store, err := Open(ctx, Config{URI: uri, Database: "portal_test_" + uuid.NewString()[:8], Timeout: 2 * time.Second})
	if err != nil {
		t.Skipf("MongoDB not available for testing at %s: %v", uri, err)
	}
	t.Cleanup(func() {
		_ = store.db.Drop(ctx)
		_ = store.Close(ctx)
	})

	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func seed(t *testing.T, s *CredentialStore, role domain.Role, username, name, plain string) domain.StoreRecord {
	t.Helper()
	hash, err := password.Hash(plain, bcrypt.MinCost)
	require.NoError(t, err)
	rec, err := s.CreateAccount(context.Background(), domain.NewAccount{Role: role, Username: username, Name: name, PasswordHash: hash})
	require.NoError(t, err)
	return rec
}

func TestCredentialStore_FindAdmins(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seed(t, s, domain.RoleAdmin, "adminUser", "Admin Name", "adminPass")

	rows, err := s.FindAdmins(ctx, domain.Credentials{Username: "adminUser", Password: "adminPass"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.AdminRecord{IDAdmin: 1, Username: "adminUser", NamaAdmin: "Admin Name"}, rows[0])

	rows, err = s.FindAdmins(ctx, domain.Credentials{Username: "adminUser", Password: "wrong"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = s.FindAdmins(ctx, domain.Credentials{Username: "ghost", Password: "adminPass"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCredentialStore_FindEmployees(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seed(t, s, domain.RoleKaryawan, "budi", "Budi", "pw1")
	seed(t, s, domain.RoleKaryawan, "sari", "Sari", "pw2")

	rows, err := s.FindEmployees(ctx, domain.Credentials{Username: "sari", Password: "pw2"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.EmployeeRecord{IDKaryawan: 2, Username: "sari", NamaKaryawan: "Sari"}, rows[0])

	// Stores are disjoint: an employee is never found in the admin store.
	admins, err := s.FindAdmins(ctx, domain.Credentials{Username: "sari", Password: "pw2"})
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestCredentialStore_CreateAccountDuplicate(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, domain.RoleAdmin, "root", "Root", "pw")

	_, err := s.CreateAccount(context.Background(), domain.NewAccount{Role: domain.RoleAdmin, Username: "root", Name: "Again", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestCredentialStore_InsertAttempt(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.InsertAttempt(ctx, domain.LoginAttempt{
		Username: "budi",
		Outcome:  domain.OutcomeInvalidCredentials,
		RemoteIP: "10.0.0.1",
		At:       time.Now(),
	})
	require.NoError(t, err)

	n, err := s.db.Collection(attemptsCollection).CountDocuments(ctx, map[string]any{"username": "budi"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
