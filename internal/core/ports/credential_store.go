package ports

import (
	"context"

	"github.com/absensi-pegawai/portal/internal/core/domain"
)

// AdminRepository looks up admin store rows matching both username and
// password. An empty slice with a nil error means no match.
type AdminRepository interface {
	FindAdmins(ctx context.Context, creds domain.Credentials) ([]domain.AdminRecord, error)
}

// EmployeeRepository looks up karyawan store rows matching both username and
// password. An empty slice with a nil error means no match.
type EmployeeRepository interface {
	FindEmployees(ctx context.Context, creds domain.Credentials) ([]domain.EmployeeRecord, error)
}

// AccountRepository seeds credentials into the store selected by the role.
type AccountRepository interface {
	CreateAccount(ctx context.Context, acc domain.NewAccount) (domain.StoreRecord, error)
}

// CredentialStore is implemented by each store driver.
type CredentialStore interface {
	AdminRepository
	EmployeeRepository
	AccountRepository
	AttemptRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
