package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/core/ports"
	"github.com/absensi-pegawai/portal/internal/pkg/password"
)

var _ ports.CredentialStore = (*CredentialStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS admin (
	id_admin      SERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	nama_admin    TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS karyawan (
	id_karyawan   SERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	nama_karyawan TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS login_attempts (
	id          BIGSERIAL PRIMARY KEY,
	username    TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	role        TEXT,
	remote_ip   TEXT,
	at          TIMESTAMPTZ NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS login_attempts_username_at_idx ON login_attempts (username, at DESC);
`

const (
	selectAdmins    = `SELECT id_admin, username, nama_admin, password_hash FROM admin WHERE username = $1 ORDER BY id_admin`
	selectEmployees = `SELECT id_karyawan, username, nama_karyawan, password_hash FROM karyawan WHERE username = $1 ORDER BY id_karyawan`
	insertAdmin     = `INSERT INTO admin (username, nama_admin, password_hash) VALUES ($1, $2, $3) RETURNING id_admin`
	insertEmployee  = `INSERT INTO karyawan (username, nama_karyawan, password_hash) VALUES ($1, $2, $3) RETURNING id_karyawan`
	insertAttempt   = `INSERT INTO login_attempts (username, outcome, role, remote_ip, at) VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)`
)

// CredentialStore implements the credential stores and the login audit trail
// on Postgres.
type CredentialStore struct {
	DB *sql.DB
}

func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{DB: db}
}

// Migrate creates the tables if they do not exist yet.
func (s *CredentialStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// FindAdmins returns admin rows whose username and password both match.
func (s *CredentialStore) FindAdmins(ctx context.Context, creds domain.Credentials) ([]domain.AdminRecord, error) {
	rows, err := s.DB.QueryContext(ctx, selectAdmins, creds.Username)
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	defer rows.Close()

	out := []domain.AdminRecord{}
	seen := false
	for rows.Next() {
		seen = true
		var (
			rec  domain.AdminRecord
			hash string
		)
		if err := rows.Scan(&rec.IDAdmin, &rec.Username, &rec.NamaAdmin, &hash); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		if password.Matches(hash, creds.Password) {
			out = append(out, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !seen {
		password.MatchesAbsent(creds.Password)
	}
	return out, nil
}

// FindEmployees returns karyawan rows whose username and password both match.
func (s *CredentialStore) FindEmployees(ctx context.Context, creds domain.Credentials) ([]domain.EmployeeRecord, error) {
	rows, err := s.DB.QueryContext(ctx, selectEmployees, creds.Username)
	if err != nil {
		return nil, fmt.Errorf("find karyawan: %w", err)
	}
	defer rows.Close()

	out := []domain.EmployeeRecord{}
	seen := false
	for rows.Next() {
		seen = true
		var (
			rec  domain.EmployeeRecord
			hash string
		)
		if err := rows.Scan(&rec.IDKaryawan, &rec.Username, &rec.NamaKaryawan, &hash); err != nil {
			return nil, fmt.Errorf("scan karyawan: %w", err)
		}
		if password.Matches(hash, creds.Password) {
			out = append(out, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find karyawan: %w", err)
	}
	if !seen {
		password.MatchesAbsent(creds.Password)
	}
	return out, nil
}

// CreateAccount inserts a new account into the table for acc.Role.
func (s *CredentialStore) CreateAccount(ctx context.Context, acc domain.NewAccount) (domain.StoreRecord, error) {
	var id int
	switch acc.Role {
	case domain.RoleAdmin:
		if err := s.DB.QueryRowContext(ctx, insertAdmin, acc.Username, acc.Name, acc.PasswordHash).Scan(&id); err != nil {
			return nil, mapWriteErr("admin", err)
		}
		return domain.AdminRecord{IDAdmin: id, Username: acc.Username, NamaAdmin: acc.Name}, nil
	case domain.RoleKaryawan:
		if err := s.DB.QueryRowContext(ctx, insertEmployee, acc.Username, acc.Name, acc.PasswordHash).Scan(&id); err != nil {
			return nil, mapWriteErr("karyawan", err)
		}
		return domain.EmployeeRecord{IDKaryawan: id, Username: acc.Username, NamaKaryawan: acc.Name}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, acc.Role)
}

func mapWriteErr(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return domain.ErrAccountExists
	}
	return fmt.Errorf("insert %s: %w", table, err)
}

// InsertAttempt persists a login attempt to the login_attempts table.
func (s *CredentialStore) InsertAttempt(ctx context.Context, attempt domain.LoginAttempt) error {
	_, err := s.DB.ExecContext(ctx, insertAttempt,
		attempt.Username, string(attempt.Outcome), string(attempt.Role), attempt.RemoteIP, attempt.At.UTC())
	if err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}
	return nil
}

func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *CredentialStore) Close(_ context.Context) error {
	return s.DB.Close()
}
