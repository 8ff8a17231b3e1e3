package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/core/ports"
	"github.com/absensi-pegawai/portal/internal/pkg/password"
)

// AccountService seeds admin and karyawan credentials.
type AccountService struct {
	repo ports.AccountRepository
	cost int
	log  zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, cost: bcrypt.DefaultCost, log: log}
}

// Create hashes the password and stores the account in the store that
// matches role.
func (s *AccountService) Create(ctx context.Context, role, username, name, plain string) (domain.StoreRecord, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" || plain == "" {
		return nil, domain.ErrMissingCredentials
	}

	hash, err := password.Hash(plain, s.cost)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.CreateAccount(ctx, domain.NewAccount{
		Role:         r,
		Username:     username,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Str("role", string(r)).Msg("account created")
	return rec, nil
}
