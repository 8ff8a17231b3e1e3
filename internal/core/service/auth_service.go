package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/core/ports"
	"github.com/absensi-pegawai/portal/internal/pkg/metrics"
)

const (
	storeAdmin    = "admin"
	storeKaryawan = "karyawan"
)

// AuthService resolves credentials against the admin store and then the
// karyawan store, in that order.
type AuthService struct {
	admins        ports.AdminRepository
	employees     ports.EmployeeRepository
	lookupTimeout time.Duration
	log           zerolog.Logger
}

// NewAuthService returns an AuthService. A lookupTimeout of zero leaves store
// lookups bounded only by the caller's context.
func NewAuthService(admins ports.AdminRepository, employees ports.EmployeeRepository, lookupTimeout time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		admins:        admins,
		employees:     employees,
		lookupTimeout: lookupTimeout,
		log:           log,
	}
}

// Resolve returns the principal for creds. The karyawan store is queried only
// once the admin store has answered with no rows, so an admin match always
// wins. A store failure stops the chain with ErrStoreUnavailable.
func (s *AuthService) Resolve(ctx context.Context, creds domain.Credentials) (domain.Principal, error) {
	if !creds.Complete() {
		return domain.Principal{}, domain.ErrMissingCredentials
	}

	admins, err := lookup(ctx, s, storeAdmin, func(ctx context.Context) ([]domain.AdminRecord, error) {
		return s.admins.FindAdmins(ctx, creds)
	})
	if err != nil {
		return domain.Principal{}, err
	}
	if len(admins) > 0 {
		return domain.NewPrincipal(admins[0]), nil
	}

	employees, err := lookup(ctx, s, storeKaryawan, func(ctx context.Context) ([]domain.EmployeeRecord, error) {
		return s.employees.FindEmployees(ctx, creds)
	})
	if err != nil {
		return domain.Principal{}, err
	}
	if len(employees) > 0 {
		return domain.NewPrincipal(employees[0]), nil
	}

	return domain.Principal{}, domain.ErrInvalidCredentials
}

// lookup runs a single store query, applying the lookup timeout and recording
// its duration.
func lookup[T any](ctx context.Context, s *AuthService, store string, find func(context.Context) ([]T, error)) ([]T, error) {
	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := find(ctx)
	elapsed := time.Since(start)

	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case len(rows) > 0:
		result = "hit"
	}
	metrics.StoreLookupDuration.WithLabelValues(store, result).Observe(elapsed.Seconds())

	if err != nil {
		s.log.Error().Err(err).Str("store", store).Dur("elapsed", elapsed).Msg("credential lookup failed")
		return nil, fmt.Errorf("%w: %s store: %w", domain.ErrStoreUnavailable, store, err)
	}

	s.log.Debug().Str("store", store).Str("result", result).Dur("elapsed", elapsed).Msg("credential lookup")
	return rows, nil
}
