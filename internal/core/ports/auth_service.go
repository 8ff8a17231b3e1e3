package ports

import (
	"context"

	"github.com/absensi-pegawai/portal/internal/core/domain"
)

// AuthService resolves submitted credentials into a session principal.
type AuthService interface {
	Resolve(ctx context.Context, creds domain.Credentials) (domain.Principal, error)
}
