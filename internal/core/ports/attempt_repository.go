package ports

import (
	"context"

	"github.com/absensi-pegawai/portal/internal/core/domain"
)

// AttemptRepository stores the login audit trail.
type AttemptRepository interface {
	InsertAttempt(ctx context.Context, attempt domain.LoginAttempt) error
}
