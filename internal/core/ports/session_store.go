package ports

import (
	"context"

	"github.com/absensi-pegawai/portal/internal/core/domain"
)

// SessionStore persists sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, sess domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}
