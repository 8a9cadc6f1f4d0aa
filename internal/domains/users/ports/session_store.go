package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore abstracts session persistence.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	// PurgeExpired removes sessions past their expiry and reports how many went.
	PurgeExpired(ctx context.Context) (int64, error)
}
