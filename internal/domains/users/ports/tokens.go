package ports

import (
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

var ErrInvalidToken = errors.New("invalid session token")

// TokenClaims is what a session token carries.
type TokenClaims struct {
	SessionID string
	UserID    string
}

// TokenCodec signs and verifies session tokens.
type TokenCodec interface {
	Issue(session domain.Session) (string, error)
	Parse(token string) (TokenClaims, error)
}
