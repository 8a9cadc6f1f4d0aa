package types

import (
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	UserID string
	Name   string
	Phone  string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}
