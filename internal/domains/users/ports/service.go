package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// Service exposes identity use cases to adapters.
type Service interface {
	Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error)
	Login(ctx context.Context, email, password string) (*types.AuthResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, input types.UpdateProfileInput) (*domain.User, error)
	EnsureAdmin(ctx context.Context, input types.RegisterInput) (*domain.User, error)
}
