package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

// DefaultSessionTTL matches the storefront's 30-day login.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Service exposes user bounded context use cases.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	tokens     ports.TokenCodec
	sessionTTL time.Duration
	now        func() time.Time
	newID      func() string
}

type Option func(*Service)

// WithSessionTTL overrides how long a login stays valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens ports.TokenCodec, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: DefaultSessionTTL,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates a USER account and signs it in.
func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error) {
	user, err := domain.NewUser(s.newID(), input.Name, input.Email, input.Password, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, mapError(err)
	}
	return s.startSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*types.AuthResult, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil || password == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, normalized)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	return s.startSession(ctx, user)
}

// Logout revokes the session named by the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return mapError(err)
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

// Authenticate resolves a bearer token to its user. The session must still
// exist and be unexpired.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, mapError(ports.ErrInvalidToken)
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, mapError(err)
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, mapError(err)
	}
	if session.UserID != claims.UserID || session.Expired(s.now()) {
		return nil, mapError(ports.ErrInvalidToken)
	}
	user, err := s.repo.GetByID(ctx, session.UserID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, mapError(ports.ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, input types.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(input.Name, input.Phone); err != nil {
		return nil, mapError(err)
	}
	user.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// EnsureAdmin creates an ADMIN account, or promotes and re-keys an existing one.
func (s *Service) EnsureAdmin(ctx context.Context, input types.RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(s.newID(), input.Name, input.Email, input.Password, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	_ = user.AssignRole(domain.RoleAdmin)

	existing, err := s.repo.GetByEmail(ctx, user.Email)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, mapError(err)
		}
		return user, nil
	case err != nil:
		return nil, err
	}
	existing.PasswordHash = user.PasswordHash
	existing.UpdatedAt = user.UpdatedAt
	_ = existing.AssignRole(domain.RoleAdmin)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, mapError(err)
	}
	return existing, nil
}

func (s *Service) startSession(ctx context.Context, user *domain.User) (*types.AuthResult, error) {
	now := s.now()
	session := domain.Session{
		ID:        s.newID(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	token, err := s.tokens.Issue(session)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &types.AuthResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

var _ ports.Service = (*Service)(nil)
