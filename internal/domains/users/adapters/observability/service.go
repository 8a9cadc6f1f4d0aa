package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	userdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register")
	defer span.End()
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user")
	}
	span.SetAttributes(attribute.String("user.id", result.User.ID))
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "user registered", slog.String("user.id", result.User.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		s.metrics.recordLoginFailed(ctx)
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	span.SetAttributes(attribute.String("user.id", result.User.ID))
	s.metrics.recordLogin(ctx)
	return result, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	user, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "authentication failed")
	}
	span.SetAttributes(attribute.String("user.id", user.ID), attribute.String("user.role", string(user.Role)))
	return user, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetProfile", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	user, err := s.inner.GetProfile(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load profile", slog.String("user.id", userID))
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, input types.UpdateProfileInput) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateProfile", trace.WithAttributes(attribute.String("user.id", input.UserID)))
	defer span.End()
	user, err := s.inner.UpdateProfile(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update profile", slog.String("user.id", input.UserID))
	}
	s.metrics.recordUpdated(ctx)
	return user, nil
}

func (s *Service) EnsureAdmin(ctx context.Context, input types.RegisterInput) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.EnsureAdmin")
	defer span.End()
	user, err := s.inner.EnsureAdmin(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to ensure admin")
	}
	s.logInfo(ctx, "admin ensured", slog.String("user.id", user.ID), slog.String("user.email", user.Email))
	return user, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelError
	if errors.Is(err, application.ErrInvalidInput) ||
		errors.Is(err, application.ErrAuthentication) ||
		errors.Is(err, application.ErrNotFound) ||
		errors.Is(err, application.ErrEmailTaken) {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

type serviceMetrics struct {
	usersRegistered metric.Int64Counter
	usersUpdated    metric.Int64Counter
	logins          metric.Int64Counter
	loginFailures   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of users registered"))
	updated, _ := m.Int64Counter("users.service.updated", metric.WithDescription("Number of profile updates"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	failures, _ := m.Int64Counter("users.service.login_failures", metric.WithDescription("Number of rejected logins"))
	return serviceMetrics{usersRegistered: registered, usersUpdated: updated, logins: logins, loginFailures: failures}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.usersUpdated != nil {
		m.usersUpdated.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLoginFailed(ctx context.Context) {
	if m.loginFailures != nil {
		m.loginFailures.Add(ctx, 1)
	}
}

var _ userports.Service = (*Service)(nil)
