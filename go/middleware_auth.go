package storefrontserver

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	userdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// SessionCookieName is the cookie browsers carry the session token in.
const SessionCookieName = "session_token"

const (
	currentUserKey  = "storefront.currentUser"
	currentTokenKey = "storefront.sessionToken"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*userdomain.User, error)
}

// AuthMiddleware attaches the current user to the gin context.
type AuthMiddleware struct {
	users Authenticator
}

func NewAuthMiddleware(users Authenticator) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// Optional resolves the user when a valid token is present and otherwise lets the
// request through as a guest.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.resolve(c)
		c.Next()
	}
}

// RequireUser rejects requests without a valid session.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.resolve(c); !ok {
			apierrors.Abort(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := m.resolve(c)
		if !ok {
			apierrors.Abort(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
			return
		}
		if !user.IsAdmin() {
			apierrors.Abort(c, apierrors.ErrForbidden.WithDetail("admin role required"))
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) (*userdomain.User, bool) {
	if user, ok := CurrentUser(c); ok {
		return user, true
	}
	if m == nil || m.users == nil {
		return nil, false
	}
	token := sessionToken(c)
	if token == "" {
		return nil, false
	}
	user, err := m.users.Authenticate(c.Request.Context(), token)
	if err != nil || user == nil {
		return nil, false
	}
	c.Set(currentUserKey, user)
	c.Set(currentTokenKey, token)
	return user, true
}

// CurrentUser returns the user resolved by the auth middleware, if any.
func CurrentUser(c *gin.Context) (*userdomain.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*userdomain.User)
	return user, ok && user != nil
}

func requireCurrentUser(c *gin.Context) (*userdomain.User, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
	}
	return user, ok
}

func currentToken(c *gin.Context) string {
	return c.GetString(currentTokenKey)
}

// sessionToken prefers the bearer header over the cookie.
func sessionToken(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
